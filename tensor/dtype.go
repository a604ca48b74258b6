// Package tensor provides the complex-capable N-dimensional array core:
// shape and stride math, the data-type lattice, operand unification, the
// element-wise operation engine, and advanced indexing.
package tensor

// DType represents runtime type information for tensor storage.
//
// The four values form a total widening order:
//
//	Logic < Int32 < Float32 < Float64
type DType int

// Supported data types, narrowest first.
const (
	Logic DType = iota
	Int32
	Float32
	Float64
)

// Size returns the byte size of one element of the data type.
func (dt DType) Size() int {
	switch dt {
	case Logic:
		return 1
	case Int32, Float32:
		return 4
	case Float64:
		return 8
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DType) String() string {
	switch dt {
	case Logic:
		return "logic"
	case Int32:
		return "int32"
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	default:
		return "unknown"
	}
}

// Wider returns the lattice maximum of two data types.
func Wider(a, b DType) DType {
	if a > b {
		return a
	}
	return b
}

// UnaryDTypeFunc computes the output data type of a unary operation from the
// operand's data type and complex-storage flag. Returning ok=false marks the
// combination as unsupported.
type UnaryDTypeFunc func(d DType, cpx bool) (DType, bool)

// BinaryDTypeFunc computes the output data type of a binary operation from
// both operands' data types and complex-storage flags. Returning ok=false
// marks the combination as unsupported.
type BinaryDTypeFunc func(dx DType, cx bool, dy DType, cy bool) (DType, bool)

// USame keeps the operand's data type.
func USame(d DType, _ bool) (DType, bool) {
	return d, true
}

// UNoLogic keeps the operand's data type but promotes Logic to Int32, for
// operations whose results leave {0, 1} (negation, absolute value).
func UNoLogic(d DType, _ bool) (DType, bool) {
	if d == Logic {
		return Int32, true
	}
	return d, true
}

// UToFloat promotes to floating point: Float32 stays Float32, everything
// else becomes Float64.
func UToFloat(d DType, _ bool) (DType, bool) {
	if d == Float32 {
		return Float32, true
	}
	return Float64, true
}

// BWider returns the lattice maximum of the two operand data types.
func BWider(dx DType, _ bool, dy DType, _ bool) (DType, bool) {
	return Wider(dx, dy), true
}

// BToFloat promotes to floating point: Float64 unless both operands are
// Float32, in which case Float32.
func BToFloat(dx DType, _ bool, dy DType, _ bool) (DType, bool) {
	if dx == Float32 && dy == Float32 {
		return Float32, true
	}
	return Float64, true
}

// BToLogic always yields Logic, for comparison and logical operations.
func BToLogic(DType, bool, DType, bool) (DType, bool) {
	return Logic, true
}
