package tensor

import "fmt"

// InvalidInputKindError reports a value that is not one of the accepted
// operand kinds (number, complex number, nested array, flat numeric slice,
// tensor) or is not a valid index specifier.
type InvalidInputKindError struct {
	Value   any
	Context string
}

func (e *InvalidInputKindError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s: unsupported input of type %T", e.Context, e.Value)
	}
	return fmt.Sprintf("unsupported input of type %T", e.Value)
}

// RaggedArrayError reports a nested array whose sub-arrays disagree in
// length along one axis.
type RaggedArrayError struct {
	Axis int
	Want int
	Got  int
}

func (e *RaggedArrayError) Error() string {
	return fmt.Sprintf("ragged nested array: axis %d has length %d, expected %d", e.Axis, e.Got, e.Want)
}

// ShapeMismatchError reports two shapes that were required to agree but do
// not, or a structurally invalid shape.
type ShapeMismatchError struct {
	Context string
	Want    Shape
	Got     Shape
	Reason  string
}

func (e *ShapeMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s (got %v)", e.Context, e.Reason, e.Got)
	}
	return fmt.Sprintf("%s: shape %v does not match %v", e.Context, e.Got, e.Want)
}

// BroadcastError reports two shapes that are not broadcast-compatible.
type BroadcastError struct {
	A Shape
	B Shape
}

func (e *BroadcastError) Error() string {
	return fmt.Sprintf("shapes %v and %v are not broadcast-compatible", e.A, e.B)
}

// UnsupportedDTypeCombinationError reports operand data types an operation
// cannot produce an output type for.
type UnsupportedDTypeCombinationError struct {
	Op     string
	X      DType
	XCpx   bool
	Y      DType
	YCpx   bool
	Binary bool
}

func (e *UnsupportedDTypeCombinationError) Error() string {
	if e.Binary {
		return fmt.Sprintf("%s: unsupported dtype combination (%s, %s)",
			e.Op, dtypeTag(e.X, e.XCpx), dtypeTag(e.Y, e.YCpx))
	}
	return fmt.Sprintf("%s: unsupported dtype %s", e.Op, dtypeTag(e.X, e.XCpx))
}

func dtypeTag(d DType, cpx bool) string {
	if cpx {
		return "complex " + d.String()
	}
	return d.String()
}

// UnsupportedComplexPathError reports an operation invoked on a combination
// of real/complex operands it defines no execution path for.
type UnsupportedComplexPathError struct {
	Op   string
	Path string // "real", "complex", "real/complex", ...
}

func (e *UnsupportedComplexPathError) Error() string {
	return fmt.Sprintf("%s: operation not defined for %s operands", e.Op, e.Path)
}

// InPlaceNotPossibleError reports an in-place invocation whose receiver
// cannot legally absorb the result.
type InPlaceNotPossibleError struct {
	Op     string
	Reason string
}

func (e *InPlaceNotPossibleError) Error() string {
	return fmt.Sprintf("%s: in-place not possible: %s", e.Op, e.Reason)
}

// IndexOutOfBoundsError reports an index specifier addressing a position
// outside its dimension's extent.
type IndexOutOfBoundsError struct {
	Index  int
	Axis   int
	Extent int
}

func (e *IndexOutOfBoundsError) Error() string {
	return fmt.Sprintf("index %d out of bounds for axis %d (extent %d)", e.Index, e.Axis, e.Extent)
}
