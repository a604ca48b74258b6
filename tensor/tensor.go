package tensor

import (
	"fmt"
	"strings"

	"golang.org/x/exp/constraints"
)

// Tensor is an N-dimensional array with real or complex typed storage.
//
// A tensor owns a real buffer of NumElements() elements and, iff it
// currently holds complex values, an imaginary buffer of the same length.
// Absence of the imaginary buffer is the invariant "purely real".
//
// A View shares buffers; Clone allocates new ones. No other aliasing
// guarantee is made.
type Tensor struct {
	shape   Shape
	strides []int
	dtype   DType
	re      *storage
	im      *storage // nil when purely real
}

// New creates a zero-filled tensor with the given shape and data type.
func New(shape Shape, dtype DType) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	return &Tensor{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		dtype:   dtype,
		re:      newStorage(dtype, shape.NumElements()),
	}, nil
}

// Zeros creates a zero-filled tensor.
func Zeros(shape Shape, dtype DType) (*Tensor, error) {
	return New(shape, dtype)
}

// Ones creates a tensor filled with 1.
func Ones(shape Shape, dtype DType) (*Tensor, error) {
	return Full(shape, 1, dtype)
}

// Full creates a tensor filled with the given value (quantized per dtype).
func Full(shape Shape, value float64, dtype DType) (*Tensor, error) {
	t, err := New(shape, dtype)
	if err != nil {
		return nil, err
	}
	t.re.fill(value)
	return t, nil
}

// Scalar creates a rank-1 single-element Float64 tensor holding v.
func Scalar(v float64) *Tensor {
	t, _ := New(Shape{1}, Float64)
	t.re.setAt(0, v)
	return t
}

// ScalarComplex creates a rank-1 single-element complex tensor holding v.
func ScalarComplex(v complex128) *Tensor {
	t := Scalar(real(v))
	t.EnsureComplex()
	t.im.setAt(0, imag(v))
	return t
}

// FromSlice creates a tensor from a flat Go numeric slice. The data is
// copied. The dtype is inferred from T: integers map to Int32, float32 to
// Float32 and every other type to Float64.
func FromSlice[T constraints.Integer | constraints.Float](data []T, shape Shape) (*Tensor, error) {
	if shape.NumElements() != len(data) {
		return nil, &ShapeMismatchError{
			Context: "FromSlice",
			Got:     shape.Clone(),
			Reason:  fmt.Sprintf("shape requires %d elements, got %d", shape.NumElements(), len(data)),
		}
	}

	t, err := New(shape, inferDType[T]())
	if err != nil {
		return nil, err
	}
	storeSlice(t.re, data)
	return t, nil
}

func inferDType[T constraints.Integer | constraints.Float]() DType {
	var dummy T
	switch any(dummy).(type) {
	case float32:
		return Float32
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return Int32
	default:
		return Float64
	}
}

// FromNested creates a tensor from an arbitrarily nested Go slice (or any
// other accepted operand kind), inferring shape and dtype. Ragged nesting
// fails with *RaggedArrayError.
func FromNested(v any) (*Tensor, error) {
	op, err := unify(v)
	if err != nil {
		return nil, err
	}
	return op.tensorize()
}

// FromNestedComplex creates a complex tensor from a real/imaginary pair of
// nested arrays. The two inferred shapes must be identical.
func FromNestedComplex(re, im any) (*Tensor, error) {
	opRe, err := unify(re)
	if err != nil {
		return nil, err
	}
	opIm, err := unify(im)
	if err != nil {
		return nil, err
	}
	if opRe.isComplex || opIm.isComplex {
		return nil, &InvalidInputKindError{Value: im, Context: "FromNestedComplex"}
	}
	if !opRe.shape.Equal(opIm.shape) {
		return nil, &ShapeMismatchError{
			Context: "FromNestedComplex",
			Want:    opRe.shape.Clone(),
			Got:     opIm.shape.Clone(),
		}
	}

	t, err := New(opRe.shape, Wider(opRe.dtype, opIm.dtype))
	if err != nil {
		return nil, err
	}
	t.EnsureComplex()
	for i := 0; i < t.NumElements(); i++ {
		t.re.setAt(i, opRe.at(i))
		t.im.setAt(i, opIm.at(i))
	}
	return t, nil
}

// Shape returns the tensor's shape. The returned slice must not be mutated.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// Strides returns the tensor's row-major strides.
func (t *Tensor) Strides() []int {
	return t.strides
}

// DType returns the tensor's declared data type.
func (t *Tensor) DType() DType {
	return t.dtype
}

// IsComplex reports whether the tensor currently carries complex storage.
func (t *Tensor) IsComplex() bool {
	return t.im != nil
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.re.Len()
}

// EnsureComplex allocates a zeroed imaginary buffer if the tensor is purely
// real, making the tensor complex. Returns the tensor for chaining.
func (t *Tensor) EnsureComplex() *Tensor {
	if t.im == nil {
		t.im = newStorage(t.dtype, t.re.Len())
	}
	return t
}

// Clone creates a deep copy: new buffers, same contents.
func (t *Tensor) Clone() *Tensor {
	c := &Tensor{
		shape:   t.shape.Clone(),
		strides: t.shape.ComputeStrides(),
		dtype:   t.dtype,
		re:      t.re.clone(),
	}
	if t.im != nil {
		c.im = t.im.clone()
	}
	return c
}

// View creates a shallow copy that shares the underlying buffers.
func (t *Tensor) View() *Tensor {
	return &Tensor{
		shape:   t.shape.Clone(),
		strides: t.shape.ComputeStrides(),
		dtype:   t.dtype,
		re:      t.re,
		im:      t.im,
	}
}

// Reshape returns a tensor with the given shape sharing this tensor's
// buffers. The element count must be unchanged.
func (t *Tensor) Reshape(shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != t.NumElements() {
		return nil, &ShapeMismatchError{
			Context: "Reshape",
			Got:     shape.Clone(),
			Reason:  fmt.Sprintf("shape holds %d elements, tensor has %d", shape.NumElements(), t.NumElements()),
		}
	}
	return &Tensor{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		dtype:   t.dtype,
		re:      t.re,
		im:      t.im,
	}, nil
}

// offsetOf computes the flat offset for a full multi-index, panicking on
// rank or bounds violations. GetEl/SetEl are the programmer-error surface;
// the indexing engine's Get/Set return errors instead.
func (t *Tensor) offsetOf(indices []int) int {
	if len(indices) != len(t.shape) {
		panic(fmt.Sprintf("expected %d indices, got %d", len(t.shape), len(indices)))
	}
	offset := 0
	for i, idx := range indices {
		if idx < 0 || idx >= t.shape[i] {
			panic(fmt.Sprintf("index %d out of bounds for axis %d (extent %d)", idx, i, t.shape[i]))
		}
		offset += idx * t.strides[i]
	}
	return offset
}

// GetEl returns the real part of the element at the given multi-index.
func (t *Tensor) GetEl(indices ...int) float64 {
	return t.re.at(t.offsetOf(indices))
}

// GetElComplex returns the element at the given multi-index as a complex
// value (imaginary part 0 for purely real tensors).
func (t *Tensor) GetElComplex(indices ...int) complex128 {
	off := t.offsetOf(indices)
	if t.im == nil {
		return complex(t.re.at(off), 0)
	}
	return complex(t.re.at(off), t.im.at(off))
}

// SetEl stores a real value at the given multi-index.
func (t *Tensor) SetEl(value float64, indices ...int) {
	t.re.setAt(t.offsetOf(indices), value)
}

// SetElComplex stores a complex value at the given multi-index, upgrading
// the tensor to complex storage if needed.
func (t *Tensor) SetElComplex(value complex128, indices ...int) {
	off := t.offsetOf(indices)
	if imag(value) != 0 {
		t.EnsureComplex()
	}
	t.re.setAt(off, real(value))
	if t.im != nil {
		t.im.setAt(off, imag(value))
	}
}

// Float64s returns the real elements as []float64 in flattened row-major
// order. For Float64 tensors this is a zero-copy view.
func (t *Tensor) Float64s() []float64 {
	return t.re.float64s()
}

// ImagFloat64s returns the imaginary elements, or nil for a purely real
// tensor.
func (t *Tensor) ImagFloat64s() []float64 {
	if t.im == nil {
		return nil
	}
	return t.im.float64s()
}

// String returns a human-readable summary of the tensor.
func (t *Tensor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tensor[%s]%v", t.dtype, t.shape)
	if t.im != nil {
		b.WriteString(" complex")
	}
	return b.String()
}
