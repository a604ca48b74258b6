package tensor

import (
	"math"
	"reflect"

	"golang.org/x/exp/constraints"
)

// inputKind tags the original kind of a unified operand.
type inputKind int

const (
	kindNumber inputKind = iota
	kindComplexNumber
	kindArray
	kindTensor
)

// operand is the normalized descriptor every accepted input kind unifies
// into: flattened real/imaginary float64 views, shape, element count,
// complexity flag and the original kind/dtype tags.
//
// For scalar inputs the scalar fields are authoritative and the shape is
// [1]; for everything else the flat views are authoritative. Single-element
// non-scalar inputs carry both, redundantly.
type operand struct {
	kind      inputKind
	isScalar  bool // original value was a bare number or complex number
	single    bool // flattened element count is 1, regardless of shape
	isComplex bool

	sre, sim float64

	re, im []float64
	shape  Shape
	dtype  DType

	tensor *Tensor // non-nil iff kind == kindTensor
}

// at returns the real component of element i.
func (o *operand) at(i int) float64 {
	if o.isScalar {
		return o.sre
	}
	return o.re[i]
}

// imAt returns the imaginary component of element i.
func (o *operand) imAt(i int) float64 {
	if !o.isComplex {
		return 0
	}
	if o.isScalar {
		return o.sim
	}
	return o.im[i]
}

// tensorize materializes the operand as a tensor. Tensor operands are
// returned as-is; everything else allocates.
func (o *operand) tensorize() (*Tensor, error) {
	if o.tensor != nil {
		return o.tensor, nil
	}
	t, err := New(o.shape, o.dtype)
	if err != nil {
		return nil, err
	}
	if o.isComplex {
		t.EnsureComplex()
	}
	for i := 0; i < t.NumElements(); i++ {
		t.re.setAt(i, o.at(i))
		if t.im != nil {
			t.im.setAt(i, o.imAt(i))
		}
	}
	return t, nil
}

func scalarOperand(re, im float64, cpx bool) *operand {
	kind := kindNumber
	if cpx {
		kind = kindComplexNumber
	}
	dtype := Float64
	if !cpx && re == math.Trunc(re) && re >= math.MinInt32 && re <= math.MaxInt32 {
		// Int32-representable scalars keep integer promotion semantics, so
		// a bare constant does not widen a narrower tensor operand.
		dtype = Int32
	}
	return &operand{
		kind:      kind,
		isScalar:  true,
		single:    true,
		isComplex: cpx,
		sre:       re,
		sim:       im,
		shape:     Shape{1},
		dtype:     dtype,
	}
}

func flatOperand(re []float64, dtype DType) *operand {
	o := &operand{
		kind:  kindArray,
		re:    re,
		shape: Shape{len(re)},
		dtype: dtype,
	}
	if len(re) == 1 {
		o.single = true
		o.sre = re[0]
	}
	return o
}

// unify converts any supported input into an operand descriptor. It accepts
// real scalars, complex scalars, flat numeric slices, arbitrarily nested
// slices and tensors; anything else fails with *InvalidInputKindError.
func unify(v any) (*operand, error) {
	switch x := v.(type) {
	case *Tensor:
		return unifyTensor(x), nil
	case float64:
		return scalarOperand(x, 0, false), nil
	case float32:
		return scalarOperand(float64(x), 0, false), nil
	case int:
		return scalarOperand(float64(x), 0, false), nil
	case int32:
		return scalarOperand(float64(x), 0, false), nil
	case int64:
		return scalarOperand(float64(x), 0, false), nil
	case uint:
		return scalarOperand(float64(x), 0, false), nil
	case bool:
		b := 0.0
		if x {
			b = 1
		}
		o := scalarOperand(b, 0, false)
		o.dtype = Logic
		return o, nil
	case complex128:
		return scalarOperand(real(x), imag(x), true), nil
	case complex64:
		return scalarOperand(float64(real(x)), float64(imag(x)), true), nil
	case []float64:
		re := make([]float64, len(x))
		copy(re, x)
		return flatOperand(re, Float64), nil
	case []float32:
		return flatOperand(widenSlice(x), Float32), nil
	case []int:
		return flatOperand(widenSlice(x), Int32), nil
	case []int32:
		return flatOperand(widenSlice(x), Int32), nil
	case []int64:
		return flatOperand(widenSlice(x), Int32), nil
	case []bool:
		re := make([]float64, len(x))
		for i, b := range x {
			if b {
				re[i] = 1
			}
		}
		return flatOperand(re, Logic), nil
	case []complex128:
		re := make([]float64, len(x))
		im := make([]float64, len(x))
		for i, c := range x {
			re[i] = real(c)
			im[i] = imag(c)
		}
		o := flatOperand(re, Float64)
		o.im = im
		o.isComplex = true
		if o.single {
			o.sim = im[0]
		}
		return o, nil
	case nil:
		return nil, &InvalidInputKindError{Value: v}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		return unifyNested(rv)
	}
	return nil, &InvalidInputKindError{Value: v}
}

func widenSlice[T constraints.Integer | constraints.Float](x []T) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = float64(v)
	}
	return out
}

func unifyTensor(t *Tensor) *operand {
	o := &operand{
		kind:      kindTensor,
		isComplex: t.IsComplex(),
		re:        t.re.float64s(),
		shape:     t.shape,
		dtype:     t.dtype,
		tensor:    t,
	}
	if t.im != nil {
		o.im = t.im.float64s()
	}
	if t.NumElements() == 1 {
		o.single = true
		o.sre = o.re[0]
		if o.im != nil {
			o.sim = o.im[0]
		}
	}
	return o
}

// unifyNested flattens an arbitrarily nested slice in row-major order,
// validating that every axis has a consistent sub-length.
func unifyNested(rv reflect.Value) (*operand, error) {
	shape := inferNestedShape(rv)
	n := shape.NumElements()

	w := &nestedWriter{
		re:    make([]float64, n),
		dtype: Logic,
	}
	if err := w.walk(rv, 0, shape); err != nil {
		return nil, err
	}

	o := &operand{
		kind:      kindArray,
		isComplex: w.im != nil,
		re:        w.re,
		im:        w.im,
		shape:     shape,
		dtype:     w.dtype,
	}
	if n == 1 {
		o.single = true
		o.sre = o.re[0]
		if o.im != nil {
			o.sim = o.im[0]
		}
	}
	return o, nil
}

// inferNestedShape descends along first elements to find the candidate
// shape; the subsequent walk validates it against every branch.
func inferNestedShape(rv reflect.Value) Shape {
	shape := Shape{}
	cur := rv
	for {
		if cur.Kind() == reflect.Interface {
			cur = cur.Elem()
		}
		if cur.Kind() != reflect.Slice && cur.Kind() != reflect.Array {
			return shape
		}
		shape = append(shape, cur.Len())
		if cur.Len() == 0 {
			return shape
		}
		cur = cur.Index(0)
	}
}

type nestedWriter struct {
	re    []float64
	im    []float64 // allocated on the first complex leaf
	pos   int
	dtype DType
}

func (w *nestedWriter) walk(rv reflect.Value, axis int, shape Shape) error {
	if rv.Kind() == reflect.Interface {
		rv = rv.Elem()
	}
	if axis == len(shape) {
		return w.leaf(rv)
	}
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return &RaggedArrayError{Axis: axis, Want: shape[axis], Got: 0}
	}
	if rv.Len() != shape[axis] {
		return &RaggedArrayError{Axis: axis, Want: shape[axis], Got: rv.Len()}
	}
	for i := 0; i < rv.Len(); i++ {
		if err := w.walk(rv.Index(i), axis+1, shape); err != nil {
			return err
		}
	}
	return nil
}

func (w *nestedWriter) leaf(rv reflect.Value) error {
	switch rv.Kind() {
	case reflect.Float64:
		w.re[w.pos] = rv.Float()
		w.dtype = Wider(w.dtype, Float64)
	case reflect.Float32:
		w.re[w.pos] = rv.Float()
		w.dtype = Wider(w.dtype, Float32)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		w.re[w.pos] = float64(rv.Int())
		w.dtype = Wider(w.dtype, Int32)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		w.re[w.pos] = float64(rv.Uint())
		w.dtype = Wider(w.dtype, Int32)
	case reflect.Bool:
		if rv.Bool() {
			w.re[w.pos] = 1
		}
	case reflect.Complex64, reflect.Complex128:
		c := rv.Complex()
		w.re[w.pos] = real(c)
		if w.im == nil {
			w.im = make([]float64, len(w.re))
		}
		w.im[w.pos] = imag(c)
		w.dtype = Wider(w.dtype, Float64)
	default:
		return &InvalidInputKindError{Value: rv.Interface(), Context: "nested array element"}
	}
	w.pos++
	return nil
}
