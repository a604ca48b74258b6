package tensor

import "github.com/pkg/errors"

// Get reads the addressed element set. One specifier per dimension is
// expected for multi-dimensional forms; a single specifier addresses the
// flattened row-major element order. A trailing bool argument is the
// keepDims flag: without it every size-1 result dimension is dropped and a
// fully-scalar selection returns a bare float64 (or complex128); with it
// all dimensions are kept at size 1.
//
// A single Predicate argument filters the flattened tensor by real value
// and always yields a 1-D tensor of the matches in flat order. Get never
// mutates its input.
func (t *Tensor) Get(args ...any) (any, error) {
	specs, keepDims := splitKeepDims(args)
	offsets, dims, err := t.resolveSpecs(specs)
	if err != nil {
		return nil, errors.WithMessage(err, "Get")
	}

	// The predicate form is contractually 1-D, never scalar.
	if len(specs) == 1 && isPredicateArg(specs[0]) {
		keepDims = true
	}

	if !keepDims {
		collapsed := make(Shape, 0, len(dims))
		for _, d := range dims {
			if d != 1 {
				collapsed = append(collapsed, d)
			}
		}
		if len(collapsed) == 0 {
			// Fully scalar selection.
			off := offsets[0]
			if t.im != nil {
				return complex(t.re.at(off), t.im.at(off)), nil
			}
			return t.re.at(off), nil
		}
		dims = collapsed
	}

	out, err := New(dims, t.dtype)
	if err != nil {
		return nil, err
	}
	if t.im != nil {
		out.EnsureComplex()
	}
	for k, off := range offsets {
		out.re.setAt(k, t.re.at(off))
		if out.im != nil {
			out.im.setAt(k, t.im.at(off))
		}
	}
	return out, nil
}

// Set writes into the addressed element set, broadcasting the assigned
// value (the last argument: scalar, nested array or tensor) against the
// addressed shape. Specifier semantics match Get; a predicate or mask form
// addresses matching flattened positions in ascending order. Set mutates
// only the receiver and returns it.
func (t *Tensor) Set(args ...any) (*Tensor, error) {
	if len(args) < 2 {
		return nil, &InvalidInputKindError{Value: args, Context: "Set (need specifiers and a value)"}
	}
	specs, value := args[:len(args)-1], args[len(args)-1]

	offsets, dims, err := t.resolveSpecs(specs)
	if err != nil {
		return nil, errors.WithMessage(err, "Set")
	}

	val, err := unify(value)
	if err != nil {
		return nil, errors.WithMessage(err, "Set")
	}

	// Get collapses size-1 result dimensions, so a value shaped like the
	// collapsed selection must be accepted alongside the uncollapsed form
	// for set(s, get(s)) to round-trip.
	target := dims
	if !val.single && !broadcastsTo(val.shape, target) {
		collapsed := make(Shape, 0, len(dims))
		for _, d := range dims {
			if d != 1 {
				collapsed = append(collapsed, d)
			}
		}
		if !broadcastsTo(val.shape, collapsed) {
			return nil, errors.WithMessage(&BroadcastError{A: val.shape.Clone(), B: dims}, "Set")
		}
		target = collapsed
	}

	if val.isComplex && !t.IsComplex() {
		t.EnsureComplex()
	}

	vi := broadcastIndexer(val.shape, target)
	for k, off := range offsets {
		j := vi(k)
		t.re.setAt(off, val.at(j))
		if t.im != nil {
			t.im.setAt(off, val.imAt(j))
		}
	}
	return t, nil
}

// broadcastsTo reports whether src broadcasts to exactly dst.
func broadcastsTo(src, dst Shape) bool {
	combined, err := BroadcastShapes(src, dst)
	return err == nil && combined.Equal(dst)
}

func isPredicateArg(a any) bool {
	switch a.(type) {
	case Predicate, func(float64) bool:
		return true
	}
	return false
}

func splitKeepDims(args []any) ([]any, bool) {
	keep := false
	specs := make([]any, 0, len(args))
	for _, a := range args {
		if b, ok := a.(bool); ok {
			keep = b
			continue
		}
		specs = append(specs, a)
	}
	return specs, keep
}

// resolveSpecs turns the specifier list into the addressed flat offsets (in
// Cartesian order) and the uncollapsed per-dimension result lengths.
func (t *Tensor) resolveSpecs(args []any) ([]int, Shape, error) {
	if len(args) == 0 {
		return nil, nil, &InvalidInputKindError{Value: args, Context: "index (no specifiers)"}
	}

	specs := make([]indexSpec, len(args))
	for i, a := range args {
		sp, err := parseSpec(a)
		if err != nil {
			return nil, nil, err
		}
		specs[i] = sp
	}

	// Single-specifier form addresses the flattened element order.
	if len(args) == 1 && (len(t.shape) != 1 || specs[0].kind == specPredicate) {
		return t.resolveFlat(specs[0])
	}

	if len(specs) != len(t.shape) {
		return nil, nil, &ShapeMismatchError{
			Context: "index",
			Got:     Shape{len(specs)},
			Want:    Shape{len(t.shape)},
			Reason:  "one specifier per dimension expected",
		}
	}

	lists := make([][]int, len(specs))
	dims := make(Shape, len(specs))
	for d, sp := range specs {
		pos, err := sp.resolve(d, t.shape[d])
		if err != nil {
			return nil, nil, err
		}
		lists[d] = pos
		dims[d] = len(pos)
	}

	total := dims.NumElements()
	offsets := make([]int, 0, total)
	coord := make([]int, len(dims))
	for k := 0; k < total; k++ {
		off := 0
		for d := range lists {
			off += lists[d][coord[d]] * t.strides[d]
		}
		offsets = append(offsets, off)
		for d := len(coord) - 1; d >= 0; d-- {
			coord[d]++
			if coord[d] < dims[d] {
				break
			}
			coord[d] = 0
		}
	}
	return offsets, dims, nil
}

// resolveFlat handles the single-specifier whole-tensor forms, including
// the predicate filter.
func (t *Tensor) resolveFlat(sp indexSpec) ([]int, Shape, error) {
	n := t.NumElements()

	if sp.kind == specPredicate {
		var offsets []int
		for i := 0; i < n; i++ {
			if sp.pred(t.re.at(i)) {
				offsets = append(offsets, i)
			}
		}
		return offsets, Shape{len(offsets)}, nil
	}

	pos, err := sp.resolve(0, n)
	if err != nil {
		return nil, nil, err
	}
	return pos, Shape{len(pos)}, nil
}
