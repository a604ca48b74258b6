package tensor

import (
	"strconv"
	"strings"
)

// specKind tags one parsed index specifier.
type specKind int

const (
	specFull specKind = iota
	specIndex
	specSlice
	specList
	specMask
	specPredicate
)

// indexSpec is the closed union an index argument parses into. Specifiers
// are built per call, resolved against one dimension's extent, and
// discarded after producing the position plan.
type indexSpec struct {
	kind specKind

	index int

	start, stop, step          int
	hasStart, hasStop, hasStep bool

	list []int
	mask *Tensor
	pred func(float64) bool
}

// Predicate filters the flattened tensor element-wise by real value. It is
// only valid as the single specifier of Get/Set.
type Predicate func(float64) bool

// parseSpec converts one Get/Set argument into an indexSpec. Accepted
// forms: int (negative counts from the end), a slice string
// "start:stop:step" with any component omissible, []int, a Logic tensor
// (boolean mask), an Int32/float tensor (index sequence), and a Predicate.
func parseSpec(arg any) (indexSpec, error) {
	switch x := arg.(type) {
	case int:
		return indexSpec{kind: specIndex, index: x}, nil
	case string:
		return parseSliceString(x)
	case []int:
		return indexSpec{kind: specList, list: x}, nil
	case *Tensor:
		if x.DType() == Logic {
			return indexSpec{kind: specMask, mask: x}, nil
		}
		list := make([]int, x.NumElements())
		for i, v := range x.Float64s() {
			list[i] = int(v)
		}
		return indexSpec{kind: specList, list: list}, nil
	case Predicate:
		return indexSpec{kind: specPredicate, pred: x}, nil
	case func(float64) bool:
		return indexSpec{kind: specPredicate, pred: x}, nil
	}
	return indexSpec{}, &InvalidInputKindError{Value: arg, Context: "index specifier"}
}

// parseSliceString parses the "start:stop:step" mini-grammar with
// Python-style semantics. ":" and "::" denote the full range; a lone
// integer is a plain index.
func parseSliceString(s string) (indexSpec, error) {
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return indexSpec{}, &InvalidInputKindError{Value: s, Context: "slice specifier"}
	}

	if len(parts) == 1 {
		tok := strings.TrimSpace(parts[0])
		if tok == "" {
			return indexSpec{kind: specFull}, nil
		}
		i, err := strconv.Atoi(tok)
		if err != nil {
			return indexSpec{}, &InvalidInputKindError{Value: s, Context: "slice specifier"}
		}
		return indexSpec{kind: specIndex, index: i}, nil
	}

	sp := indexSpec{kind: specSlice}
	set := []struct {
		val *int
		has *bool
	}{
		{&sp.start, &sp.hasStart},
		{&sp.stop, &sp.hasStop},
		{&sp.step, &sp.hasStep},
	}
	for i, part := range parts {
		tok := strings.TrimSpace(part)
		if tok == "" {
			continue
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return indexSpec{}, &InvalidInputKindError{Value: s, Context: "slice specifier"}
		}
		*set[i].val = v
		*set[i].has = true
	}
	if sp.hasStep && sp.step == 0 {
		return indexSpec{}, &InvalidInputKindError{Value: s, Context: "slice specifier (zero step)"}
	}
	if !sp.hasStart && !sp.hasStop && !sp.hasStep {
		return indexSpec{kind: specFull}, nil
	}
	return sp, nil
}

// resolve produces the ordered concrete positions a specifier addresses
// within a dimension of the given extent.
func (sp indexSpec) resolve(axis, extent int) ([]int, error) {
	switch sp.kind {
	case specFull:
		pos := make([]int, extent)
		for i := range pos {
			pos[i] = i
		}
		return pos, nil

	case specIndex:
		i, err := wrapIndex(sp.index, axis, extent)
		if err != nil {
			return nil, err
		}
		return []int{i}, nil

	case specSlice:
		return sp.resolveSlice(extent), nil

	case specList:
		pos := make([]int, len(sp.list))
		for k, idx := range sp.list {
			i, err := wrapIndex(idx, axis, extent)
			if err != nil {
				return nil, err
			}
			pos[k] = i
		}
		return pos, nil

	case specMask:
		if sp.mask.NumElements() != extent {
			return nil, &ShapeMismatchError{
				Context: "boolean mask",
				Want:    Shape{extent},
				Got:     sp.mask.Shape().Clone(),
			}
		}
		var pos []int
		for i, v := range sp.mask.Float64s() {
			if v != 0 {
				pos = append(pos, i)
			}
		}
		return pos, nil

	default:
		// Predicates are dimension-agnostic; the caller handles them
		// before per-dimension resolution.
		return nil, &InvalidInputKindError{Value: "predicate", Context: "per-dimension specifier"}
	}
}

// resolveSlice enumerates positions per the start/stop/step rule. Bounds
// are clamped, not errors, matching Python slice semantics; negative
// components count from the end and a negative step reverses enumeration.
func (sp indexSpec) resolveSlice(extent int) []int {
	step := 1
	if sp.hasStep {
		step = sp.step
	}

	var start, stop int
	if step > 0 {
		start, stop = 0, extent
	} else {
		start, stop = extent-1, -1
	}
	if sp.hasStart {
		start = clampSliceBound(sp.start, extent, step < 0)
	}
	if sp.hasStop {
		stop = clampSliceBound(sp.stop, extent, step < 0)
	}

	var pos []int
	if step > 0 {
		for i := start; i < stop; i += step {
			pos = append(pos, i)
		}
	} else {
		for i := start; i > stop; i += step {
			pos = append(pos, i)
		}
	}
	return pos
}

// clampSliceBound normalizes one slice component: negative values count
// from the end, out-of-range values clamp to the valid range. For negative
// steps the lower clamp is -1 so that e.g. "2::-1" can run down to 0.
func clampSliceBound(v, extent int, negStep bool) int {
	if v < 0 {
		v += extent
	}
	low := 0
	if negStep {
		low = -1
	}
	if v < low {
		return low
	}
	if negStep {
		if v >= extent {
			return extent - 1
		}
		return v
	}
	if v > extent {
		return extent
	}
	return v
}

func wrapIndex(i, axis, extent int) (int, error) {
	orig := i
	if i < 0 {
		i += extent
	}
	if i < 0 || i >= extent {
		return 0, &IndexOutOfBoundsError{Index: orig, Axis: axis, Extent: extent}
	}
	return i, nil
}
