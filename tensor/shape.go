package tensor

import (
	"fmt"
	"strconv"
)

// Shape represents the dimensions of a tensor.
type Shape []int

// String formats the shape like a plain int slice.
func (s Shape) String() string {
	return fmt.Sprint([]int(s))
}

// NumElements returns the total number of elements described by the shape.
func (s Shape) NumElements() int {
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that every dimension is nonnegative.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return &ShapeMismatchError{
				Context: "shape",
				Got:     s.Clone(),
				Reason:  "negative dimension at axis " + strconv.Itoa(i),
			}
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// ComputeStrides calculates row-major strides for the shape:
// stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// BroadcastShapes implements NumPy-style broadcasting rules.
//
// Shapes are compared element-wise from right to left; dimensions are
// compatible if they are equal or one of them is 1, and missing leading
// dimensions are treated as 1. Returns a *BroadcastError when the shapes
// are incompatible.
//
// Examples:
//
//	(3, 1) + (3, 5) → (3, 5)
//	(1, 5) + (3, 5) → (3, 5)
//	(3, 4) + (3, 5) → error
func BroadcastShapes(a, b Shape) (Shape, error) {
	maxLen := max(len(a), len(b))
	result := make(Shape, maxLen)

	for i := 0; i < maxLen; i++ {
		aDim := 1
		if idx := len(a) - 1 - i; idx >= 0 {
			aDim = a[idx]
		}

		bDim := 1
		if idx := len(b) - 1 - i; idx >= 0 {
			bDim = b[idx]
		}

		switch {
		case aDim == bDim:
			result[maxLen-1-i] = aDim
		case aDim == 1:
			result[maxLen-1-i] = bDim
		case bDim == 1:
			result[maxLen-1-i] = aDim
		default:
			return nil, &BroadcastError{A: a.Clone(), B: b.Clone()}
		}
	}

	return result, nil
}

// leftPad returns the shape extended to rank n with leading 1s.
func (s Shape) leftPad(n int) Shape {
	if len(s) >= n {
		return s
	}
	padded := make(Shape, n)
	for i := range padded {
		padded[i] = 1
	}
	copy(padded[n-len(s):], s)
	return padded
}

// linearToCoord decomposes a flattened row-major offset into coordinates,
// writing them into coord (which must have len(shape) entries).
func linearToCoord(idx int, strides []int, coord []int) {
	for d, st := range strides {
		if st == 0 {
			coord[d] = 0
			continue
		}
		coord[d] = idx / st
		idx %= st
	}
}

// coordToLinear is the inverse of linearToCoord.
func coordToLinear(coord, strides []int) int {
	offset := 0
	for d, c := range coord {
		offset += c * strides[d]
	}
	return offset
}
