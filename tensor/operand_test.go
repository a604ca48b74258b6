package tensor

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnify_Scalars(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		re    float64
		im    float64
		cpx   bool
		dtype DType
	}{
		{"int", 7, 7, 0, false, Int32},
		{"integral float64", 3.0, 3, 0, false, Int32},
		{"fractional float64", 2.5, 2.5, 0, false, Float64},
		{"huge float64", 1e20, 1e20, 0, false, Float64},
		{"bool", true, 1, 0, false, Logic},
		{"complex128", 1 + 2i, 1, 2, true, Float64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := unify(tt.in)
			require.NoError(t, err)

			assert.True(t, o.isScalar)
			assert.True(t, o.single)
			assert.Equal(t, tt.re, o.sre)
			assert.Equal(t, tt.im, o.imAt(0))
			assert.Equal(t, tt.cpx, o.isComplex)
			assert.Equal(t, tt.dtype, o.dtype)
			assert.Equal(t, Shape{1}, o.shape)
		})
	}
}

func TestUnify_FlatSlices(t *testing.T) {
	o, err := unify([]int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, kindArray, o.kind)
	assert.Equal(t, Int32, o.dtype)
	assert.Equal(t, []float64{1, 2, 3}, o.re)
	assert.Equal(t, Shape{3}, o.shape)

	b, err := unify([]bool{true, false, true})
	require.NoError(t, err)
	assert.Equal(t, Logic, b.dtype)
	assert.Equal(t, []float64{1, 0, 1}, b.re)

	c, err := unify([]complex128{1 + 2i, 3 - 4i})
	require.NoError(t, err)
	require.True(t, c.isComplex)
	assert.Equal(t, []float64{1, 3}, c.re)
	assert.Equal(t, []float64{2, -4}, c.im)
}

func TestUnify_SliceDoesNotAliasInput(t *testing.T) {
	src := []float64{1, 2}
	o, err := unify(src)
	require.NoError(t, err)

	src[0] = 99
	assert.Equal(t, 1.0, o.re[0])
}

func TestUnify_Nested(t *testing.T) {
	o, err := unify([][]float64{{1, 2, 3}, {4, 5, 6}})
	require.NoError(t, err)

	assert.Equal(t, Shape{2, 3}, o.shape)
	assert.Equal(t, Float64, o.dtype)
	assert.Empty(t, cmp.Diff([]float64{1, 2, 3, 4, 5, 6}, o.re))
}

func TestUnify_NestedMixedAny(t *testing.T) {
	// Leaf dtypes widen across the whole array: bool + int + float.
	o, err := unify([]any{
		[]any{true, 2},
		[]any{3.5, 4},
	})
	require.NoError(t, err)

	assert.Equal(t, Shape{2, 2}, o.shape)
	assert.Equal(t, Float64, o.dtype)
	assert.Equal(t, []float64{1, 2, 3.5, 4}, o.re)
}

func TestUnify_NestedComplexLeaf(t *testing.T) {
	o, err := unify([][]complex128{{1 + 1i}, {2 - 2i}})
	require.NoError(t, err)

	require.True(t, o.isComplex)
	assert.Equal(t, []float64{1, 2}, o.re)
	assert.Equal(t, []float64{1, -2}, o.im)
}

func TestUnify_Ragged(t *testing.T) {
	_, err := unify([][]int{{1, 2, 3}, {4, 5}})

	var rerr *RaggedArrayError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, 1, rerr.Axis)
	assert.Equal(t, 3, rerr.Want)
	assert.Equal(t, 2, rerr.Got)
}

func TestUnify_InvalidKinds(t *testing.T) {
	for _, v := range []any{nil, "hello", map[string]int{}, struct{}{}} {
		_, err := unify(v)

		var ierr *InvalidInputKindError
		require.ErrorAs(t, err, &ierr, "value %v", v)
	}
}

func TestUnify_InvalidNestedLeaf(t *testing.T) {
	_, err := unify([]any{[]any{"oops"}})

	var ierr *InvalidInputKindError
	require.ErrorAs(t, err, &ierr)
}

func TestUnify_Tensor(t *testing.T) {
	m, _ := FromSlice([]float64{1, 2, 3, 4}, Shape{2, 2})
	o, err := unify(m)
	require.NoError(t, err)

	assert.Equal(t, kindTensor, o.kind)
	assert.Same(t, m, o.tensor)
	assert.Equal(t, Shape{2, 2}, o.shape)
	assert.False(t, o.single)

	s := Scalar(5)
	so, err := unify(s)
	require.NoError(t, err)
	assert.True(t, so.single)
	assert.Equal(t, 5.0, so.sre)
}

func TestOperand_Tensorize(t *testing.T) {
	o, err := unify([][]int{{1, 2}, {3, 4}})
	require.NoError(t, err)

	m, err := o.tensorize()
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 2}, m.Shape())
	assert.Equal(t, Int32, m.DType())
	assert.Equal(t, []float64{1, 2, 3, 4}, m.Float64s())

	// A tensor operand tensorizes to itself.
	to, _ := unify(m)
	same, err := to.tensorize()
	require.NoError(t, err)
	assert.Same(t, m, same)
}
