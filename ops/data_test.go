package ops

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numen-go/numen/tensor"
)

func TestTile_Matrix(t *testing.T) {
	out, err := Tile([][]float64{{1, 2}, {3, 4}}, []int{2, 2})
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{4, 4}, out.Shape())
	want := []float64{
		1, 2, 1, 2,
		3, 4, 3, 4,
		1, 2, 1, 2,
		3, 4, 3, 4,
	}
	assert.Empty(t, cmp.Diff(want, out.Float64s()))
}

func TestTile_Vector(t *testing.T) {
	out, err := Tile([]float64{1, 2, 3}, []int{2})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{6}, out.Shape())
	assert.Equal(t, []float64{1, 2, 3, 1, 2, 3}, out.Float64s())
}

func TestTile_RepsExtendRank(t *testing.T) {
	// Tiling a vector with rank-2 reps promotes it to a matrix.
	out, err := Tile([]float64{1, 2}, []int{3, 1})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, []float64{1, 2, 1, 2, 1, 2}, out.Float64s())
}

func TestTile_ShortRepsPadLeft(t *testing.T) {
	// Missing leading reps default to 1.
	out, err := Tile([][]float64{{1, 2}, {3, 4}}, []int{2})
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 4}, out.Shape())
	assert.Equal(t, []float64{1, 2, 1, 2, 3, 4, 3, 4}, out.Float64s())
}

func TestTile_DTypeAndComplex(t *testing.T) {
	out, err := Tile([]int{1, 2}, []int{2})
	require.NoError(t, err)
	assert.Equal(t, tensor.Int32, out.DType())

	c, err := tensor.FromNestedComplex([]float64{1}, []float64{2})
	require.NoError(t, err)
	out, err = Tile(c, []int{3})
	require.NoError(t, err)
	require.True(t, out.IsComplex())
	assert.Equal(t, []float64{1, 1, 1}, out.Float64s())
	assert.Equal(t, []float64{2, 2, 2}, out.ImagFloat64s())
}

func TestTile_InvalidReps(t *testing.T) {
	_, err := Tile([]float64{1}, []int{0})

	var ierr *tensor.InvalidInputKindError
	require.ErrorAs(t, err, &ierr)

	_, err = Tile([]float64{1}, []int{-2})
	require.ErrorAs(t, err, &ierr)
}
