package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShape_NumElements(t *testing.T) {
	assert.Equal(t, 1, Shape{}.NumElements())
	assert.Equal(t, 6, Shape{2, 3}.NumElements())
	assert.Equal(t, 0, Shape{2, 0, 3}.NumElements())
}

func TestShape_ComputeStrides(t *testing.T) {
	assert.Equal(t, []int{12, 4, 1}, Shape{2, 3, 4}.ComputeStrides())
	assert.Equal(t, []int{1}, Shape{5}.ComputeStrides())
}

func TestShape_Validate(t *testing.T) {
	require.NoError(t, Shape{2, 3}.Validate())
	require.NoError(t, Shape{0}.Validate())

	err := Shape{2, -1}.Validate()
	var serr *ShapeMismatchError
	require.ErrorAs(t, err, &serr)
}

func TestBroadcastShapes(t *testing.T) {
	tests := []struct {
		name string
		a, b Shape
		want Shape
	}{
		{"equal", Shape{2, 3}, Shape{2, 3}, Shape{2, 3}},
		{"stretch left", Shape{3, 1}, Shape{3, 5}, Shape{3, 5}},
		{"stretch right", Shape{1, 5}, Shape{3, 5}, Shape{3, 5}},
		{"rank extend", Shape{5}, Shape{3, 5}, Shape{3, 5}},
		{"both stretch", Shape{1, 3}, Shape{3, 1}, Shape{3, 3}},
		{"scalar", Shape{1}, Shape{4, 2}, Shape{4, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BroadcastShapes(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBroadcastShapes_Incompatible(t *testing.T) {
	_, err := BroadcastShapes(Shape{3, 4}, Shape{3, 5})

	var berr *BroadcastError
	require.ErrorAs(t, err, &berr)
	assert.Equal(t, Shape{3, 4}, berr.A)
	assert.Equal(t, Shape{3, 5}, berr.B)
}

func TestLinearCoordRoundTrip(t *testing.T) {
	shape := Shape{2, 3, 4}
	strides := shape.ComputeStrides()
	coord := make([]int, 3)

	for i := 0; i < shape.NumElements(); i++ {
		linearToCoord(i, strides, coord)
		assert.Equal(t, i, coordToLinear(coord, strides))
	}
}
