package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allDTypes = []DType{Logic, Int32, Float32, Float64}

func TestBWider_LatticeMax(t *testing.T) {
	for _, dx := range allDTypes {
		for _, dy := range allDTypes {
			for _, cx := range []bool{false, true} {
				for _, cy := range []bool{false, true} {
					got, ok := BWider(dx, cx, dy, cy)
					require.True(t, ok)

					want := dx
					if dy > dx {
						want = dy
					}
					assert.Equal(t, want, got, "BWider(%s, %s)", dx, dy)
				}
			}
		}
	}
}

func TestBToFloat(t *testing.T) {
	for _, dx := range allDTypes {
		for _, dy := range allDTypes {
			for _, cx := range []bool{false, true} {
				for _, cy := range []bool{false, true} {
					got, ok := BToFloat(dx, cx, dy, cy)
					require.True(t, ok)

					want := Float64
					if dx == Float32 && dy == Float32 {
						want = Float32
					}
					assert.Equal(t, want, got, "BToFloat(%s, %s)", dx, dy)
				}
			}
		}
	}
}

func TestBToLogic(t *testing.T) {
	for _, dx := range allDTypes {
		for _, dy := range allDTypes {
			got, ok := BToLogic(dx, false, dy, false)
			require.True(t, ok)
			assert.Equal(t, Logic, got)
		}
	}
}

func TestUnaryCalculators(t *testing.T) {
	tests := []struct {
		name string
		calc UnaryDTypeFunc
		in   DType
		want DType
	}{
		{"USame logic", USame, Logic, Logic},
		{"USame float32", USame, Float32, Float32},
		{"UNoLogic logic", UNoLogic, Logic, Int32},
		{"UNoLogic int32", UNoLogic, Int32, Int32},
		{"UNoLogic float64", UNoLogic, Float64, Float64},
		{"UToFloat logic", UToFloat, Logic, Float64},
		{"UToFloat int32", UToFloat, Int32, Float64},
		{"UToFloat float32", UToFloat, Float32, Float32},
		{"UToFloat float64", UToFloat, Float64, Float64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.calc(tt.in, false)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDType_SizeAndString(t *testing.T) {
	assert.Equal(t, 1, Logic.Size())
	assert.Equal(t, 4, Int32.Size())
	assert.Equal(t, 4, Float32.Size())
	assert.Equal(t, 8, Float64.Size())
	assert.Equal(t, "float64", Float64.String())
	assert.Equal(t, "logic", Logic.String())
}
