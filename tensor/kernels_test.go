package tensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCMul(t *testing.T) {
	re, im := CMul(1, 2, 3, 4)
	assert.Equal(t, -5.0, re)
	assert.Equal(t, 10.0, im)

	// Real-by-real round trip.
	re, im = CMul(3, 0, 4, 0)
	assert.Equal(t, 12.0, re)
	assert.Equal(t, 0.0, im)
}

func TestCDiv(t *testing.T) {
	tests := []struct {
		name               string
		are, aim, bre, bim float64
		re, im             float64
	}{
		{"general", -5, 10, 3, 4, 1, 2},
		{"real divisor", 6, 8, 2, 0, 3, 4},
		{"imaginary divisor", 6, 8, 0, 2, 4, -3},
		{"dominant real", 10, 0, 4, 2, 2, -1},
		{"dominant imaginary", 10, 0, 2, 4, 1, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, im := CDiv(tt.are, tt.aim, tt.bre, tt.bim)
			assert.InDelta(t, tt.re, re, 1e-12)
			assert.InDelta(t, tt.im, im, 1e-12)
		})
	}
}

func TestCDiv_ZeroDivisor(t *testing.T) {
	// Division by zero follows IEEE semantics instead of erroring out.
	re, im := CDiv(1, 0, 0, 0)
	assert.True(t, math.IsInf(re, 1))
	assert.True(t, math.IsNaN(im) || im == 0)

	re, im = CDiv(0, 0, 0, 0)
	assert.True(t, math.IsNaN(re))
	assert.True(t, math.IsNaN(im))
}

func TestCDiv_NoIntermediateOverflow(t *testing.T) {
	// Naive (are*bre+aim*bim)/(bre²+bim²) would overflow here.
	re, im := CDiv(1e300, 1e300, 1e300, 1e300)
	assert.InDelta(t, 1.0, re, 1e-12)
	assert.InDelta(t, 0.0, im, 1e-12)
}

func TestCReciprocal(t *testing.T) {
	re, im := CReciprocal(0, 1)
	assert.InDelta(t, 0.0, re, 1e-12)
	assert.InDelta(t, -1.0, im, 1e-12)

	re, im = CReciprocal(3, 4)
	assert.InDelta(t, 0.12, re, 1e-12)
	assert.InDelta(t, -0.16, im, 1e-12)
}

func TestCAbs(t *testing.T) {
	assert.Equal(t, 5.0, CAbs(3, 4))
	assert.Equal(t, 5.0, CAbs(-3, -4))
	assert.Equal(t, 7.0, CAbs(7, 0))
	assert.Equal(t, 0.0, CAbs(0, 0))

	// Scaled form avoids overflow in the squared components.
	assert.InDelta(t, 5e300, CAbs(3e300, 4e300), 1e288)
}
