package tensor

import "math"

// Scalar complex arithmetic used by the element-wise kernels and exported
// for operation providers. Division, reciprocal and magnitude use
// overflow-avoiding formulations rather than the naive conjugate-multiply
// forms; see CDiv and CAbs.

// CMul computes (are + aim*i) * (bre + bim*i). The imaginary part is
// computed first so in-place kernels can overwrite the real operand's slot
// without a temporary.
func CMul(are, aim, bre, bim float64) (re, im float64) {
	im = are*bim + aim*bre
	re = are*bre - aim*bim
	return re, im
}

// CDiv computes (are + aim*i) / (bre + bim*i) using the branch-by-magnitude
// formulation: the division is scaled by the larger-magnitude divisor
// component before dividing, avoiding intermediate overflow. A divisor with
// a zero component short-circuits to real division, so dividing by zero
// yields IEEE ±Inf/NaN components instead of failing.
func CDiv(are, aim, bre, bim float64) (re, im float64) {
	if bim == 0 {
		return are / bre, aim / bre
	}
	if bre == 0 {
		return aim / bim, -are / bim
	}
	if math.Abs(bre) >= math.Abs(bim) {
		r := bim / bre
		d := bre + bim*r
		return (are + aim*r) / d, (aim - are*r) / d
	}
	r := bre / bim
	d := bre*r + bim
	return (are*r + aim) / d, (aim*r - are) / d
}

// CReciprocal computes 1 / (re + im*i) with the same branch-by-magnitude
// scaling as CDiv.
func CReciprocal(re, im float64) (float64, float64) {
	return CDiv(1, 0, re, im)
}

// CAbs computes the magnitude of (re + im*i) with the scaled-hypotenuse
// formulation: divide by the larger-magnitude component, take
// sqrt(1 + r²) and multiply back, avoiding overflow of re² + im².
func CAbs(re, im float64) float64 {
	re, im = math.Abs(re), math.Abs(im)
	if re == 0 {
		return im
	}
	if im == 0 {
		return re
	}
	if re >= im {
		r := im / re
		return re * math.Sqrt(1+r*r)
	}
	r := re / im
	return im * math.Sqrt(1+r*r)
}
