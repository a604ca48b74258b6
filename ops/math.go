package ops

import (
	"math"

	"github.com/numen-go/numen/tensor"
)

var absOp = tensor.MakeUnaryOp(tensor.UnaryFragments{
	Name:        "abs",
	Real:        math.Abs,
	Complex:     func(re, im float64) (float64, float64) { return tensor.CAbs(re, im), 0 },
	RealOutput:  true,
	OutputDType: tensor.UNoLogic,
	Source:      unaryKernelTemplate,
	Symbols: map[string]string{
		"real": "abs(x[i])", "complexRe": "cabs(xRe[i], xIm[i])",
	},
})

var conjOp = tensor.MakeUnaryOp(tensor.UnaryFragments{
	Name:    "conj",
	Real:    func(x float64) float64 { return x },
	Complex: func(re, im float64) (float64, float64) { return re, -im },
	Source:  unaryKernelTemplate,
	Symbols: map[string]string{
		"real": "x[i]", "complexRe": "xRe[i]", "complexIm": "-xIm[i]",
	},
})

var sqrtOp = tensor.MakeUnaryOp(tensor.UnaryFragments{
	Name: "sqrt",
	Real: math.Sqrt,
	Complex: func(re, im float64) (float64, float64) {
		m := tensor.CAbs(re, im)
		sre := math.Sqrt((m + re) / 2)
		sim := math.Sqrt((m - re) / 2)
		if im < 0 {
			sim = -sim
		}
		return sre, sim
	},
	OutputDType: tensor.UToFloat,
	Source:      unaryKernelTemplate,
	Symbols: map[string]string{
		"real":      "sqrt(x[i])",
		"complexRe": "sqrt((cabs(x[i]) + xRe[i]) / 2)", "complexIm": "sign(xIm[i]) * sqrt((cabs(x[i]) - xRe[i]) / 2)",
	},
})

var expOp = tensor.MakeUnaryOp(tensor.UnaryFragments{
	Name: "exp",
	Real: math.Exp,
	Complex: func(re, im float64) (float64, float64) {
		e := math.Exp(re)
		return e * math.Cos(im), e * math.Sin(im)
	},
	OutputDType: tensor.UToFloat,
	Source:      unaryKernelTemplate,
	Symbols: map[string]string{
		"real":      "exp(x[i])",
		"complexRe": "exp(xRe[i]) * cos(xIm[i])", "complexIm": "exp(xRe[i]) * sin(xIm[i])",
	},
})

var logOp = tensor.MakeUnaryOp(tensor.UnaryFragments{
	Name: "log",
	Real: math.Log,
	Complex: func(re, im float64) (float64, float64) {
		return math.Log(tensor.CAbs(re, im)), math.Atan2(im, re)
	},
	OutputDType: tensor.UToFloat,
	Source:      unaryKernelTemplate,
	Symbols: map[string]string{
		"real":      "log(x[i])",
		"complexRe": "log(cabs(x[i]))", "complexIm": "atan2(xIm[i], xRe[i])",
	},
})

var sinOp = tensor.MakeUnaryOp(tensor.UnaryFragments{
	Name: "sin",
	Real: math.Sin,
	Complex: func(re, im float64) (float64, float64) {
		return math.Sin(re) * math.Cosh(im), math.Cos(re) * math.Sinh(im)
	},
	OutputDType: tensor.UToFloat,
	Source:      unaryKernelTemplate,
	Symbols: map[string]string{
		"real":      "sin(x[i])",
		"complexRe": "sin(xRe[i]) * cosh(xIm[i])", "complexIm": "cos(xRe[i]) * sinh(xIm[i])",
	},
})

var cosOp = tensor.MakeUnaryOp(tensor.UnaryFragments{
	Name: "cos",
	Real: math.Cos,
	Complex: func(re, im float64) (float64, float64) {
		return math.Cos(re) * math.Cosh(im), -math.Sin(re) * math.Sinh(im)
	},
	OutputDType: tensor.UToFloat,
	Source:      unaryKernelTemplate,
	Symbols: map[string]string{
		"real":      "cos(x[i])",
		"complexRe": "cos(xRe[i]) * cosh(xIm[i])", "complexIm": "-sin(xRe[i]) * sinh(xIm[i])",
	},
})

var powOp = tensor.MakeUnaryParamOp(tensor.UnaryParamFragments{
	Name: "pow",
	Real: math.Pow,
	Complex: func(re, im, p float64) (float64, float64) {
		// z^p = exp(p * log z)
		lre := math.Log(tensor.CAbs(re, im))
		lim := math.Atan2(im, re)
		e := math.Exp(p * lre)
		return e * math.Cos(p*lim), e * math.Sin(p*lim)
	},
	OutputDType: tensor.UToFloat,
	Source:      unaryKernelTemplate,
	Symbols: map[string]string{
		"real":      "pow(x[i], p)",
		"complexRe": "cpow(x[i], p).re", "complexIm": "cpow(x[i], p).im",
	},
})

// Abs computes |x|. Complex magnitudes use the scaled-hypotenuse
// formulation to avoid overflow, and the result is always purely real.
func Abs(x any) (any, error) { return absOp.Do(x) }

// AbsInPlace computes |x| writing into x's storage.
func AbsInPlace(x any) (any, error) { return absOp.DoInPlace(x) }

// Conj computes the complex conjugate; real operands pass through.
func Conj(x any) (any, error) { return conjOp.Do(x) }

// ConjInPlace conjugates x in its own storage.
func ConjInPlace(x any) (any, error) { return conjOp.DoInPlace(x) }

// Sqrt computes the square root. The real path follows IEEE semantics
// (sqrt of a negative real is NaN); complex operands use the principal
// branch.
func Sqrt(x any) (any, error) { return sqrtOp.Do(x) }

// Exp computes e^x.
func Exp(x any) (any, error) { return expOp.Do(x) }

// Log computes the natural logarithm (principal branch for complex
// operands).
func Log(x any) (any, error) { return logOp.Do(x) }

// Sin computes the sine.
func Sin(x any) (any, error) { return sinOp.Do(x) }

// Cos computes the cosine.
func Cos(x any) (any, error) { return cosOp.Do(x) }

// Pow raises every element to the scalar power p.
func Pow(x any, p float64) (any, error) { return powOp.Do(x, p) }

// PowInPlace raises every element to the scalar power p in x's storage.
func PowInPlace(x any, p float64) (any, error) { return powOp.DoInPlace(x, p) }
