package ops

import "github.com/numen-go/numen/tensor"

func b2f(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

var eqOp = tensor.MakeBinaryOp(tensor.BinaryFragments{
	Name: "eq",
	RR:   func(a, b float64) float64 { return b2f(a == b) },
	RC:   func(a, bre, bim float64) (float64, float64) { return b2f(a == bre && bim == 0), 0 },
	CR:   func(are, aim, b float64) (float64, float64) { return b2f(are == b && aim == 0), 0 },
	CC: func(are, aim, bre, bim float64) (float64, float64) {
		return b2f(are == bre && aim == bim), 0
	},
	RealOutput:  true,
	OutputDType: tensor.BToLogic,
	Source:      binaryKernelTemplate,
	Symbols: map[string]string{
		"rr":   "x[i] == y[i]",
		"rcRe": "x[i] == yRe[i] && yIm[i] == 0", "rcIm": "0",
		"crRe": "xRe[i] == y[i] && xIm[i] == 0", "crIm": "0",
		"ccRe": "xRe[i] == yRe[i] && xIm[i] == yIm[i]", "ccIm": "0",
	},
})

var neqOp = tensor.MakeBinaryOp(tensor.BinaryFragments{
	Name: "neq",
	RR:   func(a, b float64) float64 { return b2f(a != b) },
	RC:   func(a, bre, bim float64) (float64, float64) { return b2f(a != bre || bim != 0), 0 },
	CR:   func(are, aim, b float64) (float64, float64) { return b2f(are != b || aim != 0), 0 },
	CC: func(are, aim, bre, bim float64) (float64, float64) {
		return b2f(are != bre || aim != bim), 0
	},
	RealOutput:  true,
	OutputDType: tensor.BToLogic,
	Source:      binaryKernelTemplate,
	Symbols: map[string]string{
		"rr":   "x[i] != y[i]",
		"rcRe": "x[i] != yRe[i] || yIm[i] != 0", "rcIm": "0",
		"crRe": "xRe[i] != y[i] || xIm[i] != 0", "crIm": "0",
		"ccRe": "xRe[i] != yRe[i] || xIm[i] != yIm[i]", "ccIm": "0",
	},
})

// Ordering comparisons define no complex paths: invoking them on complex
// operands fails with *UnsupportedComplexPathError.

var gtOp = realComparison("gt", func(a, b float64) bool { return a > b }, "x[i] > y[i]")
var geOp = realComparison("ge", func(a, b float64) bool { return a >= b }, "x[i] >= y[i]")
var ltOp = realComparison("lt", func(a, b float64) bool { return a < b }, "x[i] < y[i]")
var leOp = realComparison("le", func(a, b float64) bool { return a <= b }, "x[i] <= y[i]")

func realComparison(name string, cmp func(a, b float64) bool, expr string) *tensor.BinaryOp {
	return tensor.MakeBinaryOp(tensor.BinaryFragments{
		Name:        name,
		RR:          func(a, b float64) float64 { return b2f(cmp(a, b)) },
		RealOutput:  true,
		OutputDType: tensor.BToLogic,
		Source:      binaryKernelTemplate,
		Symbols:     map[string]string{"rr": expr},
	})
}

var andOp = realComparison("and", func(a, b float64) bool { return a != 0 && b != 0 }, "x[i] != 0 && y[i] != 0")
var orOp = realComparison("or", func(a, b float64) bool { return a != 0 || b != 0 }, "x[i] != 0 || y[i] != 0")
var xorOp = realComparison("xor", func(a, b float64) bool { return (a != 0) != (b != 0) }, "(x[i] != 0) != (y[i] != 0)")

var notOp = tensor.MakeUnaryOp(tensor.UnaryFragments{
	Name:        "not",
	Real:        func(x float64) float64 { return b2f(x == 0) },
	OutputDType: func(tensor.DType, bool) (tensor.DType, bool) { return tensor.Logic, true },
	Source:      unaryKernelTemplate,
	Symbols:     map[string]string{"real": "x[i] == 0"},
})

// Eq compares for equality; a real and a complex operand are equal when the
// imaginary part is zero. The result dtype is Logic.
func Eq(x, y any) (any, error) { return eqOp.Do(x, y) }

// Neq compares for inequality. The result dtype is Logic.
func Neq(x, y any) (any, error) { return neqOp.Do(x, y) }

// Gt computes x > y element-wise over real operands.
func Gt(x, y any) (any, error) { return gtOp.Do(x, y) }

// Ge computes x >= y element-wise over real operands.
func Ge(x, y any) (any, error) { return geOp.Do(x, y) }

// Lt computes x < y element-wise over real operands.
func Lt(x, y any) (any, error) { return ltOp.Do(x, y) }

// Le computes x <= y element-wise over real operands.
func Le(x, y any) (any, error) { return leOp.Do(x, y) }

// And computes element-wise logical conjunction of truthiness (nonzero).
func And(x, y any) (any, error) { return andOp.Do(x, y) }

// Or computes element-wise logical disjunction of truthiness.
func Or(x, y any) (any, error) { return orOp.Do(x, y) }

// Xor computes element-wise logical exclusive or of truthiness.
func Xor(x, y any) (any, error) { return xorOp.Do(x, y) }

// Not computes element-wise logical negation; complex operands are not
// supported.
func Not(x any) (any, error) { return notOp.Do(x) }
