// Package ops provides the element-wise operation providers built on the
// tensor engine's fragment tables: arithmetic, math, logic/comparison and
// data operations.
//
// Every function accepts any operand kind the engine unifies (bare numbers,
// complex numbers, nested arrays, flat slices, tensors) and follows the
// scalar-in/scalar-out contract: all-scalar input yields a bare float64 or
// complex128 instead of a tensor.
package ops

import "github.com/numen-go/numen/tensor"

var addOp = tensor.MakeBinaryOp(tensor.BinaryFragments{
	Name:   "add",
	RR:     func(a, b float64) float64 { return a + b },
	RC:     func(a, bre, bim float64) (float64, float64) { return a + bre, bim },
	CR:     func(are, aim, b float64) (float64, float64) { return are + b, aim },
	CC:     func(are, aim, bre, bim float64) (float64, float64) { return are + bre, aim + bim },
	Source: binaryKernelTemplate,
	Symbols: map[string]string{
		"rr":   "x[i] + y[i]",
		"rcRe": "x[i] + yRe[i]", "rcIm": "yIm[i]",
		"crRe": "xRe[i] + y[i]", "crIm": "xIm[i]",
		"ccRe": "xRe[i] + yRe[i]", "ccIm": "xIm[i] + yIm[i]",
	},
})

var subOp = tensor.MakeBinaryOp(tensor.BinaryFragments{
	Name:   "sub",
	RR:     func(a, b float64) float64 { return a - b },
	RC:     func(a, bre, bim float64) (float64, float64) { return a - bre, -bim },
	CR:     func(are, aim, b float64) (float64, float64) { return are - b, aim },
	CC:     func(are, aim, bre, bim float64) (float64, float64) { return are - bre, aim - bim },
	Source: binaryKernelTemplate,
	Symbols: map[string]string{
		"rr":   "x[i] - y[i]",
		"rcRe": "x[i] - yRe[i]", "rcIm": "-yIm[i]",
		"crRe": "xRe[i] - y[i]", "crIm": "xIm[i]",
		"ccRe": "xRe[i] - yRe[i]", "ccIm": "xIm[i] - yIm[i]",
	},
})

var mulOp = tensor.MakeBinaryOp(tensor.BinaryFragments{
	Name:   "mul",
	RR:     func(a, b float64) float64 { return a * b },
	RC:     func(a, bre, bim float64) (float64, float64) { return a * bre, a * bim },
	CR:     func(are, aim, b float64) (float64, float64) { return are * b, aim * b },
	CC:     tensor.CMul,
	Source: binaryKernelTemplate,
	Symbols: map[string]string{
		"rr":   "x[i] * y[i]",
		"rcRe": "x[i] * yRe[i]", "rcIm": "x[i] * yIm[i]",
		"crRe": "xRe[i] * y[i]", "crIm": "xIm[i] * y[i]",
		"ccRe": "xRe[i]*yRe[i] - xIm[i]*yIm[i]", "ccIm": "xRe[i]*yIm[i] + xIm[i]*yRe[i]",
	},
})

var divOp = tensor.MakeBinaryOp(tensor.BinaryFragments{
	Name:        "div",
	RR:          func(a, b float64) float64 { return a / b },
	RC:          func(a, bre, bim float64) (float64, float64) { return tensor.CDiv(a, 0, bre, bim) },
	CR:          func(are, aim, b float64) (float64, float64) { return are / b, aim / b },
	CC:          tensor.CDiv,
	OutputDType: tensor.BToFloat,
	Source:      binaryKernelTemplate,
	Symbols: map[string]string{
		"rr":   "x[i] / y[i]",
		"rcRe": "cdiv(x[i], 0, yRe[i], yIm[i]).re", "rcIm": "cdiv(x[i], 0, yRe[i], yIm[i]).im",
		"crRe": "xRe[i] / y[i]", "crIm": "xIm[i] / y[i]",
		"ccRe": "cdiv(xRe[i], xIm[i], yRe[i], yIm[i]).re", "ccIm": "cdiv(xRe[i], xIm[i], yRe[i], yIm[i]).im",
	},
})

var negOp = tensor.MakeUnaryOp(tensor.UnaryFragments{
	Name:        "neg",
	Real:        func(x float64) float64 { return -x },
	Complex:     func(re, im float64) (float64, float64) { return -re, -im },
	OutputDType: tensor.UNoLogic,
	Source:      unaryKernelTemplate,
	Symbols: map[string]string{
		"real": "-x[i]", "complexRe": "-xRe[i]", "complexIm": "-xIm[i]",
	},
})

var reciprocalOp = tensor.MakeUnaryOp(tensor.UnaryFragments{
	Name:        "reciprocal",
	Real:        func(x float64) float64 { return 1 / x },
	Complex:     tensor.CReciprocal,
	OutputDType: tensor.UToFloat,
	Source:      unaryKernelTemplate,
	Symbols: map[string]string{
		"real":      "1 / x[i]",
		"complexRe": "crecip(xRe[i], xIm[i]).re", "complexIm": "crecip(xRe[i], xIm[i]).im",
	},
})

// Add computes x + y with broadcasting.
func Add(x, y any) (any, error) { return addOp.Do(x, y) }

// AddInPlace computes x + y writing into x's storage.
func AddInPlace(x, y any) (any, error) { return addOp.DoInPlace(x, y) }

// Sub computes x - y with broadcasting.
func Sub(x, y any) (any, error) { return subOp.Do(x, y) }

// SubInPlace computes x - y writing into x's storage.
func SubInPlace(x, y any) (any, error) { return subOp.DoInPlace(x, y) }

// Mul computes the element-wise product x * y with broadcasting.
func Mul(x, y any) (any, error) { return mulOp.Do(x, y) }

// MulInPlace computes x * y writing into x's storage.
func MulInPlace(x, y any) (any, error) { return mulOp.DoInPlace(x, y) }

// Div computes x / y with broadcasting. The result is floating point;
// complex division uses the overflow-avoiding branch-by-magnitude form and
// division by zero follows IEEE semantics rather than failing.
func Div(x, y any) (any, error) { return divOp.Do(x, y) }

// DivInPlace computes x / y writing into x's storage.
func DivInPlace(x, y any) (any, error) { return divOp.DoInPlace(x, y) }

// Neg computes -x. Logic operands promote to Int32.
func Neg(x any) (any, error) { return negOp.Do(x) }

// NegInPlace computes -x writing into x's storage.
func NegInPlace(x any) (any, error) { return negOp.DoInPlace(x) }

// Reciprocal computes 1 / x, using the overflow-avoiding formulation for
// complex operands.
func Reciprocal(x any) (any, error) { return reciprocalOp.Do(x) }

// ReciprocalInPlace computes 1 / x writing into x's storage.
func ReciprocalInPlace(x any) (any, error) { return reciprocalOp.DoInPlace(x) }
