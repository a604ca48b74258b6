package ops

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numen-go/numen/tensor"
)

func asTensor(t *testing.T, res any, err error) *tensor.Tensor {
	t.Helper()
	require.NoError(t, err)
	tt, ok := res.(*tensor.Tensor)
	require.True(t, ok, "expected *tensor.Tensor, got %T", res)
	return tt
}

func TestAdd(t *testing.T) {
	res, err := Add([][]float64{{1, 2}, {3, 4}}, 10)
	out := asTensor(t, res, err)
	assert.Equal(t, []float64{11, 12, 13, 14}, out.Float64s())
}

func TestAdd_Broadcast(t *testing.T) {
	col, err := tensor.FromSlice([]float64{0, 10, 20}, tensor.Shape{3, 1})
	require.NoError(t, err)

	res, err := Add(col, []float64{1, 2, 3})
	out := asTensor(t, res, err)
	assert.Equal(t, tensor.Shape{3, 3}, out.Shape())
	assert.Equal(t, []float64{1, 2, 3, 11, 12, 13, 21, 22, 23}, out.Float64s())
}

func TestAdd_DTypePromotion(t *testing.T) {
	res, err := Add([]int{1, 2}, []bool{true, false})
	out := asTensor(t, res, err)
	assert.Equal(t, tensor.Int32, out.DType())
	assert.Equal(t, []float64{2, 2}, out.Float64s())

	res, err = Add([]int{1, 2}, []float64{0.5, 0.5})
	out = asTensor(t, res, err)
	assert.Equal(t, tensor.Float64, out.DType())
}

func TestSub_RealMatrixMinusComplexScalar(t *testing.T) {
	m, err := tensor.FromSlice([]float64{1, 2, 3, 4}, tensor.Shape{2, 2})
	require.NoError(t, err)

	res, err := Sub(m, 1+2i)
	out := asTensor(t, res, err)
	require.True(t, out.IsComplex())
	assert.Equal(t, []float64{0, 1, 2, 3}, out.Float64s())
	assert.Equal(t, []float64{-2, -2, -2, -2}, out.ImagFloat64s())
	// The operand stays untouched.
	assert.False(t, m.IsComplex())
	assert.Equal(t, []float64{1, 2, 3, 4}, m.Float64s())
}

func TestMul_Complex(t *testing.T) {
	res, err := Mul([]complex128{1 + 2i, 2i}, []complex128{3 + 4i, 2i})
	out := asTensor(t, res, err)
	assert.Equal(t, []float64{-5, -4}, out.Float64s())
	assert.Equal(t, []float64{10, 0}, out.ImagFloat64s())
}

func TestDiv_AlwaysFloat(t *testing.T) {
	res, err := Div([]int{7, 8}, []int{2, 2})
	out := asTensor(t, res, err)
	assert.Equal(t, tensor.Float64, out.DType())
	assert.Equal(t, []float64{3.5, 4}, out.Float64s())
}

func TestDiv_ComplexByZero(t *testing.T) {
	res, err := Div(1+1i, 0+0i)
	require.NoError(t, err)

	c := res.(complex128)
	assert.True(t, math.IsInf(real(c), 1))
}

func TestDiv_ComplexNoOverflow(t *testing.T) {
	res, err := Div(1e300+1e300i, 1e300+1e300i)
	require.NoError(t, err)

	c := res.(complex128)
	assert.InDelta(t, 1, real(c), 1e-12)
	assert.InDelta(t, 0, imag(c), 1e-12)
}

func TestNeg(t *testing.T) {
	res, err := Neg([]float64{1, -2, 3})
	out := asTensor(t, res, err)
	assert.Equal(t, []float64{-1, 2, -3}, out.Float64s())

	// Logic promotes to Int32 so the negation is representable.
	res, err = Neg([]bool{true, false})
	out = asTensor(t, res, err)
	assert.Equal(t, tensor.Int32, out.DType())
	assert.Equal(t, []float64{-1, 0}, out.Float64s())
}

func TestReciprocal(t *testing.T) {
	res, err := Reciprocal([]int{2, 4})
	out := asTensor(t, res, err)
	assert.Equal(t, tensor.Float64, out.DType())
	assert.Equal(t, []float64{0.5, 0.25}, out.Float64s())

	res, err = Reciprocal(3 + 4i)
	require.NoError(t, err)
	c := res.(complex128)
	assert.InDelta(t, 0.12, real(c), 1e-12)
	assert.InDelta(t, -0.16, imag(c), 1e-12)
}

func TestScalarInScalarOut(t *testing.T) {
	res, err := Add(2, 3)
	require.NoError(t, err)
	assert.Equal(t, 5.0, res)

	res, err = Mul(1+1i, 1-1i)
	require.NoError(t, err)
	assert.Equal(t, complex(2, 0), res)

	// Int32-promoted scalar results quantize toward zero.
	res, err = Mul(2, 2.0)
	require.NoError(t, err)
	assert.Equal(t, 4.0, res)
}

func TestAddInPlace(t *testing.T) {
	m, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3})
	require.NoError(t, err)

	res, err := AddInPlace(m, 1)
	require.NoError(t, err)
	assert.Same(t, m, res.(*tensor.Tensor))
	assert.Equal(t, []float64{2, 3, 4}, m.Float64s())
}

func TestAddInPlace_Rejections(t *testing.T) {
	var perr *tensor.InPlaceNotPossibleError

	_, err := AddInPlace(1, 2)
	require.ErrorAs(t, err, &perr)

	it, _ := tensor.FromSlice([]int32{1, 2}, tensor.Shape{2})
	_, err = AddInPlace(it, 0.5)
	require.ErrorAs(t, err, &perr)

	ft, _ := tensor.FromSlice([]float64{1, 2}, tensor.Shape{2})
	_, err = AddInPlace(ft, 1i)
	require.ErrorAs(t, err, &perr)
}

func TestDivInPlace_RequiresFloatReceiver(t *testing.T) {
	it, _ := tensor.FromSlice([]int32{4, 6}, tensor.Shape{2})

	var perr *tensor.InPlaceNotPossibleError
	_, err := DivInPlace(it, 2)
	require.ErrorAs(t, err, &perr)

	ft, _ := tensor.FromSlice([]float64{4, 6}, tensor.Shape{2})
	_, err = DivInPlace(ft, 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, ft.Float64s())
}

func TestAdd_KernelSourceAudit(t *testing.T) {
	src, err := addOp.KernelSource(tensor.Float64, false, tensor.Float64, false, false)
	require.NoError(t, err)
	assert.Contains(t, src, "x[i] + y[i]")

	src, err = addOp.KernelSource(tensor.Float64, true, tensor.Float64, true, false)
	require.NoError(t, err)
	assert.Contains(t, src, "xRe[i] + yRe[i]")
	assert.Contains(t, src, "xIm[i] + yIm[i]")
}
