package ops

import "github.com/numen-go/numen/tensor"

// Tile repeats x along each dimension per reps, NumPy-style: the shorter
// of (shape, reps) is left-padded with 1s, and output dimension d has size
// shape[d] * reps[d]. Complex storage is preserved.
func Tile(x any, reps []int) (*tensor.Tensor, error) {
	t, err := tensor.FromNested(x)
	if err != nil {
		return nil, err
	}
	for _, r := range reps {
		if r <= 0 {
			return nil, &tensor.InvalidInputKindError{Value: reps, Context: "Tile reps"}
		}
	}

	rank := max(len(reps), len(t.Shape()))
	srcShape := padLeft(t.Shape(), rank)
	repCounts := padLeft(tensor.Shape(reps), rank)

	outShape := make(tensor.Shape, rank)
	for d := range outShape {
		outShape[d] = srcShape[d] * repCounts[d]
	}

	out, err := tensor.New(outShape, t.DType())
	if err != nil {
		return nil, err
	}
	if t.IsComplex() {
		out.EnsureComplex()
	}

	drop := rank - len(t.Shape())
	outStrides := outShape.ComputeStrides()
	coord := make([]int, rank)
	src := make([]int, rank)
	for i := 0; i < outShape.NumElements(); i++ {
		rem := i
		for d, st := range outStrides {
			coord[d] = rem / st
			rem %= st
			src[d] = coord[d] % srcShape[d]
		}
		out.SetElComplex(t.GetElComplex(src[drop:]...), coord...)
	}
	return out, nil
}

func padLeft(s tensor.Shape, rank int) tensor.Shape {
	if len(s) >= rank {
		return s
	}
	padded := make(tensor.Shape, rank)
	for i := range padded {
		padded[i] = 1
	}
	copy(padded[rank-len(s):], s)
	return padded
}
