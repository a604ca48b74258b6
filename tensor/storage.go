package tensor

import (
	"math"
	"unsafe"

	"golang.org/x/exp/constraints"
)

// storage is the typed backing buffer for one component (real or imaginary)
// of a tensor's elements. Elements are kept in a flat byte buffer and
// accessed through unsafe typed views; loads always yield float64 and stores
// quantize per the declared dtype.
type storage struct {
	data  []byte
	dtype DType
	n     int
}

func newStorage(dtype DType, n int) *storage {
	return &storage{
		data:  make([]byte, n*dtype.Size()),
		dtype: dtype,
		n:     n,
	}
}

func (s *storage) Len() int {
	return s.n
}

func view[T any](data []byte, n int) []T {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*T)(unsafe.Pointer(&data[0])), n)
}

// AsFloat64 returns the buffer as a []float64 view. Valid only for Float64
// storage; the other views follow the same rule for their dtype.
func (s *storage) AsFloat64() []float64 {
	return view[float64](s.data, s.n)
}

func (s *storage) AsFloat32() []float32 {
	return view[float32](s.data, s.n)
}

func (s *storage) AsInt32() []int32 {
	return view[int32](s.data, s.n)
}

func (s *storage) AsLogic() []uint8 {
	return view[uint8](s.data, s.n)
}

// at loads element i as float64.
func (s *storage) at(i int) float64 {
	switch s.dtype {
	case Float64:
		return s.AsFloat64()[i]
	case Float32:
		return float64(s.AsFloat32()[i])
	case Int32:
		return float64(s.AsInt32()[i])
	case Logic:
		return float64(s.AsLogic()[i])
	default:
		panic("unknown data type")
	}
}

// setAt stores v into element i, quantizing to the storage dtype.
func (s *storage) setAt(i int, v float64) {
	switch s.dtype {
	case Float64:
		s.AsFloat64()[i] = v
	case Float32:
		s.AsFloat32()[i] = float32(v)
	case Int32:
		s.AsInt32()[i] = quantizeInt32(v)
	case Logic:
		s.AsLogic()[i] = quantizeLogic(v)
	default:
		panic("unknown data type")
	}
}

// quantizeInt32 mimics typed-array coercion: truncate toward zero with
// modular wraparound; non-finite values store as 0.
func quantizeInt32(v float64) int32 {
	t := math.Trunc(v)
	if math.IsNaN(t) || t >= 1<<63 || t < -(1<<63) {
		return 0
	}
	return int32(int64(t))
}

// quantizeLogic stores 1 for any nonzero non-NaN value.
func quantizeLogic(v float64) uint8 {
	if v != 0 && !math.IsNaN(v) {
		return 1
	}
	return 0
}

// quantizeScalar applies the dtype's store coercion to a bare value.
func quantizeScalar(dt DType, v float64) float64 {
	switch dt {
	case Float64:
		return v
	case Float32:
		return float64(float32(v))
	case Int32:
		return float64(quantizeInt32(v))
	case Logic:
		return float64(quantizeLogic(v))
	default:
		panic("unknown data type")
	}
}

func (s *storage) fill(v float64) {
	for i := 0; i < s.n; i++ {
		s.setAt(i, v)
	}
}

func (s *storage) clone() *storage {
	c := &storage{
		data:  make([]byte, len(s.data)),
		dtype: s.dtype,
		n:     s.n,
	}
	copy(c.data, s.data)
	return c
}

// float64s returns the buffer contents as []float64. For Float64 storage
// this is a zero-copy view; for every other dtype it is a converted copy.
func (s *storage) float64s() []float64 {
	if s.dtype == Float64 {
		return s.AsFloat64()
	}
	out := make([]float64, s.n)
	for i := range out {
		out[i] = s.at(i)
	}
	return out
}

// storeSlice copies a Go numeric slice into the buffer with quantization.
func storeSlice[T constraints.Integer | constraints.Float](s *storage, src []T) {
	for i, v := range src {
		s.setAt(i, float64(v))
	}
}
