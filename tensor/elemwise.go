package tensor

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/numen-go/numen/internal/templ"
)

// ComplexComb identifies which real/complex execution path an invocation
// selects, from each operand's complex-storage flag.
type ComplexComb int

const (
	PathRR ComplexComb = iota // real op real
	PathRC                    // real op complex
	PathCR                    // complex op real
	PathCC                    // complex op complex
)

func (c ComplexComb) String() string {
	switch c {
	case PathRR:
		return "real/real"
	case PathRC:
		return "real/complex"
	case PathCR:
		return "complex/real"
	case PathCC:
		return "complex/complex"
	default:
		return "unknown"
	}
}

func combOf(cx, cy bool) ComplexComb {
	switch {
	case !cx && !cy:
		return PathRR
	case !cx:
		return PathRC
	case !cy:
		return PathCR
	default:
		return PathCC
	}
}

// Engine owns the kernel and template generator caches. Both caches are
// append-only and mutex-guarded; racing first compiles of the same
// configuration are idempotent, so either winner may be kept.
//
// Execution itself is single-threaded and synchronous: kernels are plain
// in-memory loops with no suspension, I/O or internal locking over tensor
// buffers.
type Engine struct {
	templates *templ.Cache

	mu      sync.Mutex
	kernels map[kernelKey]*kernel
}

// NewEngine creates an engine with empty caches.
func NewEngine() *Engine {
	return &Engine{
		templates: templ.NewCache(),
		kernels:   make(map[kernelKey]*kernel),
	}
}

var defaultEngine = NewEngine()

// DefaultEngine returns the process-wide engine used by the package-level
// operation factories.
func DefaultEngine() *Engine {
	return defaultEngine
}

// opSerial distinguishes operations in the engine-wide kernel cache.
// Fragment names are labels for errors and audit sources, not identities:
// two ops may share a Name.
var opSerial atomic.Uint64

// kernelKey identifies one synthesized kernel configuration.
type kernelKey struct {
	op      uint64
	dx, dy  DType
	comb    ComplexComb
	inPlace bool
}

// kernel is the concrete executable loop for one configuration, plus the
// rendered audit source describing it.
type kernel struct {
	source string
	unary  func(x *operand, out *Tensor, param float64)
	binary func(x, y *operand, out *Tensor)
}

// UnaryFragments supplies the per-path scalar kernels of a unary operation.
// A nil path makes invocations needing it fail with
// *UnsupportedComplexPathError.
type UnaryFragments struct {
	Name string

	// Real computes the real-path result.
	Real func(x float64) float64
	// Complex computes the complex-path result. Operations mapping complex
	// inputs to purely real results (abs, comparisons) return a zero
	// imaginary part and set RealOutput.
	Complex func(re, im float64) (re2, im2 float64)
	// RealOutput marks the complex path as producing purely real results.
	RealOutput bool

	// OutputDType resolves the result dtype; nil defaults to USame.
	OutputDType UnaryDTypeFunc

	// Source is the audit template rendered per compiled kernel; Symbols
	// feeds its substitution map.
	Source  string
	Symbols map[string]string
}

// BinaryFragments supplies the per-path scalar kernels of a binary
// operation. Cross paths (RC, CR) may be omitted when the operation is
// undefined there.
type BinaryFragments struct {
	Name string

	RR func(a, b float64) float64
	RC func(a, bre, bim float64) (re, im float64)
	CR func(are, aim, b float64) (re, im float64)
	CC func(are, aim, bre, bim float64) (re, im float64)
	// RealOutput marks the complex paths as producing purely real results.
	RealOutput bool

	// OutputDType resolves the result dtype; nil defaults to BWider.
	OutputDType BinaryDTypeFunc

	Source  string
	Symbols map[string]string
}

// UnaryParamFragments is the one-parameter unary variant: a scalar
// parameter is threaded into every path.
type UnaryParamFragments struct {
	Name string

	Real       func(x, p float64) float64
	Complex    func(re, im, p float64) (re2, im2 float64)
	RealOutput bool

	OutputDType UnaryDTypeFunc

	Source  string
	Symbols map[string]string
}

// UnaryOp is a compiled unary element-wise operation.
type UnaryOp struct {
	eng  *Engine
	id   uint64
	frag UnaryParamFragments
}

// BinaryOp is a compiled binary element-wise operation.
type BinaryOp struct {
	eng  *Engine
	id   uint64
	frag BinaryFragments
}

// UnaryParamOp is a compiled one-parameter unary element-wise operation.
type UnaryParamOp struct {
	eng  *Engine
	id   uint64
	frag UnaryParamFragments
}

// MakeUnaryOp builds a unary operation from its fragment set.
func (e *Engine) MakeUnaryOp(frag UnaryFragments) *UnaryOp {
	pf := UnaryParamFragments{
		Name:        frag.Name,
		RealOutput:  frag.RealOutput,
		OutputDType: frag.OutputDType,
		Source:      frag.Source,
		Symbols:     frag.Symbols,
	}
	if frag.Real != nil {
		f := frag.Real
		pf.Real = func(x, _ float64) float64 { return f(x) }
	}
	if frag.Complex != nil {
		f := frag.Complex
		pf.Complex = func(re, im, _ float64) (float64, float64) { return f(re, im) }
	}
	return &UnaryOp{eng: e, id: opSerial.Add(1), frag: pf}
}

// MakeBinaryOp builds a binary operation from its fragment set.
func (e *Engine) MakeBinaryOp(frag BinaryFragments) *BinaryOp {
	return &BinaryOp{eng: e, id: opSerial.Add(1), frag: frag}
}

// MakeUnaryParamOp builds a one-parameter unary operation.
func (e *Engine) MakeUnaryParamOp(frag UnaryParamFragments) *UnaryParamOp {
	return &UnaryParamOp{eng: e, id: opSerial.Add(1), frag: frag}
}

// MakeUnaryOp builds a unary operation on the default engine.
func MakeUnaryOp(frag UnaryFragments) *UnaryOp {
	return defaultEngine.MakeUnaryOp(frag)
}

// MakeBinaryOp builds a binary operation on the default engine.
func MakeBinaryOp(frag BinaryFragments) *BinaryOp {
	return defaultEngine.MakeBinaryOp(frag)
}

// MakeUnaryParamOp builds a one-parameter unary operation on the default
// engine.
func MakeUnaryParamOp(frag UnaryParamFragments) *UnaryParamOp {
	return defaultEngine.MakeUnaryParamOp(frag)
}

// Do applies the operation, allocating the result. Scalar input yields a
// bare scalar (float64 or complex128) rather than a tensor.
func (op *UnaryOp) Do(x any) (any, error) {
	return applyUnary(op.eng, op.id, &op.frag, x, 0, false)
}

// DoInPlace applies the operation writing into x's storage, which must be a
// tensor able to absorb the result shape, dtype and complexity.
func (op *UnaryOp) DoInPlace(x any) (any, error) {
	return applyUnary(op.eng, op.id, &op.frag, x, 0, true)
}

// KernelSource returns the audit source of the kernel for the given
// configuration, compiling it on first use.
func (op *UnaryOp) KernelSource(d DType, cpx, inPlace bool) (string, error) {
	k, err := op.eng.unaryKernel(op.id, &op.frag, d, cpx, inPlace)
	if err != nil {
		return "", err
	}
	return k.source, nil
}

// Do applies the operation with the given scalar parameter.
func (op *UnaryParamOp) Do(x any, param float64) (any, error) {
	return applyUnary(op.eng, op.id, &op.frag, x, param, false)
}

// DoInPlace applies the operation in place with the given scalar parameter.
func (op *UnaryParamOp) DoInPlace(x any, param float64) (any, error) {
	return applyUnary(op.eng, op.id, &op.frag, x, param, true)
}

// Do applies the operation with broadcasting, allocating the result. When
// both operands are bare scalars the result is a bare scalar.
func (op *BinaryOp) Do(x, y any) (any, error) {
	return applyBinary(op.eng, op.id, &op.frag, x, y, false)
}

// DoInPlace applies the operation writing into x's storage, which must be a
// tensor able to absorb the result shape, dtype and complexity.
func (op *BinaryOp) DoInPlace(x, y any) (any, error) {
	return applyBinary(op.eng, op.id, &op.frag, x, y, true)
}

// KernelSource returns the audit source of the kernel for the given
// configuration, compiling it on first use.
func (op *BinaryOp) KernelSource(dx DType, cx bool, dy DType, cy bool, inPlace bool) (string, error) {
	k, err := op.eng.binaryKernel(op.id, &op.frag, dx, dy, combOf(cx, cy), inPlace)
	if err != nil {
		return "", err
	}
	return k.source, nil
}

func applyUnary(e *Engine, id uint64, frag *UnaryParamFragments, x any, param float64, inPlace bool) (any, error) {
	ox, err := unify(x)
	if err != nil {
		return nil, errors.WithMessage(err, frag.Name)
	}

	calc := frag.OutputDType
	if calc == nil {
		calc = USame
	}
	outDType, ok := calc(ox.dtype, ox.isComplex)
	if !ok {
		return nil, &UnsupportedDTypeCombinationError{Op: frag.Name, X: ox.dtype, XCpx: ox.isComplex}
	}

	resultComplex := ox.isComplex && !frag.RealOutput

	k, err := e.unaryKernel(id, frag, ox.dtype, ox.isComplex, inPlace)
	if err != nil {
		return nil, err
	}

	if inPlace {
		t, err := inPlaceReceiver(frag.Name, ox, ox.shape, outDType, resultComplex)
		if err != nil {
			return nil, err
		}
		k.unary(ox, t, param)
		return t, nil
	}

	if ox.isScalar {
		var re, im float64
		if ox.isComplex {
			re, im = frag.Complex(ox.sre, ox.sim, param)
		} else {
			re = frag.Real(ox.sre, param)
		}
		return scalarResult(outDType, re, im, resultComplex), nil
	}

	out, err := New(ox.shape, outDType)
	if err != nil {
		return nil, err
	}
	if resultComplex {
		out.EnsureComplex()
	}
	k.unary(ox, out, param)
	return out, nil
}

func applyBinary(e *Engine, id uint64, frag *BinaryFragments, x, y any, inPlace bool) (any, error) {
	ox, err := unify(x)
	if err != nil {
		return nil, errors.WithMessage(err, frag.Name)
	}
	oy, err := unify(y)
	if err != nil {
		return nil, errors.WithMessage(err, frag.Name)
	}

	outShape, err := BroadcastShapes(ox.shape, oy.shape)
	if err != nil {
		return nil, errors.WithMessage(err, frag.Name)
	}

	calc := frag.OutputDType
	if calc == nil {
		calc = BWider
	}
	outDType, ok := calc(ox.dtype, ox.isComplex, oy.dtype, oy.isComplex)
	if !ok {
		return nil, &UnsupportedDTypeCombinationError{
			Op: frag.Name, Binary: true,
			X: ox.dtype, XCpx: ox.isComplex,
			Y: oy.dtype, YCpx: oy.isComplex,
		}
	}

	comb := combOf(ox.isComplex, oy.isComplex)
	resultComplex := comb != PathRR && !frag.RealOutput

	k, err := e.binaryKernel(id, frag, ox.dtype, oy.dtype, comb, inPlace)
	if err != nil {
		return nil, err
	}

	if inPlace {
		t, err := inPlaceReceiver(frag.Name, ox, outShape, outDType, resultComplex)
		if err != nil {
			return nil, err
		}
		k.binary(ox, oy, t)
		return t, nil
	}

	if ox.isScalar && oy.isScalar {
		var re, im float64
		switch comb {
		case PathRR:
			re = frag.RR(ox.sre, oy.sre)
		case PathRC:
			re, im = frag.RC(ox.sre, oy.sre, oy.sim)
		case PathCR:
			re, im = frag.CR(ox.sre, ox.sim, oy.sre)
		case PathCC:
			re, im = frag.CC(ox.sre, ox.sim, oy.sre, oy.sim)
		}
		return scalarResult(outDType, re, im, resultComplex), nil
	}

	out, err := New(outShape, outDType)
	if err != nil {
		return nil, err
	}
	if resultComplex {
		out.EnsureComplex()
	}
	k.binary(ox, oy, out)
	return out, nil
}

// inPlaceReceiver validates the in-place preconditions: the left operand is
// a tensor, the resolved output shape equals its shape, the resolved output
// dtype does not narrow its declared dtype, and a complex result finds
// complex storage present.
func inPlaceReceiver(op string, ox *operand, outShape Shape, outDType DType, resultComplex bool) (*Tensor, error) {
	if ox.kind != kindTensor {
		return nil, &InPlaceNotPossibleError{Op: op, Reason: "left operand is not a tensor"}
	}
	t := ox.tensor
	if !outShape.Equal(t.shape) {
		return nil, &InPlaceNotPossibleError{
			Op:     op,
			Reason: "result shape " + outShape.String() + " differs from receiver shape " + t.shape.String(),
		}
	}
	if Wider(outDType, t.dtype) != t.dtype {
		return nil, &InPlaceNotPossibleError{
			Op:     op,
			Reason: "result dtype " + outDType.String() + " would narrow receiver dtype " + t.dtype.String(),
		}
	}
	if resultComplex && !t.IsComplex() {
		return nil, &InPlaceNotPossibleError{Op: op, Reason: "complex result into purely-real storage"}
	}
	return t, nil
}

func scalarResult(dt DType, re, im float64, cpx bool) any {
	re = quantizeScalar(dt, re)
	if cpx {
		return complex(re, quantizeScalar(dt, im))
	}
	return re
}

// broadcastIndexer maps flattened positions of out to flattened positions
// of src under broadcasting (size-1 source dimensions repeat).
func broadcastIndexer(src, out Shape) func(int) int {
	if src.NumElements() == 1 {
		return func(int) int { return 0 }
	}
	if src.Equal(out) {
		return func(i int) int { return i }
	}
	padded := src.leftPad(len(out))
	srcStrides := padded.ComputeStrides()
	outStrides := out.ComputeStrides()

	eff := make([]int, len(out))
	for d := range eff {
		if padded[d] == 1 && out[d] != 1 {
			eff[d] = 0
		} else {
			eff[d] = srcStrides[d]
		}
	}
	return func(i int) int {
		off := 0
		for d, st := range outStrides {
			off += (i / st) * eff[d]
			i %= st
		}
		return off
	}
}

func (e *Engine) unaryKernel(id uint64, frag *UnaryParamFragments, d DType, cpx, inPlace bool) (*kernel, error) {
	comb := PathRR
	if cpx {
		comb = PathCC
	}
	key := kernelKey{op: id, dx: d, comb: comb, inPlace: inPlace}

	e.mu.Lock()
	defer e.mu.Unlock()
	if k, ok := e.kernels[key]; ok {
		return k, nil
	}

	if cpx && frag.Complex == nil {
		return nil, &UnsupportedComplexPathError{Op: frag.Name, Path: "complex"}
	}
	if !cpx && frag.Real == nil {
		return nil, &UnsupportedComplexPathError{Op: frag.Name, Path: "real"}
	}

	src, err := e.renderSource(frag.Source, frag.Symbols, frag.Name, key, map[string]bool{
		"REAL":       !cpx,
		"COMPLEX":    cpx,
		"REALOUT":    frag.RealOutput,
		"COMPLEXOUT": cpx && !frag.RealOutput,
	})
	if err != nil {
		return nil, err
	}

	k := &kernel{source: src}
	if cpx {
		f := frag.Complex
		k.unary = func(x *operand, out *Tensor, p float64) {
			n := out.NumElements()
			for i := 0; i < n; i++ {
				re, im := f(x.at(i), x.imAt(i), p)
				out.re.setAt(i, re)
				if out.im != nil {
					out.im.setAt(i, im)
				}
			}
		}
	} else {
		f := frag.Real
		k.unary = func(x *operand, out *Tensor, p float64) {
			n := out.NumElements()
			for i := 0; i < n; i++ {
				out.re.setAt(i, f(x.at(i), p))
				if out.im != nil {
					out.im.setAt(i, 0)
				}
			}
		}
	}

	e.kernels[key] = k
	return k, nil
}

func (e *Engine) binaryKernel(id uint64, frag *BinaryFragments, dx, dy DType, comb ComplexComb, inPlace bool) (*kernel, error) {
	key := kernelKey{op: id, dx: dx, dy: dy, comb: comb, inPlace: inPlace}

	e.mu.Lock()
	defer e.mu.Unlock()
	if k, ok := e.kernels[key]; ok {
		return k, nil
	}

	missing := false
	switch comb {
	case PathRR:
		missing = frag.RR == nil
	case PathRC:
		missing = frag.RC == nil
	case PathCR:
		missing = frag.CR == nil
	case PathCC:
		missing = frag.CC == nil
	}
	if missing {
		return nil, &UnsupportedComplexPathError{Op: frag.Name, Path: comb.String()}
	}

	src, err := e.renderSource(frag.Source, frag.Symbols, frag.Name, key, map[string]bool{
		"RR":         comb == PathRR,
		"RC":         comb == PathRC,
		"CR":         comb == PathCR,
		"CC":         comb == PathCC,
		"REALOUT":    frag.RealOutput,
		"COMPLEXOUT": comb != PathRR && !frag.RealOutput,
	})
	if err != nil {
		return nil, err
	}

	k := &kernel{source: src}
	k.binary = makeBinaryLoop(frag, comb)
	e.kernels[key] = k
	return k, nil
}

func makeBinaryLoop(frag *BinaryFragments, comb ComplexComb) func(x, y *operand, out *Tensor) {
	switch comb {
	case PathRR:
		f := frag.RR
		return func(x, y *operand, out *Tensor) {
			xi := broadcastIndexer(x.shape, out.shape)
			yi := broadcastIndexer(y.shape, out.shape)
			n := out.NumElements()
			for i := 0; i < n; i++ {
				out.re.setAt(i, f(x.at(xi(i)), y.at(yi(i))))
				if out.im != nil {
					out.im.setAt(i, 0)
				}
			}
		}
	case PathRC:
		f := frag.RC
		return func(x, y *operand, out *Tensor) {
			xi := broadcastIndexer(x.shape, out.shape)
			yi := broadcastIndexer(y.shape, out.shape)
			n := out.NumElements()
			for i := 0; i < n; i++ {
				j := yi(i)
				re, im := f(x.at(xi(i)), y.at(j), y.imAt(j))
				out.re.setAt(i, re)
				if out.im != nil {
					out.im.setAt(i, im)
				}
			}
		}
	case PathCR:
		f := frag.CR
		return func(x, y *operand, out *Tensor) {
			xi := broadcastIndexer(x.shape, out.shape)
			yi := broadcastIndexer(y.shape, out.shape)
			n := out.NumElements()
			for i := 0; i < n; i++ {
				j := xi(i)
				re, im := f(x.at(j), x.imAt(j), y.at(yi(i)))
				out.re.setAt(i, re)
				if out.im != nil {
					out.im.setAt(i, im)
				}
			}
		}
	default:
		f := frag.CC
		return func(x, y *operand, out *Tensor) {
			xi := broadcastIndexer(x.shape, out.shape)
			yi := broadcastIndexer(y.shape, out.shape)
			n := out.NumElements()
			for i := 0; i < n; i++ {
				j, l := xi(i), yi(i)
				re, im := f(x.at(j), x.imAt(j), y.at(l), y.imAt(l))
				out.re.setAt(i, re)
				if out.im != nil {
					out.im.setAt(i, im)
				}
			}
		}
	}
}

// renderSource assembles the kernel's audit source from the fragment
// template. An empty template yields an empty source.
func (e *Engine) renderSource(source string, symbols map[string]string, name string, key kernelKey, config map[string]bool) (string, error) {
	if source == "" {
		return "", nil
	}
	gen, err := e.templates.Compile(source)
	if err != nil {
		return "", errors.WithMessage(err, name)
	}

	syms := map[string]string{
		"op":   name,
		"dx":   key.dx.String(),
		"dy":   key.dy.String(),
		"path": key.comb.String(),
	}
	for k, v := range symbols {
		syms[k] = v
	}
	config["INPLACE"] = key.inPlace

	src := gen.Render(syms, config)
	klog.V(2).Infof("compiled %s kernel: dtypes=(%s,%s) path=%s inPlace=%t", name, key.dx, key.dy, key.comb, key.inPlace)
	return src, nil
}
