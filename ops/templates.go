package ops

// Audit templates rendered by the engine into per-kernel source text. One
// template is shared per arity; the $-symbols come from each operation's
// fragment table and the #if branches from the kernel configuration, so a
// single compiled generator serves every operation.

const binaryKernelTemplate = `// $op kernel: $path operands ($dx, $dy)
#if INPLACE
// result written through the left operand's storage
#endif
for i := range out {
#if RR
	out[i] = $rr
#elseif RC
	outRe[i] = $rcRe
	outIm[i] = $rcIm
#elseif CR
	outRe[i] = $crRe
	outIm[i] = $crIm
#else
	outRe[i] = $ccRe
	outIm[i] = $ccIm
#endif
}`

const unaryKernelTemplate = `// $op kernel: $path operand ($dx)
#if INPLACE
// result written through the operand's storage
#endif
for i := range out {
#if REAL
	out[i] = $real
#else
#if REALOUT
	out[i] = $complexRe
#else
	outRe[i] = $complexRe
	outIm[i] = $complexIm
#endif
#endif
}`
