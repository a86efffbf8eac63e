// Package vector implements the cosine-similarity kernel used to dedup
// query embeddings and rank candidate vectors. It provides a scalar
// reference path and an 8-lane unrolled path selected at runtime via CPU
// feature detection; both must agree within 1e-4 absolute error.
package vector

import (
	"fmt"
	"math"

	"github.com/klauspost/cpuid/v2"
)

// lanes is the SIMD-style unroll width: 8 lanes with independent
// accumulators, processed with multiply-then-add (the FMA the hardware
// performs when cpuid reports fused-multiply-add support).
const lanes = 8

var useWideLanes = cpuid.CPU.Supports(cpuid.AVX2) || cpuid.CPU.Supports(cpuid.FMA3)

// DotProduct returns the dot product of a and b. Panics if lengths differ
// (unequal lengths are a programming error, not a runtime condition).
func DotProduct(a, b []float32) float64 {
	requireEqualLen(a, b)
	if useWideLanes {
		return dotWide(a, b)
	}
	return dotScalar(a, b)
}

// L2Norm returns the Euclidean norm of v.
func L2Norm(v []float32) float64 {
	return math.Sqrt(dotScalarSame(v))
}

// Normalize scales v in place to unit length. No-op if the norm is zero.
func Normalize(v []float32) {
	n := L2Norm(v)
	if n == 0 {
		return
	}
	inv := float32(1.0 / n)
	for i := range v {
		v[i] *= inv
	}
}

// CosineSimilarity returns (a·b) / (|a|·|b|). Panics on length mismatch.
// Returns 0 if either vector has zero norm.
func CosineSimilarity(a, b []float32) float64 {
	requireEqualLen(a, b)
	var dot, normA, normB float64
	if useWideLanes {
		dot, normA, normB = cosineWide(a, b)
	} else {
		dot, normA, normB = cosineScalar(a, b)
	}
	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0
	}
	return dot / denom
}

func requireEqualLen(a, b []float32) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("vector: length mismatch: %d != %d", len(a), len(b)))
	}
}

func dotScalar(a, b []float32) float64 {
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

func dotScalarSame(a []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(a[i])
	}
	return sum
}

func cosineScalar(a, b []float32) (dot, normA, normB float64) {
	for i := range a {
		fa, fb := float64(a[i]), float64(b[i])
		dot += fa * fb
		normA += fa * fa
		normB += fb * fb
	}
	return
}

// dotWide and cosineWide process 8 elements per iteration across 8
// independent accumulator lanes, then reduce. The tail (length not a
// multiple of lanes) falls through to the scalar loop, matching the
// scalar path's rounding behavior closely enough to stay within 1e-4.
func dotWide(a, b []float32) float64 {
	n := len(a)
	full := n - n%lanes
	var acc [lanes]float64
	for i := 0; i < full; i += lanes {
		for l := 0; l < lanes; l++ {
			acc[l] += float64(a[i+l]) * float64(b[i+l])
		}
	}
	var dot float64
	for _, v := range acc {
		dot += v
	}
	for i := full; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

func cosineWide(a, b []float32) (dot, normA, normB float64) {
	n := len(a)
	full := n - n%lanes
	var accDot, accA, accB [lanes]float64
	for i := 0; i < full; i += lanes {
		for l := 0; l < lanes; l++ {
			fa := float64(a[i+l])
			fb := float64(b[i+l])
			accDot[l] += fa * fb
			accA[l] += fa * fa
			accB[l] += fb * fb
		}
	}
	for l := 0; l < lanes; l++ {
		dot += accDot[l]
		normA += accA[l]
		normB += accB[l]
	}
	for i := full; i < n; i++ {
		fa, fb := float64(a[i]), float64(b[i])
		dot += fa * fb
		normA += fa * fa
		normB += fb * fb
	}
	return
}
