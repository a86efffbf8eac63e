package vector

import (
	"math"
	"testing"
)

const eps = 1e-4

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestCosineSimilarity_IdenticalOppositeOrthogonal(t *testing.T) {
	a := []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}
	neg := make([]float32, len(a))
	for i, v := range a {
		neg[i] = -v
	}
	if sim := CosineSimilarity(a, a); !approxEqual(sim, 1.0, eps) {
		t.Errorf("identical vectors: got %v, want ~1.0", sim)
	}
	if sim := CosineSimilarity(a, neg); !approxEqual(sim, -1.0, eps) {
		t.Errorf("opposite vectors: got %v, want ~-1.0", sim)
	}

	ortho1 := []float32{1, 0, 0, 0, 0, 0, 0, 0}
	ortho2 := []float32{0, 1, 0, 0, 0, 0, 0, 0}
	if sim := CosineSimilarity(ortho1, ortho2); !approxEqual(sim, 0.0, eps) {
		t.Errorf("orthogonal vectors: got %v, want ~0.0", sim)
	}
}

func TestCosineSimilarity_PanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on length mismatch")
		}
	}()
	CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
}

func TestCosineSimilarity_ZeroNorm(t *testing.T) {
	a := []float32{0, 0, 0}
	b := []float32{1, 2, 3}
	if sim := CosineSimilarity(a, b); sim != 0 {
		t.Errorf("zero-norm vector should give similarity 0, got %v", sim)
	}
}

// TestWideScalarAgreement exercises lengths that are and aren't multiples
// of the lane width, verifying the unrolled path matches the scalar path.
func TestWideScalarAgreement(t *testing.T) {
	for _, n := range []int{1, 3, 7, 8, 9, 15, 16, 17, 100, 103} {
		a := make([]float32, n)
		b := make([]float32, n)
		for i := range a {
			a[i] = float32(i%7) + 0.5
			b[i] = float32((i*3)%5) + 0.25
		}
		scalarDot := dotScalar(a, b)
		wideDot := dotWide(a, b)
		if !approxEqual(scalarDot, wideDot, eps) {
			t.Errorf("len=%d: dotScalar=%v dotWide=%v", n, scalarDot, wideDot)
		}

		sDot, sA, sB := cosineScalar(a, b)
		wDot, wA, wB := cosineWide(a, b)
		if !approxEqual(sDot, wDot, eps) || !approxEqual(sA, wA, eps) || !approxEqual(sB, wB, eps) {
			t.Errorf("len=%d: cosineScalar=(%v,%v,%v) cosineWide=(%v,%v,%v)", n, sDot, sA, sB, wDot, wA, wB)
		}
	}
}

func TestNormalize(t *testing.T) {
	v := []float32{3, 4}
	Normalize(v)
	if n := L2Norm(v); !approxEqual(n, 1.0, eps) {
		t.Errorf("normalized vector should have unit norm, got %v", n)
	}

	zero := []float32{0, 0, 0}
	Normalize(zero)
	for _, x := range zero {
		if x != 0 {
			t.Errorf("normalizing the zero vector should be a no-op")
		}
	}
}

func TestDotProduct(t *testing.T) {
	a := []float32{1, 2, 3}
	b := []float32{4, 5, 6}
	want := 1*4 + 2*5 + 3*6
	if got := DotProduct(a, b); !approxEqual(got, float64(want), eps) {
		t.Errorf("DotProduct = %v, want %v", got, want)
	}
}
