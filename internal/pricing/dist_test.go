package pricing

import (
	"math"
	"testing"
)

func TestPoissonPMFSumsToOne(t *testing.T) {
	lambda := 2.5
	sum := 0.0
	for k := 0; k <= 50; k++ {
		sum += PoissonPMF(k, lambda)
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("expected PMF mass about 1, got %v", sum)
	}
}

func TestPoissonPMFZeroLambda(t *testing.T) {
	if p := PoissonPMF(0, 0); p != 1 {
		t.Fatalf("expected mass 1 at k=0 for lambda=0, got %v", p)
	}
	if p := PoissonPMF(3, 0); p != 0 {
		t.Fatalf("expected mass 0 at k=3 for lambda=0, got %v", p)
	}
}

func TestPoissonCDFMonotonic(t *testing.T) {
	lambda := 1.3
	prev := -1.0
	for k := 0; k <= 10; k++ {
		cdf := PoissonCDF(k, lambda)
		if cdf < prev {
			t.Fatalf("expected non-decreasing CDF, got %v after %v at k=%d", cdf, prev, k)
		}
		if cdf > 1 {
			t.Fatalf("expected CDF <= 1, got %v at k=%d", cdf, k)
		}
		prev = cdf
	}
}

func TestPoissonCDFNegativeK(t *testing.T) {
	if cdf := PoissonCDF(-1, 2.0); cdf != 0 {
		t.Fatalf("expected 0 for negative k, got %v", cdf)
	}
}

func TestPoissonCDFKnownValue(t *testing.T) {
	// P(X=0) for lambda=1 is e^-1.
	cdf := PoissonCDF(0, 1)
	if math.Abs(cdf-math.Exp(-1)) > 1e-9 {
		t.Fatalf("expected e^-1, got %v", cdf)
	}
}

func TestNormalCDFCenter(t *testing.T) {
	if p := NormalCDF(10, 10, 2); math.Abs(p-0.5) > 1e-6 {
		t.Fatalf("expected 0.5 at the mean, got %v", p)
	}
}

func TestNormalCDFSymmetry(t *testing.T) {
	lo := NormalCDF(8, 10, 2)
	hi := NormalCDF(12, 10, 2)
	if math.Abs(lo+hi-1) > 1e-6 {
		t.Fatalf("expected symmetric tails to sum to 1, got %v", lo+hi)
	}
}

func TestNormalCDFTails(t *testing.T) {
	if p := NormalCDF(-100, 0, 1); p > 1e-6 {
		t.Fatalf("expected near-zero far below the mean, got %v", p)
	}
	if p := NormalCDF(100, 0, 1); p < 1-1e-6 {
		t.Fatalf("expected near-one far above the mean, got %v", p)
	}
}

func TestNormalCDFDegenerateSigma(t *testing.T) {
	if p := NormalCDF(9, 10, 0); p != 0 {
		t.Fatalf("expected 0 below a point mass, got %v", p)
	}
	if p := NormalCDF(11, 10, 0); p != 1 {
		t.Fatalf("expected 1 above a point mass, got %v", p)
	}
}
