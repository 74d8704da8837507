package curve

import (
	"math"
	"testing"

	"wybe-engine/internal/domain"
)

const epsilon = 1e-12

func TestPrice_LinearAtZeroSupply(t *testing.T) {
	price := Price(0, domain.CurveLinear)
	if math.Abs(price-0.01) > epsilon {
		t.Errorf("expected price 0.01 at zero supply, got %f", price)
	}
}

func TestPrice_LinearGrowth(t *testing.T) {
	// price = supply/10000 + 0.01
	cases := []struct {
		supply float64
		want   float64
	}{
		{100, 0.02},
		{10_000, 1.01},
		{1_000_000, 100.01},
	}
	for _, c := range cases {
		got := Price(c.supply, domain.CurveLinear)
		if math.Abs(got-c.want) > epsilon {
			t.Errorf("linear price at supply %f: got %f, want %f", c.supply, got, c.want)
		}
	}
}

func TestPrice_Quadratic(t *testing.T) {
	// price = (supply/10000)^2 + 0.01
	got := Price(20_000, domain.CurveQuadratic)
	want := 4.01
	if math.Abs(got-want) > epsilon {
		t.Errorf("quadratic price at supply 20000: got %f, want %f", got, want)
	}

	if p := Price(0, domain.CurveQuadratic); math.Abs(p-0.01) > epsilon {
		t.Errorf("quadratic price at zero supply: got %f, want 0.01", p)
	}
}

func TestPrice_Exponential(t *testing.T) {
	// price = e^(supply/1000000) / 100
	if p := Price(0, domain.CurveExponential); math.Abs(p-0.01) > epsilon {
		t.Errorf("exponential price at zero supply: got %f, want 0.01", p)
	}

	got := Price(1_000_000, domain.CurveExponential)
	want := math.E / 100
	if math.Abs(got-want) > epsilon {
		t.Errorf("exponential price at supply 1e6: got %f, want %f", got, want)
	}
}

func TestPrice_LogarithmicClampsNegative(t *testing.T) {
	// At supply 500: (ln(0.5) + 0.01) * 0.3 ~= -0.2049, must clamp to 0.
	got := Price(500, domain.CurveLogarithmic)
	if got != 0 {
		t.Errorf("logarithmic price at supply 500: got %f, want 0 (clamped)", got)
	}
}

func TestPrice_LogarithmicZeroSupplySafe(t *testing.T) {
	// ln(0) is guarded via max(supply, 1); result clamps to 0.
	got := Price(0, domain.CurveLogarithmic)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Fatalf("logarithmic price at zero supply is not finite: %f", got)
	}
	if got != 0 {
		t.Errorf("logarithmic price at zero supply: got %f, want 0", got)
	}
}

func TestPrice_LogarithmicPositiveRegion(t *testing.T) {
	// At supply 10000: (ln(10) + 0.01) * 0.3
	got := Price(10_000, domain.CurveLogarithmic)
	want := (math.Log(10) + 0.01) * 0.3
	if math.Abs(got-want) > epsilon {
		t.Errorf("logarithmic price at supply 10000: got %f, want %f", got, want)
	}
}

func TestPrice_NeverNegative(t *testing.T) {
	supplies := []float64{0, 1, 10, 500, 999, 1000, 5_000, 100_000, 1e7, 1e9}
	curves := []domain.CurveType{
		domain.CurveLinear,
		domain.CurveQuadratic,
		domain.CurveExponential,
		domain.CurveLogarithmic,
	}
	for _, ct := range curves {
		for _, s := range supplies {
			if p := Price(s, ct); p < 0 {
				t.Errorf("negative price %f for curve %s at supply %f", p, ct, s)
			}
		}
	}
}

func TestPrice_StrictlyIncreasingCurves(t *testing.T) {
	// Linear, quadratic, exponential are strictly increasing in supply.
	curves := []domain.CurveType{
		domain.CurveLinear,
		domain.CurveQuadratic,
		domain.CurveExponential,
	}
	supplies := []float64{0, 100, 1_000, 50_000, 1_000_000}
	for _, ct := range curves {
		prev := -1.0
		for _, s := range supplies {
			p := Price(s, ct)
			if p <= prev {
				t.Errorf("curve %s not strictly increasing: price %f at supply %f after %f", ct, p, s, prev)
			}
			prev = p
		}
	}
}

func TestPrice_UnknownCurveFallsBackToLinear(t *testing.T) {
	got := Price(100, domain.CurveType("bogus"))
	want := Price(100, domain.CurveLinear)
	if got != want {
		t.Errorf("unknown curve type: got %f, want linear fallback %f", got, want)
	}
}
