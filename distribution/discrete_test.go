package distribution

import (
	"errors"
	"math"
	"testing"

	"github.com/wyfcoding/probkit/xerrors"
)

const tol = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) <= tol
}

func TestUniform(t *testing.T) {
	u, err := NewUniform(1, 10, 3) // 1, 4, 7, 10
	if err != nil {
		t.Fatal(err)
	}
	if got := u.PMF(4); !near(got, 0.25) {
		t.Errorf("PMF(4) = %v", got)
	}
	if got := u.PMF(5); got != 0 {
		t.Errorf("PMF(5) = %v, want 0", got)
	}
	if got := u.CDF(7); !near(got, 0.75) {
		t.Errorf("CDF(7) = %v, want 0.75", got)
	}
	if got := u.CDF(8); !near(got, 0.75) {
		t.Errorf("CDF(8) = %v, want 0.75", got)
	}
	if got := u.CDF(0); got != 0 {
		t.Errorf("CDF(0) = %v", got)
	}
	if got := u.Mean(); got != 5.5 {
		t.Errorf("Mean = %v", got)
	}
	// (1+16+49+100)/4 - 5.5^2
	if got := u.Variance(); !near(got, 41.5-30.25) {
		t.Errorf("Variance = %v", got)
	}

	// 最后一个元素不一定等于 last
	u2, _ := NewUniform(0, 5, 2)
	if got := u2.Mean(); got != 2 {
		t.Errorf("Mean = %v, want 2", got)
	}

	if _, err := NewUniform(1, 10, 0); !errors.Is(err, xerrors.ErrInvalidParameter) {
		t.Errorf("step 0: %v", err)
	}
	if _, err := NewUniform(5, 1, 1); !errors.Is(err, xerrors.ErrInvalidParameter) {
		t.Errorf("empty: %v", err)
	}
}

func TestBinomial(t *testing.T) {
	b, err := NewBinomial(10, 0.3)
	if err != nil {
		t.Fatal(err)
	}
	want := 120 * math.Pow(0.3, 3) * math.Pow(0.7, 7)
	if got := b.PMF(3); !near(got, want) {
		t.Errorf("PMF(3) = %v, want %v", got, want)
	}
	if got := b.CDF(10); !near(got, 1) {
		t.Errorf("CDF(10) = %v", got)
	}
	if got := b.CDF(20); !near(got, 1) {
		t.Errorf("CDF(20) = %v", got)
	}
	if got := b.CDF(-1); got != 0 {
		t.Errorf("CDF(-1) = %v", got)
	}
	if !near(b.Mean(), 3) || !near(b.Variance(), 2.1) {
		t.Errorf("moments = %v, %v", b.Mean(), b.Variance())
	}

	sure, _ := NewBinomial(4, 1)
	if sure.PMF(4) != 1 || sure.PMF(3) != 0 {
		t.Errorf("degenerate p=1: %v %v", sure.PMF(4), sure.PMF(3))
	}
	if _, err := NewBinomial(3, 1.5); !errors.Is(err, xerrors.ErrInvalidParameter) {
		t.Errorf("p=1.5: %v", err)
	}
	if _, err := NewBinomial(-1, 0.5); !errors.Is(err, xerrors.ErrInvalidParameter) {
		t.Errorf("n=-1: %v", err)
	}
}

func TestPoisson(t *testing.T) {
	p, err := NewPoisson(2)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := p.PMF(3), math.Exp(-2)*8/6; !near(got, want) {
		t.Errorf("PMF(3) = %v, want %v", got, want)
	}
	want := math.Exp(-2) * (1 + 2 + 2)
	if got := p.CDF(2); !near(got, want) {
		t.Errorf("CDF(2) = %v, want %v", got, want)
	}
	if got := p.RangeProbability(1, 2); !near(got, math.Exp(-2)*4) {
		t.Errorf("Range(1,2) = %v", got)
	}
	if got := p.RangeProbability(3, 2); got != 0 {
		t.Errorf("empty range = %v", got)
	}
	if p.Mean() != 2 || p.Variance() != 2 {
		t.Errorf("moments")
	}
	if _, err := NewPoisson(0); !errors.Is(err, xerrors.ErrInvalidParameter) {
		t.Errorf("mu=0: %v", err)
	}
}

func TestGeometric(t *testing.T) {
	g, err := NewGeometric(0.25)
	if err != nil {
		t.Fatal(err)
	}
	if got := g.PMF(2); !near(got, 0.75*0.75*0.25) {
		t.Errorf("PMF(2) = %v", got)
	}
	for k := range 6 {
		if got, want := g.CDF(k), 1-g.Survival(k); !near(got, want) {
			t.Errorf("CDF(%d) = %v, want %v", k, got, want)
		}
	}
	if !near(g.Mean(), 3) || !near(g.Variance(), 12) {
		t.Errorf("moments = %v, %v", g.Mean(), g.Variance())
	}

	p, err := GeometricFromMean(3)
	if err != nil || p != 0.25 {
		t.Errorf("GeometricFromMean(3) = %v, %v", p, err)
	}
	m, err := GeometricMean(0.25)
	if err != nil || m != 3 {
		t.Errorf("GeometricMean(0.25) = %v, %v", m, err)
	}
	if _, err := NewGeometric(0); !errors.Is(err, xerrors.ErrInvalidParameter) {
		t.Errorf("p=0: %v", err)
	}
	if _, err := GeometricFromMean(-1); !errors.Is(err, xerrors.ErrInvalidParameter) {
		t.Errorf("mean=-1: %v", err)
	}
}

func TestNoSharedState(t *testing.T) {
	g, _ := NewGeometric(0.5)
	first := g.CDF(4)
	for range 3 {
		if got := g.CDF(4); got != first {
			t.Fatalf("CDF changed between calls: %v vs %v", got, first)
		}
	}
}
