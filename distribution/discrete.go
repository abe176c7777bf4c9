// Package distribution 提供常用离散分布的概率质量函数、累积分布函数与矩。
// 所有区间求和均为显式循环，不使用递归与共享累加器。
package distribution

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wyfcoding/probkit/xerrors"
)

// Discrete 是整数取值的离散分布。
type Discrete interface {
	PMF(k int) float64
	CDF(k int) float64
	Mean() float64
	Variance() float64
}

var (
	_ Discrete = (*Uniform)(nil)
	_ Discrete = (*Binomial)(nil)
	_ Discrete = (*Poisson)(nil)
	_ Discrete = (*Geometric)(nil)
)

// Uniform 是有限等差序列上的离散均匀分布。
type Uniform struct {
	values []int
	p      float64
}

// NewUniform 以 first 起、步长 step、不超过 last 的序列构造均匀分布。
func NewUniform(first, last, step int) (*Uniform, error) {
	if step <= 0 {
		return nil, xerrors.Derive(xerrors.ErrInvalidParameter, "step must be positive, got %d", step)
	}
	if last < first {
		return nil, xerrors.Derive(xerrors.ErrInvalidParameter, "empty sequence [%d, %d]", first, last)
	}
	values := make([]int, 0, (last-first)/step+1)
	for v := first; v <= last; v += step {
		values = append(values, v)
	}
	return &Uniform{values: values, p: 1 / float64(len(values))}, nil
}

// Values 返回序列的副本。
func (u *Uniform) Values() []int {
	return append([]int(nil), u.values...)
}

func (u *Uniform) PMF(k int) float64 {
	for _, v := range u.values {
		if v == k {
			return u.p
		}
	}
	return 0
}

func (u *Uniform) CDF(k int) float64 {
	n := 0
	for _, v := range u.values {
		if v <= k {
			n++
		}
	}
	return u.p * float64(n)
}

func (u *Uniform) Mean() float64 {
	return float64(u.values[0]+u.values[len(u.values)-1]) / 2
}

func (u *Uniform) Variance() float64 {
	sq := 0.0
	for _, v := range u.values {
		sq += u.p * float64(v) * float64(v)
	}
	m := u.Mean()
	return sq - m*m
}

// Binomial 是 n 次独立试验中成功次数的分布。
type Binomial struct {
	N    int
	P    float64
	dist distuv.Binomial
}

// NewBinomial 构造二项分布，要求 n >= 0 且 p ∈ [0, 1]。
func NewBinomial(n int, p float64) (*Binomial, error) {
	if n < 0 {
		return nil, xerrors.Derive(xerrors.ErrInvalidParameter, "trials must be non-negative, got %d", n)
	}
	if err := checkProbability("p", p); err != nil {
		return nil, err
	}
	return &Binomial{N: n, P: p, dist: distuv.Binomial{N: float64(n), P: p}}, nil
}

func (b *Binomial) PMF(k int) float64 {
	if k < 0 || k > b.N {
		return 0
	}
	// 退化情形直接给出，避免对数域计算中的 log(0)。
	switch b.P {
	case 0:
		return indicator(k == 0)
	case 1:
		return indicator(k == b.N)
	}
	return b.dist.Prob(float64(k))
}

func (b *Binomial) CDF(k int) float64 {
	sum := 0.0
	for i := 0; i <= min(k, b.N); i++ {
		sum += b.PMF(i)
	}
	return sum
}

func (b *Binomial) Mean() float64 { return float64(b.N) * b.P }

func (b *Binomial) Variance() float64 { return float64(b.N) * b.P * (1 - b.P) }

// Poisson 是单位区间内独立事件发生次数的分布，均值与方差均为 Mu。
type Poisson struct {
	Mu   float64
	dist distuv.Poisson
}

// NewPoisson 构造泊松分布，要求 mu > 0。
func NewPoisson(mu float64) (*Poisson, error) {
	if !(mu > 0) || math.IsInf(mu, 0) {
		return nil, xerrors.Derive(xerrors.ErrInvalidParameter, "mean must be positive, got %v", mu)
	}
	return &Poisson{Mu: mu, dist: distuv.Poisson{Lambda: mu}}, nil
}

func (p *Poisson) PMF(k int) float64 {
	if k < 0 {
		return 0
	}
	return p.dist.Prob(float64(k))
}

// RangeProbability 返回 P(lo <= X <= hi)，区间两端均包含。
func (p *Poisson) RangeProbability(lo, hi int) float64 {
	sum := 0.0
	for k := max(lo, 0); k <= hi; k++ {
		sum += p.PMF(k)
	}
	return sum
}

func (p *Poisson) CDF(k int) float64 { return p.RangeProbability(0, k) }

func (p *Poisson) Mean() float64 { return p.Mu }

func (p *Poisson) Variance() float64 { return p.Mu }

// Geometric 是首次成功之前失败次数的分布。
type Geometric struct {
	P float64
}

// NewGeometric 构造几何分布，要求 p ∈ (0, 1]。
func NewGeometric(p float64) (*Geometric, error) {
	if !(p > 0 && p <= 1) {
		return nil, xerrors.Derive(xerrors.ErrInvalidParameter, "p must be in (0, 1], got %v", p)
	}
	return &Geometric{P: p}, nil
}

func (g *Geometric) PMF(k int) float64 {
	if k < 0 {
		return 0
	}
	return math.Pow(1-g.P, float64(k)) * g.P
}

func (g *Geometric) CDF(k int) float64 {
	sum := 0.0
	for i := 0; i <= k; i++ {
		sum += g.PMF(i)
	}
	return sum
}

// Survival 返回 P(X > k) = (1-p)^(k+1)。
func (g *Geometric) Survival(k int) float64 {
	if k < 0 {
		return 1
	}
	return math.Pow(1-g.P, float64(k+1))
}

func (g *Geometric) Mean() float64 { return (1 - g.P) / g.P }

func (g *Geometric) Variance() float64 { return (1 - g.P) / (g.P * g.P) }

// GeometricFromMean 由期望失败次数反求成功概率 p = 1/(1+mean)。
func GeometricFromMean(mean float64) (float64, error) {
	if !(mean >= 0) || math.IsInf(mean, 0) {
		return 0, xerrors.Derive(xerrors.ErrInvalidParameter, "mean must be non-negative, got %v", mean)
	}
	return 1 / (1 + mean), nil
}

// GeometricMean 返回成功概率为 p 时的期望失败次数 (1-p)/p。
func GeometricMean(p float64) (float64, error) {
	g, err := NewGeometric(p)
	if err != nil {
		return 0, err
	}
	return g.Mean(), nil
}

func checkProbability(name string, p float64) error {
	if !(p >= 0 && p <= 1) {
		return xerrors.Derive(xerrors.ErrInvalidParameter, "%s must be in [0, 1], got %v", name, p)
	}
	return nil
}

func indicator(ok bool) float64 {
	if ok {
		return 1
	}
	return 0
}
