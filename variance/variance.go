// Package variance 实现分组数据的方差分解（条件方差公式）与二项混合分布的矩。
package variance

import (
	"github.com/wyfcoding/probkit/distribution"
	"github.com/wyfcoding/probkit/numeric"
	"github.com/wyfcoding/probkit/xerrors"
)

// Decomposition 是条件方差公式 Var[X] = E_W[Var[X|W]] + Var_W[E[X|W]] 的各项。
type Decomposition struct {
	Within  float64 // E_W[Var[X|W]]
	Mean    float64 // E[X]
	MeanSq  float64 // E[X²]，由各组均值计算
	Between float64 // Var_W[E[X|W]] = E[X²] - E[X]²
	Total   float64
}

// Decompose 由各组的方差、均值与权重计算总方差。三个切片按组对齐，长度必须一致。
func Decompose(variances, means, weights []float64) (Decomposition, error) {
	if len(variances) != len(means) || len(means) != len(weights) {
		return Decomposition{}, xerrors.Derive(xerrors.ErrInvalidInput,
			"length mismatch: %d variances, %d means, %d weights", len(variances), len(means), len(weights))
	}
	if len(weights) == 0 {
		return Decomposition{}, xerrors.Derive(xerrors.ErrInvalidInput, "no groups")
	}

	within := make([][]float64, len(weights))
	between := make([][]float64, len(weights))
	for i := range weights {
		within[i] = []float64{variances[i], weights[i]}
		between[i] = []float64{means[i], weights[i]}
	}

	w, err := numeric.ProductThenSum(within, false)
	if err != nil {
		return Decomposition{}, err
	}
	mean, err := numeric.ProductThenSum(between, false)
	if err != nil {
		return Decomposition{}, err
	}
	meanSq, err := numeric.ProductThenSum(between, true)
	if err != nil {
		return Decomposition{}, err
	}

	b := meanSq - mean*mean
	return Decomposition{Within: w, Mean: mean, MeanSq: meanSq, Between: b, Total: w + b}, nil
}

// Component 是混合分布中的一个二项分量。
type Component struct {
	P      float64 // 单次试验成功概率
	Weight float64 // 分量权重
}

// Moments 是混合分布的概率表与矩。
type Moments struct {
	PMF      []float64 // PMF[x] = Pr(X = x)，x ∈ [0, k]
	Mean     float64
	MeanSq   float64
	Variance float64
}

// BinomialMixture 按定义计算 k 次试验的二项混合分布的方差：
// 对每个 x ∈ [0, k] 求 Pr(X=x) = Σ w·Binomial(k, p).PMF(x)，再由 E[X²] - E[X]² 得到方差。
func BinomialMixture(k int, mixture []Component) (Moments, error) {
	if k < 0 {
		return Moments{}, xerrors.Derive(xerrors.ErrInvalidParameter, "trials must be non-negative, got %d", k)
	}
	if len(mixture) == 0 {
		return Moments{}, xerrors.Derive(xerrors.ErrInvalidInput, "empty mixture")
	}

	dists := make([]*distribution.Binomial, len(mixture))
	for i, c := range mixture {
		d, err := distribution.NewBinomial(k, c.P)
		if err != nil {
			return Moments{}, err
		}
		dists[i] = d
	}

	m := Moments{PMF: make([]float64, k+1)}
	for x := 0; x <= k; x++ {
		for i, c := range mixture {
			m.PMF[x] += c.Weight * dists[i].PMF(x)
		}
		m.Mean += float64(x) * m.PMF[x]
		m.MeanSq += float64(x*x) * m.PMF[x]
	}
	m.Variance = m.MeanSq - m.Mean*m.Mean
	return m, nil
}
