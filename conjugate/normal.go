// Package conjugate 实现常见共轭先验族的参数换算与后验更新：
// 正态-正态、Beta-二项、Gamma-泊松以及已知均值的正态-逆 Gamma。
package conjugate

import (
	"math"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/wyfcoding/probkit/numeric"
	"github.com/wyfcoding/probkit/xerrors"
)

// zScores 是双侧区间覆盖率（百分比）到标准正态分位数的对照表。
var zScores = map[float64]float64{
	80:   1.282,
	85:   1.440,
	90:   1.645,
	95:   1.960,
	99:   2.576,
	99.5: 2.807,
}

// ZScore 返回覆盖率 level（百分比）对应的 z 值，只支持对照表中的取值。
func ZScore(level float64) (float64, error) {
	z, ok := zScores[level]
	if !ok {
		return 0, xerrors.Derive(xerrors.ErrInvalidParameter, "unsupported interval level %v", level)
	}
	return z, nil
}

// ParamsFromInterval 由包含 level% 概率质量的区间 [lo, hi] 反求正态分布的均值与方差。
func ParamsFromInterval(lo, hi, level float64) (mean, variance float64, err error) {
	z, err := ZScore(level)
	if err != nil {
		return 0, 0, err
	}
	if !(hi > lo) {
		return 0, 0, xerrors.Derive(xerrors.ErrInvalidParameter, "interval [%v, %v] is empty", lo, hi)
	}
	sd := (hi - lo) / (2 * z)
	return (lo + hi) / 2, sd * sd, nil
}

// IntervalLikelihood 返回正态随机变量落在 [lo, hi] 内的概率。
func IntervalLikelihood(mean, variance, lo, hi float64) (float64, error) {
	if !(variance > 0) {
		return 0, xerrors.Derive(xerrors.ErrInvalidParameter, "variance must be positive, got %v", variance)
	}
	n := distuv.Normal{Mu: mean, Sigma: math.Sqrt(variance)}
	return n.CDF(hi) - n.CDF(lo), nil
}

// NormalPosterior 是方差已知时正态均值的后验分布。
type NormalPosterior struct {
	Mean     float64
	Variance float64
}

// NormalUpdate 以观测 obs（或重复 n 次的样本均值）更新均值的正态先验。
// priorMean 与 priorVar 均为 0 时视为无信息先验：后验均值为样本均值，方差为 sampleVar/n。
func NormalUpdate(obs []float64, sampleVar, priorMean, priorVar float64) (NormalPosterior, error) {
	if len(obs) == 0 {
		return NormalPosterior{}, xerrors.Derive(xerrors.ErrInvalidInput, "no observations")
	}
	if !(sampleVar > 0) {
		return NormalPosterior{}, xerrors.Derive(xerrors.ErrInvalidParameter, "sample variance must be positive, got %v", sampleVar)
	}
	if priorVar < 0 {
		return NormalPosterior{}, xerrors.Derive(xerrors.ErrInvalidParameter, "prior variance must be non-negative, got %v", priorVar)
	}

	n := float64(len(obs))
	if priorMean == 0 && priorVar == 0 {
		return NormalPosterior{Mean: stat.Mean(obs, nil), Variance: sampleVar / n}, nil
	}

	sum := 0.0
	for _, x := range obs {
		sum += x
	}
	denom := sampleVar + n*priorVar
	return NormalPosterior{
		Mean:     (priorMean*sampleVar + sum*priorVar) / denom,
		Variance: sampleVar * priorVar / denom,
	}, nil
}

// CredibleInterval 返回后验均值的 level% 可信区间，两端保留三位小数。
func (p NormalPosterior) CredibleInterval(level float64) (lo, hi float64, err error) {
	z, err := ZScore(level)
	if err != nil {
		return 0, 0, err
	}
	half := z * math.Sqrt(p.Variance)
	return numeric.Round(p.Mean-half, 3), numeric.Round(p.Mean+half, 3), nil
}
