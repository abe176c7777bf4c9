package conjugate

import (
	"github.com/wyfcoding/probkit/xerrors"
)

// Gamma 是泊松率参数的 Gamma 先验，形状参数 a = Theta + 1，率参数为 Beta。
type Gamma struct {
	Theta float64
	Beta  float64
}

// GammaFromMoments 由均值与方差反求参数：β = m/v，θ = β·m - 1。
func GammaFromMoments(mean, variance float64) (Gamma, error) {
	if !(mean > 0 && variance > 0) {
		return Gamma{}, xerrors.Derive(xerrors.ErrInvalidParameter,
			"mean and variance must be positive, got %v, %v", mean, variance)
	}
	beta := mean / variance
	return Gamma{Theta: beta*mean - 1, Beta: beta}, nil
}

// Moments 返回分布的均值 (θ+1)/β 与方差 (θ+1)/β²。
func (g Gamma) Moments() (mean, variance float64) {
	return (g.Theta + 1) / g.Beta, (g.Theta + 1) / (g.Beta * g.Beta)
}

// GammaPosterior 是观测后的 Gamma 分布及其矩。
type GammaPosterior struct {
	Params   Gamma
	Mean     float64
	Variance float64
}

// GammaPoissonUpdate 以泊松计数 obs 更新先验：β' = β + n，θ' = θ + Σobs。
func GammaPoissonUpdate(prior Gamma, obs []int) (GammaPosterior, error) {
	if !(prior.Beta > 0 && prior.Theta > -1) {
		return GammaPosterior{}, xerrors.Derive(xerrors.ErrInvalidParameter,
			"need beta > 0 and theta > -1, got %v, %v", prior.Beta, prior.Theta)
	}
	sum := 0
	for i, x := range obs {
		if x < 0 {
			return GammaPosterior{}, xerrors.Derive(xerrors.ErrInvalidInput, "observation %d is negative: %d", i, x)
		}
		sum += x
	}
	post := Gamma{Theta: prior.Theta + float64(sum), Beta: prior.Beta + float64(len(obs))}
	mean, variance := post.Moments()
	return GammaPosterior{Params: post, Mean: mean, Variance: variance}, nil
}
