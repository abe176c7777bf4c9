package conjugate

import (
	"github.com/wyfcoding/probkit/xerrors"
)

// InverseGamma 是已知均值时正态方差的逆 Gamma 先验，
// 以 (r, s) 参数化：a = s/2 - 1，B = r/2。
type InverseGamma struct {
	R float64
	S float64
}

// InverseGammaFromMoments 由均值与方差反求参数：
//
//	r = 2m³/v + 2m
//	s = 2m²/v + 6
func InverseGammaFromMoments(mean, variance float64) (InverseGamma, error) {
	if !(mean > 0 && variance > 0) {
		return InverseGamma{}, xerrors.Derive(xerrors.ErrInvalidParameter,
			"mean and variance must be positive, got %v, %v", mean, variance)
	}
	return InverseGamma{
		R: 2*mean*mean*mean/variance + 2*mean,
		S: 2*mean*mean/variance + 6,
	}, nil
}

// Moments 返回均值 r/(s-4) 与方差 2r²/((s-4)²(s-6))，方差仅在 s > 6 时有限。
func (g InverseGamma) Moments() (mean, variance float64, err error) {
	if !(g.S > 6) {
		return 0, 0, xerrors.Derive(xerrors.ErrInvalidParameter, "variance is finite only for s > 6, got %v", g.S)
	}
	d := g.S - 4
	return g.R / d, 2 * g.R * g.R / (d * d * (g.S - 6)), nil
}

// InverseGammaPosterior 是观测后的逆 Gamma 分布及其矩。
type InverseGammaPosterior struct {
	Params   InverseGamma
	Mean     float64
	Variance float64
}

// InverseGammaUpdate 以均值已知为 knownMean 的正态观测更新先验：
// r' = r + Σ(x - μ)²，s' = s + n。
func InverseGammaUpdate(knownMean float64, obs []float64, prior InverseGamma) (InverseGammaPosterior, error) {
	if len(obs) == 0 {
		return InverseGammaPosterior{}, xerrors.Derive(xerrors.ErrInvalidInput, "no observations")
	}
	if !(prior.R > 0) {
		return InverseGammaPosterior{}, xerrors.Derive(xerrors.ErrInvalidParameter, "r must be positive, got %v", prior.R)
	}
	ss := 0.0
	for _, x := range obs {
		ss += (x - knownMean) * (x - knownMean)
	}
	post := InverseGamma{R: prior.R + ss, S: prior.S + float64(len(obs))}
	mean, variance, err := post.Moments()
	if err != nil {
		return InverseGammaPosterior{}, err
	}
	return InverseGammaPosterior{Params: post, Mean: mean, Variance: variance}, nil
}
