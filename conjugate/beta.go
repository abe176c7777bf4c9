package conjugate

import (
	"math"

	"github.com/wyfcoding/probkit/xerrors"
)

// Beta 是成功概率 p 的 Beta(α, β) 先验。
type Beta struct {
	Alpha float64
	Beta  float64
}

// BetaFromMoments 由均值与方差反求 α、β：
//
//	α = (m² - m³ - v·m) / v
//	β = α·(1 - m) / m
func BetaFromMoments(mean, variance float64) (Beta, error) {
	if !(mean > 0 && mean < 1) {
		return Beta{}, xerrors.Derive(xerrors.ErrInvalidParameter, "mean must be in (0, 1), got %v", mean)
	}
	if !(variance > 0 && variance < mean*(1-mean)) {
		return Beta{}, xerrors.Derive(xerrors.ErrInvalidParameter,
			"variance must be in (0, %v), got %v", mean*(1-mean), variance)
	}
	alpha := (mean*mean - mean*mean*mean - variance*mean) / variance
	return Beta{Alpha: alpha, Beta: alpha * (1 - mean) / mean}, nil
}

// Moments 返回分布的均值与方差。
func (b Beta) Moments() (mean, variance float64) {
	s := b.Alpha + b.Beta
	return b.Alpha / s, b.Alpha * b.Beta / (s * s * (s + 1))
}

func (b Beta) validate() error {
	if !(b.Alpha > 0 && b.Beta > 0) {
		return xerrors.Derive(xerrors.ErrInvalidParameter, "alpha and beta must be positive, got %v, %v", b.Alpha, b.Beta)
	}
	return nil
}

// BetaPosterior 是观测后的 Beta 分布及其矩。
type BetaPosterior struct {
	Params   Beta
	Mean     float64
	Variance float64
}

// BetaBinomialUpdate 在观测到 n 次试验中 k 次成功后更新先验：α' = α + k，β' = β + (n - k)。
func BetaBinomialUpdate(n, k int, prior Beta) (BetaPosterior, error) {
	if err := prior.validate(); err != nil {
		return BetaPosterior{}, err
	}
	if n < 0 || k < 0 || k > n {
		return BetaPosterior{}, xerrors.Derive(xerrors.ErrInvalidInput, "need 0 <= k <= n, got n=%d k=%d", n, k)
	}
	return newBetaPosterior(Beta{Alpha: prior.Alpha + float64(k), Beta: prior.Beta + float64(n-k)}), nil
}

func newBetaPosterior(b Beta) BetaPosterior {
	mean, variance := b.Moments()
	return BetaPosterior{Params: b, Mean: mean, Variance: variance}
}

// Step 是收敛路径上的一步。
type Step struct {
	N float64 // 累计试验数 K/trueP
	K int     // 累计成功数
	BetaPosterior
}

// ConvergencePath 模拟真实成功概率为 trueP 的数据流：每一步新增一次成功与 1/trueP - 1 次失败，
// 逐步更新后验，直到后验均值达到 cutoff，返回包含最后一步在内的全部步骤。
// 每一步只把新增的观测计入上一步的后验，累计观测不会重复计入：
// 第 k 步的后验等于先验一次性观测 k 次成功、k/trueP - k 次失败后的后验。
// 后验均值只会趋近而不会达到 trueP，因此 cutoff >= trueP 时返回 ErrNoConvergence；
// maxSteps 步内未达到 cutoff 同样返回 ErrNoConvergence。
func ConvergencePath(prior Beta, trueP, cutoff float64, maxSteps int) ([]Step, error) {
	if err := prior.validate(); err != nil {
		return nil, err
	}
	if !(trueP > 0 && trueP <= 1) {
		return nil, xerrors.Derive(xerrors.ErrInvalidParameter, "true probability must be in (0, 1], got %v", trueP)
	}
	if maxSteps <= 0 {
		return nil, xerrors.Derive(xerrors.ErrInvalidParameter, "max steps must be positive, got %d", maxSteps)
	}
	if cutoff >= trueP {
		return nil, xerrors.Derive(xerrors.ErrNoConvergence, "cutoff %v is not below true probability %v", cutoff, trueP)
	}

	failures := 1/trueP - 1
	cur := prior
	steps := make([]Step, 0, min(maxSteps, 1024))
	for k := 1; k <= maxSteps; k++ {
		cur = Beta{Alpha: cur.Alpha + 1, Beta: cur.Beta + failures}
		step := Step{N: float64(k) / trueP, K: k, BetaPosterior: newBetaPosterior(cur)}
		steps = append(steps, step)
		if step.Mean >= cutoff {
			return steps, nil
		}
	}
	return steps, xerrors.Derive(xerrors.ErrNoConvergence,
		"mean %.6f below cutoff %v after %d steps", steps[len(steps)-1].Mean, cutoff, maxSteps)
}

// ExpectedTrials 返回后验均值恰好达到 cutoff 所需的累计成功数下界（连续近似），
// 用于在调用 ConvergencePath 前估算 maxSteps。
func ExpectedTrials(prior Beta, trueP, cutoff float64) (float64, error) {
	if err := prior.validate(); err != nil {
		return 0, err
	}
	if !(trueP > 0 && trueP <= 1) || !(cutoff < trueP) {
		return 0, xerrors.Derive(xerrors.ErrNoConvergence, "cutoff %v is not below true probability %v", cutoff, trueP)
	}
	// (α+k)/(α+β+k/p) = c  =>  k = (c(α+β) - α) / (1 - c/p)
	k := (cutoff*(prior.Alpha+prior.Beta) - prior.Alpha) / (1 - cutoff/trueP)
	return math.Max(k, 0), nil
}
