// Package inference 提供离散贝叶斯推断的常用计算：加权后验、贝叶斯表、全概率/全期望以及诊断试验的预测值。
package inference

import (
	"math"

	"github.com/wyfcoding/probkit/numeric"
	"github.com/wyfcoding/probkit/xerrors"
)

// displayDigits 是算式展示时保留的小数位数。
const displayDigits int32 = 6

// Weighted 是一个条件概率及其权重（先验）。
type Weighted struct {
	P      float64
	Weight float64
}

func (w Weighted) tuple() []float64 {
	return []float64{w.P, w.Weight}
}

// Explanation 是后验计算的结果与可读的算式。
type Explanation struct {
	Value       float64
	Numerator   string // 例如 "0.9 * 0.01"
	Denominator string // 例如 "(0.05 * 0.99) + (0.9 * 0.01)"
}

// WeightedPosterior 计算 target 的后验：
//
//	P·W / (P1·W1 + ... + Pn·Wn + P·W)
//
// target 本身计入分母。
func WeightedPosterior(target Weighted, others []Weighted) (Explanation, error) {
	all := make([][]float64, 0, len(others)+1)
	for _, o := range others {
		all = append(all, o.tuple())
	}
	all = append(all, target.tuple())

	for _, tp := range all {
		for _, v := range tp {
			if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return Explanation{}, xerrors.Derive(xerrors.ErrInvalidInput, "probabilities and weights must be finite and non-negative, got %v", v)
			}
		}
	}

	denom, err := numeric.ProductThenSum(all, false)
	if err != nil {
		return Explanation{}, err
	}
	if denom == 0 {
		return Explanation{}, xerrors.Derive(xerrors.ErrZeroMarginal, "all weighted probabilities are zero")
	}

	return Explanation{
		Value:       numeric.Product(target.P, target.Weight) / denom,
		Numerator:   numeric.FormatValues(target.tuple(), "*", displayDigits),
		Denominator: numeric.FormatTuples(all, "*", "+", displayDigits),
	}, nil
}

// Total 返回多个元组逐个相乘后的和。
// 元组为 (p, prior) 时得到全概率，为 (n, p, prior) 时得到全期望。
func Total(tuples [][]float64) (float64, error) {
	if len(tuples) == 0 {
		return 0, xerrors.Derive(xerrors.ErrInvalidInput, "no tuples")
	}
	return numeric.ProductThenSum(tuples, false)
}
