package naivebayes

import (
	"github.com/wyfcoding/probkit/numeric"
	"github.com/wyfcoding/probkit/xerrors"
)

// Conditional 是某个特征取值在给定类别下的条件概率。
type Conditional struct {
	Column      string
	Value       string
	Probability float64
}

// Summary 汇总一个 (查询, 类别) 组合的先验、支持数与联合概率。
type Summary struct {
	Category string
	Prior    float64 // Support / 全部训练观测数
	Support  int64   // 该类别训练行的计数之和
	Joint    float64 // 全部条件概率之积乘以先验
}

// Evaluation 是 Evaluate 的完整输出。
type Evaluation struct {
	Conditionals []Conditional
	Summary
}

// Evaluate 计算查询在候选类别下的各特征条件概率与联合概率。
// 类别的训练支持数为零时条件概率无定义，返回 ErrEmptyCategory。
func Evaluate(training TrainingSet, query Query, category string) (Evaluation, error) {
	// 步骤1: 类别支持数与全部观测数。
	var support, total int64
	for _, obs := range training {
		total += obs.Count
		if obs.Label == category {
			support += obs.Count
		}
	}
	if support == 0 {
		return Evaluation{}, xerrors.Derive(xerrors.ErrEmptyCategory, "category %q", category)
	}

	// 步骤2: 每个特征的条件概率 P(列=值 | 类别)。
	conditionals := make([]Conditional, len(query.Features))
	probs := make([]float64, len(query.Features))
	for i, f := range query.Features {
		var matched int64
		for _, obs := range training {
			if obs.Label != category {
				continue
			}
			if v, ok := obs.Row.Get(f.Column); ok && v == f.Value {
				matched += obs.Count
			}
		}
		probs[i] = float64(matched) / float64(support)
		conditionals[i] = Conditional{Column: f.Column, Value: f.Value, Probability: probs[i]}
	}

	// 步骤3: 条件独立假设下，联合概率为条件概率之积乘以先验。
	prior := float64(support) / float64(total)
	return Evaluation{
		Conditionals: conditionals,
		Summary: Summary{
			Category: category,
			Prior:    prior,
			Support:  support,
			Joint:    numeric.Product(probs...) * prior,
		},
	}, nil
}
