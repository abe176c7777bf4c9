package inference

import (
	"github.com/wyfcoding/probkit/xerrors"
)

// Hypothesis 是贝叶斯表中的一个假设。
type Hypothesis struct {
	Label      string
	Prior      float64
	Likelihood float64
}

// BayesRow 是贝叶斯表的一行。
type BayesRow struct {
	Hypothesis
	Joint     float64
	Posterior float64
}

// BayesTable 列出每个假设的先验、似然、联合概率与后验，行顺序与输入一致。
type BayesTable struct {
	Rows     []BayesRow
	Marginal float64 // 全部联合概率之和
}

// NewBayesTable 构建贝叶斯表。标签重复或概率为负时返回 ErrInvalidInput，
// 联合概率全为零时返回 ErrZeroMarginal。
func NewBayesTable(hypotheses ...Hypothesis) (*BayesTable, error) {
	if len(hypotheses) == 0 {
		return nil, xerrors.Derive(xerrors.ErrInvalidInput, "no hypotheses")
	}

	seen := make(map[string]struct{}, len(hypotheses))
	tbl := &BayesTable{Rows: make([]BayesRow, len(hypotheses))}
	for i, h := range hypotheses {
		if _, dup := seen[h.Label]; dup {
			return nil, xerrors.Derive(xerrors.ErrInvalidInput, "duplicate hypothesis %q", h.Label)
		}
		seen[h.Label] = struct{}{}
		if h.Prior < 0 || h.Likelihood < 0 {
			return nil, xerrors.Derive(xerrors.ErrInvalidInput, "hypothesis %q has a negative probability", h.Label)
		}
		joint := h.Prior * h.Likelihood
		tbl.Rows[i] = BayesRow{Hypothesis: h, Joint: joint}
		tbl.Marginal += joint
	}

	if tbl.Marginal == 0 {
		return nil, xerrors.Derive(xerrors.ErrZeroMarginal, "%d hypotheses, all joint probabilities are zero", len(hypotheses))
	}
	for i := range tbl.Rows {
		tbl.Rows[i].Posterior = tbl.Rows[i].Joint / tbl.Marginal
	}
	return tbl, nil
}

// PredictiveValues 是诊断试验的阳性与阴性预测值。
type PredictiveValues struct {
	PPV float64 // P(患病 | 阳性)
	NPV float64 // P(未患病 | 阴性)
}

// NewPredictiveValues 由灵敏度 P(T+|D+)、特异度 P(T-|D-) 与患病率 P(D+) 计算预测值。
func NewPredictiveValues(sensitivity, specificity, prevalence float64) (PredictiveValues, error) {
	for _, p := range []float64{sensitivity, specificity, prevalence} {
		if !(p >= 0 && p <= 1) {
			return PredictiveValues{}, xerrors.Derive(xerrors.ErrInvalidParameter, "probability must be in [0, 1], got %v", p)
		}
	}

	ppv, err := WeightedPosterior(
		Weighted{P: sensitivity, Weight: prevalence},
		[]Weighted{{P: 1 - specificity, Weight: 1 - prevalence}},
	)
	if err != nil {
		return PredictiveValues{}, err
	}
	npv, err := WeightedPosterior(
		Weighted{P: specificity, Weight: 1 - prevalence},
		[]Weighted{{P: 1 - sensitivity, Weight: prevalence}},
	)
	if err != nil {
		return PredictiveValues{}, err
	}
	return PredictiveValues{PPV: ppv.Value, NPV: npv.Value}, nil
}
