package naivebayes

import (
	"github.com/wyfcoding/probkit/numeric"
	"github.com/wyfcoding/probkit/xerrors"
)

// DefaultPrecision 是后验概率展示值保留的小数位数。
const DefaultPrecision int32 = 4

// Entry 是单个类别的后验概率。
type Entry struct {
	Category    string
	Probability float64 // 精确值，全部条目之和为 1
	Rounded     float64 // 按精度舍入后的展示值
}

// Posterior 是一条查询在全部存活类别上的后验分布，顺序与类别顺序一致。
type Posterior []Entry

// Normalize 以联合概率之和（边缘概率）归一化各类别的联合概率。
// 边缘概率为零（包括没有任何类别）时返回 ErrZeroMarginal。
func Normalize(summaries []Summary, precision int32) (Posterior, error) {
	marginal := 0.0
	for _, s := range summaries {
		marginal += s.Joint
	}
	if marginal == 0 {
		return nil, xerrors.Derive(xerrors.ErrZeroMarginal, "%d categories, all joint probabilities are zero", len(summaries))
	}

	post := make(Posterior, len(summaries))
	for i, s := range summaries {
		p := s.Joint / marginal
		post[i] = Entry{Category: s.Category, Probability: p, Rounded: numeric.Round(p, precision)}
	}
	return post, nil
}

// Sum 返回精确后验概率之和。
func (p Posterior) Sum() float64 {
	sum := 0.0
	for _, e := range p {
		sum += e.Probability
	}
	return sum
}

// Get 返回指定类别的条目。
func (p Posterior) Get(category string) (Entry, bool) {
	for _, e := range p {
		if e.Category == category {
			return e, true
		}
	}
	return Entry{}, false
}

// Best 返回后验概率最大的条目，并列时取类别顺序中靠前者。
func (p Posterior) Best() (Entry, bool) {
	if len(p) == 0 {
		return Entry{}, false
	}
	best := p[0]
	for _, e := range p[1:] {
		if e.Probability > best.Probability {
			best = e
		}
	}
	return best, true
}
