// Package enumerate 通过穷举所有重复抽样序列来计算事件概率及条件期望。
package enumerate

import (
	"cmp"
	"math"
	"slices"

	"github.com/wyfcoding/probkit/numeric"
	"github.com/wyfcoding/probkit/xerrors"
)

// MaxOutcomes 是允许穷举的序列数上限。
const MaxOutcomes = 1 << 22

// groupDigits 是分组展示时概率保留的小数位数。
const groupDigits int32 = 8

// Event 判断一个抽样序列是否属于事件，total 为序列各值之和。
type Event func(outcome []int, total int) bool

// AtLeast 返回“序列之和不小于 cutoff”的事件。
func AtLeast(cutoff int) Event {
	return func(_ []int, total int) bool {
		return total >= cutoff
	}
}

// Group 汇总总和相同、概率相同的序列。
type Group struct {
	Total       int
	Probability float64 // 单个序列的概率，保留 8 位小数
	Count       int
}

// Result 是一次穷举的结果。
type Result struct {
	Probability float64 // P(event)
	Expectation float64 // E[total | event]
	Outcomes    int     // 属于事件的序列数
	Groups      []Group // 按总和、概率降序排列
}

// Enumerate 对 pmf 描述的离散变量重复抽样 trials 次，穷举全部序列，
// 累加属于事件的序列概率，并计算 E[total | event] = E[total · 1{event}] / P(event)。
// 事件概率为零时返回 ErrImpossibleEvent。
func Enumerate(pmf map[int]float64, trials int, event Event) (*Result, error) {
	if len(pmf) == 0 {
		return nil, xerrors.Derive(xerrors.ErrInvalidInput, "empty probability map")
	}
	if trials < 1 {
		return nil, xerrors.Derive(xerrors.ErrInvalidParameter, "trials must be positive, got %d", trials)
	}
	if event == nil {
		return nil, xerrors.Derive(xerrors.ErrInvalidInput, "no event")
	}

	values := make([]int, 0, len(pmf))
	for v, p := range pmf {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, xerrors.Derive(xerrors.ErrInvalidInput, "probability of %d is %v", v, p)
		}
		values = append(values, v)
	}
	slices.Sort(values)

	space := 1
	for range trials {
		space *= len(values)
		if space > MaxOutcomes {
			return nil, xerrors.Derive(xerrors.ErrInvalidInput,
				"%d values over %d trials exceed %d outcomes", len(values), trials, MaxOutcomes)
		}
	}

	type key struct {
		total int
		p     float64
	}
	counts := make(map[key]int)
	res := &Result{}
	weighted := 0.0

	// 里程表式遍历笛卡尔积：idx 从最后一位开始进位。
	idx := make([]int, trials)
	outcome := make([]int, trials)
	for {
		total := 0
		p := 1.0
		for i, j := range idx {
			outcome[i] = values[j]
			total += values[j]
			p *= pmf[values[j]]
		}
		if event(outcome, total) {
			res.Probability += p
			weighted += float64(total) * p
			res.Outcomes++
			counts[key{total, numeric.Round(p, groupDigits)}]++
		}

		i := trials - 1
		for ; i >= 0; i-- {
			idx[i]++
			if idx[i] < len(values) {
				break
			}
			idx[i] = 0
		}
		if i < 0 {
			break
		}
	}

	if res.Probability == 0 {
		return nil, xerrors.Derive(xerrors.ErrImpossibleEvent, "%d matching outcomes, total probability zero", res.Outcomes)
	}
	res.Expectation = weighted / res.Probability

	res.Groups = make([]Group, 0, len(counts))
	for k, n := range counts {
		res.Groups = append(res.Groups, Group{Total: k.total, Probability: k.p, Count: n})
	}
	slices.SortFunc(res.Groups, func(a, b Group) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(b.Probability, a.Probability)
	})
	return res, nil
}
