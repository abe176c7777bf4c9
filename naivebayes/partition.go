// Package naivebayes 实现了基于分类型表格数据的朴素贝叶斯后验计算。
//
// 数据集中每一行是一个“行模板”：计数列 n 表示该模板代表的真实观测数，
// 目标列非空的行为训练证据，目标列为空的行为待分类的查询。
// 对每个查询与每个候选类别，按条件独立假设计算
//
//	P(类别 | x1, ..., xn) ∝ P(x1|类别) · ... · P(xn|类别) · P(类别)
//
// 再以所有类别联合概率之和归一化得到后验分布。
package naivebayes

import (
	"strconv"

	"github.com/wyfcoding/probkit/dataset"
	"github.com/wyfcoding/probkit/xerrors"
)

// DefaultCountColumn 是计数列的默认列名。
const DefaultCountColumn = "n"

// Schema 显式声明计数列与目标列。
type Schema struct {
	TargetColumn string
	CountColumn  string // 为空时使用 DefaultCountColumn
	// Positional 为 true 时沿用“最后两列依次为计数列与目标列”的约定：
	// 查询特征为去掉末尾两个字段后的全部字段。为 false 时按列名排除计数列与目标列。
	Positional bool
}

func (s Schema) countColumn() string {
	if s.CountColumn == "" {
		return DefaultCountColumn
	}
	return s.CountColumn
}

// Observation 是一条训练证据。
type Observation struct {
	Row   dataset.Row
	Label string
	Count int64
}

// TrainingSet 是全部目标列非空的行，构建后只读。
type TrainingSet []Observation

// Query 是一条待分类的查询行。
type Query struct {
	Index    int // 在全部查询中的序号（文件顺序）
	Row      int // 在输入行中的位置
	Features []dataset.Field
}

// Partition 是一次分类运行的输入划分结果。
type Partition struct {
	Training TrainingSet
	Queries  []Query
	// Categories 按在训练行中首次出现的顺序排列，保证同一输入下的输出顺序稳定。
	Categories []string
}

// Split 将行划分为训练集、查询集与类别集合。
// 缺少计数列/目标列、计数不是非负整数或位置约定不满足时返回 ErrMalformedInput；
// 没有任何训练行时返回 ErrEmptyTrainingSet。
func Split(rows []dataset.Row, schema Schema) (*Partition, error) {
	target := schema.TargetColumn
	count := schema.countColumn()
	if target == "" {
		return nil, xerrors.Derive(xerrors.ErrMalformedInput, "target column is not configured")
	}
	if target == count {
		return nil, xerrors.Derive(xerrors.ErrMalformedInput, "target and count column are both %q", target)
	}

	p := &Partition{}
	seen := make(map[string]struct{})

	for i, row := range rows {
		label, ok := row.Get(target)
		if !ok {
			return nil, xerrors.Derive(xerrors.ErrMalformedInput, "row %d has no %q column", i+1, target)
		}
		if _, ok := row.Get(count); !ok {
			return nil, xerrors.Derive(xerrors.ErrMalformedInput, "row %d has no %q column", i+1, count)
		}
		if schema.Positional {
			if err := checkTrailing(row, i, count, target); err != nil {
				return nil, err
			}
		}

		if label == "" {
			p.Queries = append(p.Queries, Query{
				Index:    len(p.Queries),
				Row:      i,
				Features: features(row, schema, count),
			})
			continue
		}

		raw, _ := row.Get(count)
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			return nil, xerrors.DeriveWrap(xerrors.ErrMalformedInput, err,
				"row %d: count %q is not a non-negative integer", i+1, raw)
		}
		p.Training = append(p.Training, Observation{Row: row, Label: label, Count: n})
		if _, dup := seen[label]; !dup {
			seen[label] = struct{}{}
			p.Categories = append(p.Categories, label)
		}
	}

	if len(p.Training) == 0 {
		return nil, xerrors.Derive(xerrors.ErrEmptyTrainingSet, "%d rows, none labeled in %q", len(rows), target)
	}
	return p, nil
}

func checkTrailing(row dataset.Row, i int, count, target string) error {
	if len(row) < 2 || row[len(row)-2].Column != count || row[len(row)-1].Column != target {
		return xerrors.Derive(xerrors.ErrMalformedInput,
			"row %d: last two columns must be %q and %q", i+1, count, target)
	}
	return nil
}

func features(row dataset.Row, schema Schema, count string) []dataset.Field {
	if schema.Positional {
		out := make([]dataset.Field, len(row)-2)
		copy(out, row[:len(row)-2])
		return out
	}
	out := make([]dataset.Field, 0, len(row))
	for _, f := range row {
		if f.Column == count || f.Column == schema.TargetColumn {
			continue
		}
		out = append(out, f)
	}
	return out
}
