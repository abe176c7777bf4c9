// Package numeric 提供概率计算共用的数值工具：连乘、乘积求和、嵌套舍入与展示格式化。
// 舍入基于 shopspring/decimal，避免二进制浮点在小数位边界上的舍入偏差。
package numeric

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/probkit/xerrors"
)

// Product 返回所有数值的连乘积，空输入返回 1。
func Product(values ...float64) float64 {
	result := 1.0
	for _, v := range values {
		result *= v
	}
	return result
}

// ProductThenSum 对每个元组求积后求和。
// squareFirst 为 true 时，每个元组的第一个元素先平方（用于 E[X²] 一类的聚合）。
// 空元组、与首个元组长度不一致的元组或 NaN 元素均返回 ErrInvalidInput。
func ProductThenSum(tuples [][]float64, squareFirst bool) (float64, error) {
	if len(tuples) == 0 {
		return 0, nil
	}
	width := len(tuples[0])
	sum := 0.0
	for i, tp := range tuples {
		if len(tp) == 0 {
			return 0, xerrors.Derive(xerrors.ErrInvalidInput, "tuple %d is empty", i)
		}
		if len(tp) != width {
			return 0, xerrors.Derive(xerrors.ErrInvalidInput, "tuple %d has %d elements, want %d", i, len(tp), width)
		}
		prod := 1.0
		for j, v := range tp {
			if math.IsNaN(v) {
				return 0, xerrors.Derive(xerrors.ErrInvalidInput, "tuple %d element %d is NaN", i, j)
			}
			if j == 0 && squareFirst {
				v *= v
			}
			prod *= v
		}
		sum += prod
	}
	return sum, nil
}

// Round 将 x 四舍五入（远离零）到 digits 位小数。
// NaN 与 ±Inf 原样返回。
func Round(x float64, digits int32) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	f, _ := decimal.NewFromFloat(x).Round(digits).Float64()
	return f
}

// RoundNested 对单个数值或任意嵌套的数值序列逐元素舍入，并保持原有形状。
// 支持 float64、float32、int、int64、[]float64、[][]float64 与 []any。
// [][]float64 的每一行以及 []any 中的 []float64 成员都视为元组：
// 元组为空或与同层第一个元组不等长时返回 ErrInvalidInput，其他类型同样返回 ErrInvalidInput。
func RoundNested(v any, digits int32) (any, error) {
	switch x := v.(type) {
	case float64:
		return Round(x, digits), nil
	case float32:
		return Round(float64(x), digits), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case []float64:
		return roundValues(x, digits), nil
	case [][]float64:
		out := make([][]float64, len(x))
		for i, tp := range x {
			if err := checkTuple(tp, len(x[0]), i); err != nil {
				return nil, err
			}
			out[i] = roundValues(tp, digits)
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		width := -1
		for i, item := range x {
			if tp, ok := item.([]float64); ok {
				if width < 0 {
					width = len(tp)
				}
				if err := checkTuple(tp, width, i); err != nil {
					return nil, err
				}
			}
			r, err := RoundNested(item, digits)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	default:
		return nil, xerrors.Derive(xerrors.ErrInvalidInput, "unsupported value of type %T", v)
	}
}

func checkTuple(tp []float64, width, i int) error {
	if len(tp) == 0 {
		return xerrors.Derive(xerrors.ErrInvalidInput, "empty tuple at %d", i)
	}
	if len(tp) != width {
		return xerrors.Derive(xerrors.ErrInvalidInput, "ragged tuple at %d: %d values, want %d", i, len(tp), width)
	}
	return nil
}

func roundValues(values []float64, digits int32) []float64 {
	out := make([]float64, len(values))
	for i, f := range values {
		out[i] = Round(f, digits)
	}
	return out
}

// FormatValues 将数值舍入后以 sep 连接，例如 "0.2 + 0.35"。
func FormatValues(values []float64, sep string, digits int32) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Format(v, digits)
	}
	return strings.Join(parts, " "+sep+" ")
}

// FormatTuples 将元组列表渲染为 "(a * b) + (c * d)" 形式的算式，仅用于展示。
func FormatTuples(tuples [][]float64, within, between string, digits int32) string {
	parts := make([]string, len(tuples))
	for i, tp := range tuples {
		parts[i] = "(" + FormatValues(tp, within, digits) + ")"
	}
	return strings.Join(parts, " "+between+" ")
}

// Format 将单个数值舍入到 digits 位小数并去掉多余的零。
func Format(v float64, digits int32) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nonFinite(v)
	}
	return decimal.NewFromFloat(v).Round(digits).String()
}

func nonFinite(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	default:
		return "-Inf"
	}
}
