package enumerate

import (
	"github.com/expr-lang/expr"

	"github.com/wyfcoding/probkit/xerrors"
)

// CompileEvent 将布尔表达式编译为事件。表达式可以引用
// outcome（本次抽样序列，[]int）与 total（序列之和），例如：
//
//	total >= 7 && outcome[0] == 1
//	all(outcome, # > 1)
//
// 表达式在编译期做类型检查，结果必须为 bool。
// 运行期出错（如下标越界）时该序列视为不属于事件。
func CompileEvent(src string) (Event, error) {
	program, err := expr.Compile(src, expr.Env(eventEnv(nil, 0)), expr.AsBool())
	if err != nil {
		return nil, xerrors.DeriveWrap(xerrors.ErrInvalidInput, err, "compile event %q", src)
	}
	return func(outcome []int, total int) bool {
		out, err := expr.Run(program, eventEnv(outcome, total))
		if err != nil {
			return false
		}
		ok, _ := out.(bool)
		return ok
	}, nil
}

func eventEnv(outcome []int, total int) map[string]any {
	return map[string]any{
		"outcome": outcome,
		"total":   total,
	}
}
