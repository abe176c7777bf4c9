package xerrors

var (
	// ErrInvalidInput 数值工具收到非数值或结构错误（空元组、不等长元组）的输入。
	ErrInvalidInput = New(ErrInvalidArg, 400001, "invalid input", "check your input values", nil)
	// ErrMalformedInput 数据文件缺少计数列/目标列，或计数不是非负整数。
	ErrMalformedInput = New(ErrInvalidArg, 400002, "malformed input", "dataset does not satisfy the column schema", nil)
	// ErrInvalidParameter 分布或先验参数超出定义域。
	ErrInvalidParameter = New(ErrInvalidArg, 400003, "invalid parameter", "parameter outside of its domain", nil)
	// ErrEmptyTrainingSet 没有任何带标签的训练行。
	ErrEmptyTrainingSet = New(ErrNotFound, 404001, "empty training set", "no row has a non-empty target value", nil)
	// ErrEmptyCategory 类别的训练支持数为零，条件概率无定义。
	ErrEmptyCategory = New(ErrUndefined, 422001, "empty category", "category has zero training support", nil)
	// ErrZeroMarginal 所有类别的联合概率均为零，后验无定义。
	ErrZeroMarginal = New(ErrUndefined, 422002, "zero marginal", "every joint probability is zero", nil)
	// ErrImpossibleEvent 事件概率为零，条件期望无定义。
	ErrImpossibleEvent = New(ErrUndefined, 422003, "impossible event", "event has zero probability", nil)
	// ErrNoConvergence 迭代在步数上限内未达到目标。
	ErrNoConvergence = New(ErrInternal, 500001, "no convergence", "iteration did not reach the cutoff", nil)
)
