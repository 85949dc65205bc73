// Package complexity 实现基于行扫描的圈复杂度估算。
//
// 分析器不是语法解析器：它根据签名形状和花括号平衡识别函数边界，
// 再按词法规则统计函数体内的判定点。同一时刻只跟踪一个函数。
package complexity

import (
	"iter"
	"slices"

	"cyclomatic/internal/model"
)

// scanState 是扫描状态机的状态。
// 只有 searching、awaitingBrace、inBody 三种实现，
// 每个状态最多持有一个正在统计的函数。
type scanState interface {
	// step 处理一行已去注释的文本，返回下一个状态；
	// 函数体闭合时同时返回产出的记录。
	step(line string) (scanState, *model.FunctionMetrics)
}

// searching 表示当前没有跟踪中的函数。
type searching struct{}

// awaitingBrace 表示签名已识别，尚未遇到左花括号。
type awaitingBrace struct {
	record model.FunctionMetrics
}

// inBody 表示正在函数体内，depth 为未匹配的左花括号数量。
type inBody struct {
	record model.FunctionMetrics
	depth  int
}

func (searching) step(line string) (scanState, *model.FunctionMetrics) {
	name, ok := matchSignature(line)
	if !ok {
		return searching{}, nil
	}
	// 签名行本身也要交给 awaitingBrace 处理一次。
	next := awaitingBrace{record: model.FunctionMetrics{Name: name, Complexity: 1}}
	return next.step(line)
}

func (s awaitingBrace) step(line string) (scanState, *model.FunctionMetrics) {
	open, closed := braceDelta(line)
	if open == 0 {
		return s, nil
	}

	record := s.record
	record.Complexity += countDecisions(line)
	return settle(record, open-closed)
}

func (s inBody) step(line string) (scanState, *model.FunctionMetrics) {
	open, closed := braceDelta(line)

	record := s.record
	record.Complexity += countDecisions(line)
	return settle(record, s.depth+open-closed)
}

// settle 在深度回到 0 时产出记录并回到 searching。
// 深度为负时函数保持打开，不做校验。
func settle(record model.FunctionMetrics, depth int) (scanState, *model.FunctionMetrics) {
	if depth == 0 {
		return searching{}, &record
	}
	return inBody{record: record, depth: depth}, nil
}

// Functions 惰性地扫描 lines，按函数闭合顺序逐个产出结果。
// 输入不合法时只会得到不完整的结果，不会报错。
func Functions(lines iter.Seq[string]) iter.Seq[model.FunctionMetrics] {
	return func(yield func(model.FunctionMetrics) bool) {
		var state scanState = searching{}
		for raw := range lines {
			next, emitted := state.step(stripLineComment(raw))
			state = next
			if emitted != nil && !yield(*emitted) {
				return
			}
		}
	}
}

// Analyze 扫描全部行并返回识别出的函数列表。
func Analyze(lines []string) []model.FunctionMetrics {
	result := make([]model.FunctionMetrics, 0)
	for fn := range Functions(slices.Values(lines)) {
		result = append(result, fn)
	}
	return result
}
