package complexity

import (
	"regexp"
	"strings"
)

// 只读的预编译模式，进程级共享，regexp.Regexp 可并发使用。
var (
	signaturePattern = regexp.MustCompile(`^\s*(?:public|private|protected|internal|static|\s)*[\w<>\[\]]+\s+(\w+)\s*\([^)]*\)\s*$`)

	ifPattern      = regexp.MustCompile(`\bif\s*\(`)
	elseIfPattern  = regexp.MustCompile(`\belse\s+if\s*\(`)
	loopPattern    = regexp.MustCompile(`\b(?:for|while|do)\s*\(`)
	casePattern    = regexp.MustCompile(`\bcase\b`)
	logicalPattern = regexp.MustCompile(`&&|\|\|`)
)

const lineCommentMarker = "//"

// stripLineComment 去掉第一个 // 及其之后的内容。
// 块注释不做识别，/* */ 中的内容按普通代码处理。
func stripLineComment(line string) string {
	if idx := strings.Index(line, lineCommentMarker); idx >= 0 {
		return line[:idx]
	}
	return line
}

// matchSignature 判断一行是否为函数签名，返回函数名。
// 行尾在右括号之后只能是空白，所以 "void f() {" 这种同行花括号写法永远不会命中。
func matchSignature(line string) (string, bool) {
	match := signaturePattern.FindStringSubmatch(line)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// braceDelta 返回一行中 '{' 与 '}' 的数量。
func braceDelta(line string) (open int, closed int) {
	return strings.Count(line, "{"), strings.Count(line, "}")
}

func countMatches(pattern *regexp.Regexp, line string) int {
	return len(pattern.FindAllStringIndex(line, -1))
}

// countDecisions 统计一行中的判定点数量。
//
// else if 与 if 分两项累加：E + (I - E)，I 本身已经包含 else if，
// 所以净效果等于每个 "if (" 计 1。
func countDecisions(line string) int {
	decisions := 0

	elseIfs := countMatches(elseIfPattern, line)
	decisions += elseIfs
	decisions += countMatches(ifPattern, line) - elseIfs

	decisions += countMatches(loopPattern, line)
	decisions += countMatches(casePattern, line)
	decisions += strings.Count(line, "?")
	decisions += countMatches(logicalPattern, line)

	return decisions
}
