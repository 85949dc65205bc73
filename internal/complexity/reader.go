package complexity

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

const utf8BOM = "\ufeff"

// normalizeLine 去除行尾的换行符，兼容 \r\n 与 \n。
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}

// ReadLines 把 reader 的内容按行切分。
//
// 约束说明：
// - \n、\r\n 和单独的 \r 都视为行结束
// - 以换行结尾的输入不会多出一个空行
// - 空输入返回空切片
// - 第一行开头的 UTF-8 BOM 会被去掉
func ReadLines(reader io.Reader) ([]string, error) {
	lines := make([]string, 0)
	bufferedReader := bufio.NewReader(reader)

	for {
		line, err := bufferedReader.ReadString('\n')
		// 没有残留字符的 EOF 说明读取完成。
		if errors.Is(err, io.EOF) && len(line) == 0 {
			break
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return lines, err
		}

		if len(lines) == 0 {
			line = strings.TrimPrefix(line, utf8BOM)
			if line == "" {
				break
			}
		}
		lines = append(lines, splitCarriageReturns(normalizeLine(line))...)

		if errors.Is(err, io.EOF) {
			break
		}
	}

	return lines, nil
}

// ReadLinesBytes 是 ReadLines 的内存版本。
func ReadLinesBytes(content []byte) []string {
	// bytes.Reader 不会返回非 EOF 错误。
	lines, _ := ReadLines(bytes.NewReader(content))
	return lines
}

// splitCarriageReturns 处理旧式 Mac 换行（单独的 \r）。
func splitCarriageReturns(line string) []string {
	if !strings.Contains(line, "\r") {
		return []string{line}
	}
	return strings.Split(line, "\r")
}
