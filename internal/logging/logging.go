// Package logging 构建 cyclomatic 使用的 zap 日志记录器。
// 日志只写 stderr，stdout 留给分析结果。
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New 按 level 创建日志记录器。
func New(level string) (*zap.Logger, error) {
	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	cfgZap := zap.NewProductionConfig()
	cfgZap.Level = zap.NewAtomicLevelAt(parsed)
	cfgZap.Encoding = "console"
	cfgZap.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfgZap.OutputPaths = []string{"stderr"}
	cfgZap.ErrorOutputPaths = []string{"stderr"}
	cfgZap.DisableStacktrace = true

	return cfgZap.Build()
}
