// Package config 加载 cyclomatic 的运行配置。
//
// 优先级从低到高：内置默认值、.cyclomatic.yaml、CYCLOMATIC_* 环境变量、命令行参数。
// 命令行参数的覆盖由 cmd 包完成。
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"cyclomatic/internal/report"
)

// DefaultFileName 是默认配置文件名（不含后缀）。
const DefaultFileName = ".cyclomatic"

// Config 是全部可配置项。
type Config struct {
	Format    string `mapstructure:"format"`
	Output    string `mapstructure:"output"`
	Workers   int    `mapstructure:"workers"`
	Threshold int    `mapstructure:"threshold"`
	Cache     string `mapstructure:"cache"`
	LogLevel  string `mapstructure:"log_level"`
}

// Default 返回默认配置。
func Default() *Config {
	return &Config{
		Format:    report.FormatText,
		Workers:   runtime.NumCPU(),
		Threshold: 0,
		LogLevel:  "warn",
	}
}

// Load 读取配置。path 为空时在当前目录查找 .cyclomatic.yaml，找不到则使用默认值；
// path 非空时文件必须存在。
func Load(path string) (*Config, error) {
	defaults := Default()

	v := viper.New()
	v.SetDefault("format", defaults.Format)
	v.SetDefault("output", defaults.Output)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("threshold", defaults.Threshold)
	v.SetDefault("cache", defaults.Cache)
	v.SetDefault("log_level", defaults.LogLevel)

	v.SetEnvPrefix("CYCLOMATIC")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))

	return &cfg, nil
}

// Validate 检查 scan 命令用到的全部配置项。
func (c *Config) Validate() error {
	if !report.IsFormat(c.Format) {
		return fmt.Errorf("unsupported format %q, allowed values: %s", c.Format, strings.Join(report.Formats(), ", "))
	}
	if c.Workers <= 0 {
		return errors.New("workers must be greater than 0")
	}
	return c.ValidateAnalysis()
}

// ValidateAnalysis 只检查单文件分析用到的配置项：阈值和日志级别。
// format、workers 只对 scan 有意义，这里不检查。
func (c *Config) ValidateAnalysis() error {
	if c.Threshold < 0 {
		return errors.New("threshold must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}
