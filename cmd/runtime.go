package cmd

import (
	"strings"

	"cyclomatic/internal/cache"
	"cyclomatic/internal/config"
	"cyclomatic/internal/languages"
	"cyclomatic/internal/logging"
	"cyclomatic/internal/scanner"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// globalOptions 存放所有命令共享的持久参数。
type globalOptions struct {
	configPath string
	logLevel   string
}

// bind 把持久参数注册到根命令。
func (o *globalOptions) bind(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVar(&o.configPath, "config", "", "配置文件路径，默认读取当前目录的 .cyclomatic.yaml")
	rootCmd.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "日志级别: debug, info, warn, error")
}

// environment 是一次命令执行所需的配置、日志和缓存。
type environment struct {
	config *config.Config
	logger *zap.Logger
	store  *cache.Store
}

// load 读取配置并按命令行参数覆盖，用 validate 校验后创建日志和缓存。
// 缓存打不开时只记录警告，继续无缓存运行。
func (o *globalOptions) load(
	cmd *cobra.Command,
	validate func(*config.Config) error,
	overrides ...func(*config.Config),
) (*environment, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(o.logLevel))
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	env := &environment{config: cfg, logger: logger}
	if cachePath := strings.TrimSpace(cfg.Cache); cachePath != "" {
		store, openErr := cache.Open(cachePath)
		if openErr != nil {
			logger.Warn("result cache disabled", zap.String("path", cachePath), zap.Error(openErr))
		} else {
			env.store = store
		}
	}
	return env, nil
}

// service 创建绑定了日志和缓存的扫描服务。
func (e *environment) service(registry *languages.Registry, workers int) *scanner.Service {
	options := []scanner.Option{scanner.WithLogger(e.logger)}
	if e.store != nil {
		options = append(options, scanner.WithCache(e.store))
	}
	return scanner.NewService(registry, workers, options...)
}

// close 释放缓存连接并刷新日志。
func (e *environment) close() {
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			e.logger.Warn("close result cache", zap.String("path", e.store.Path()), zap.Error(err))
		}
	}
	_ = e.logger.Sync()
}
