// Package cmd 提供 cyclomatic 的命令行入口与子命令编排。
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cyclomatic/internal/config"
	"cyclomatic/internal/languages"
	"cyclomatic/internal/report"
	"cyclomatic/internal/scanner"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Execute 组装根命令并执行。
// version 参数由 main 包注入，便于在 CI/CD 中打包不同版本。
// 收到中断信号时取消 context，目录扫描会停止派发新任务。
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := languages.NewRegistry()
	rootCmd := newRootCmd(version, registry)
	return rootCmd.ExecuteContext(ctx)
}

// newRootCmd 创建根命令并注册全部子命令。
//
// 根命令本身只接受一个文件参数，逐行输出 "<name> (<complexity>)"。
// 缺少参数或文件不存在时只打印提示，不视为错误。
func newRootCmd(version string, registry *languages.Registry) *cobra.Command {
	globals := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "cyclomatic <file>",
		Short: "基于行扫描的圈复杂度估算工具",
		Long: "cyclomatic 逐行扫描 C 系源码，根据签名形状和花括号平衡识别函数，\n" +
			"统计 if/循环/case/?/&&/|| 等判定点，估算每个函数的圈复杂度。",
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), "usage: cyclomatic <file>")
				return err
			}

			// 先确认文件存在，配置错误不影响 "File not found" 提示。
			path := args[0]
			exists, _ := scanner.NewService(registry, 1).FileExists(cmd.Context(), path)
			if !exists {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "File not found: %s\n", path)
				return err
			}

			env, err := globals.load(cmd, (*config.Config).ValidateAnalysis)
			if err != nil {
				return err
			}
			defer env.close()

			service := env.service(registry, 1)
			env.logger.Debug("analyzing file", zap.String("path", path))
			functions, err := service.AnalyzeFile(cmd.Context(), path)
			if err != nil {
				return fmt.Errorf("analyze %s: %w", path, err)
			}
			return report.PrintFunctions(cmd.OutOrStdout(), report.Filter(functions, env.config.Threshold))
		},
	}

	globals.bind(rootCmd)

	rootCmd.AddCommand(newVersionCmd(version))
	rootCmd.AddCommand(newLanguageCmd(registry))
	rootCmd.AddCommand(newScanCmd(registry, globals))

	return rootCmd
}
