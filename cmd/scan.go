package cmd

import (
	"fmt"
	"strings"

	"cyclomatic/internal/config"
	"cyclomatic/internal/languages"
	"cyclomatic/internal/report"

	"github.com/spf13/cobra"
)

// scanOptions 存放 scan 命令的可配置参数。
// 只有显式传入的参数才会覆盖配置文件中的值。
type scanOptions struct {
	format    string
	output    string
	workers   int
	threshold int
	cache     string
}

// newScanCmd 创建 scan 子命令。
// 示例：
//
//	cyclomatic scan .
//	cyclomatic scan ./project --format json --output result.json.gz
//	cyclomatic scan ./src --threshold 10 --cache .cyclomatic/cache.db
func newScanCmd(registry *languages.Registry, globals *globalOptions) *cobra.Command {
	defaults := config.Default()
	options := scanOptions{
		format:    defaults.Format,
		workers:   defaults.Workers,
		threshold: defaults.Threshold,
	}

	scanCmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "扫描目录或文件并输出每个函数的圈复杂度",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := globals.load(cmd, (*config.Config).Validate, func(cfg *config.Config) {
				flags := cmd.Flags()
				if flags.Changed("format") {
					cfg.Format = strings.ToLower(strings.TrimSpace(options.format))
				}
				if flags.Changed("output") {
					cfg.Output = options.output
				}
				if flags.Changed("workers") {
					cfg.Workers = options.workers
				}
				if flags.Changed("threshold") {
					cfg.Threshold = options.threshold
				}
				if flags.Changed("cache") {
					cfg.Cache = options.cache
				}
			})
			if err != nil {
				return err
			}
			defer env.close()

			cfg := env.config
			service := env.service(registry, cfg.Workers)
			result, err := service.ScanPath(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch cfg.Format {
			case report.FormatText:
				return report.PrintText(out, result, cfg.Threshold)
			case report.FormatTable:
				return report.PrintTable(out, result, cfg.Threshold)
			case report.FormatJSON, report.FormatYAML:
				filtered := report.ApplyThreshold(result, cfg.Threshold)
				if cfg.Format == report.FormatJSON {
					err = report.PrintJSON(out, filtered)
				} else {
					err = report.PrintYAML(out, filtered)
				}
				if err != nil {
					return err
				}

				outputPath := strings.TrimSpace(cfg.Output)
				if outputPath == "" {
					return nil
				}
				if err := report.WriteFile(outputPath, cfg.Format, filtered); err != nil {
					return err
				}

				_, _ = fmt.Fprintf(out, "\n%s exported to %s\n", strings.ToUpper(cfg.Format), outputPath)
				return nil
			default:
				return fmt.Errorf("unsupported format: %s", cfg.Format)
			}
		},
	}

	scanCmd.Flags().StringVar(&options.format, "format", options.format, "输出格式: text, table, json 或 yaml")
	scanCmd.Flags().StringVar(&options.output, "output", options.output, "json/yaml 导出文件路径，以 .gz 结尾时压缩")
	scanCmd.Flags().IntVar(&options.workers, "workers", options.workers, "并发 worker 数量")
	scanCmd.Flags().IntVar(&options.threshold, "threshold", options.threshold, "只输出复杂度不低于该值的函数，0 表示全部")
	scanCmd.Flags().StringVar(&options.cache, "cache", options.cache, "SQLite 结果缓存路径，为空时不启用")

	return scanCmd
}
