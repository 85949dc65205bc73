// Package report 提供 cyclomatic 的输出能力。
// 支持 text、table 控制台格式，以及 JSON/YAML 格式（含文件导出）。
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"cyclomatic/internal/model"
)

// 支持的输出格式。
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats 返回全部支持的输出格式。
func Formats() []string {
	return []string{FormatText, FormatTable, FormatJSON, FormatYAML}
}

// IsFormat 判断 format 是否受支持。
func IsFormat(format string) bool {
	for _, item := range Formats() {
		if item == format {
			return true
		}
	}
	return false
}

// Filter 保留复杂度不低于 threshold 的函数，threshold <= 0 时原样返回。
func Filter(functions []model.FunctionMetrics, threshold int) []model.FunctionMetrics {
	if threshold <= 0 {
		return functions
	}
	result := make([]model.FunctionMetrics, 0, len(functions))
	for _, fn := range functions {
		if fn.Complexity >= threshold {
			result = append(result, fn)
		}
	}
	return result
}

// PrintFunctions 按 "<name> (<complexity>)" 每行输出一个函数。
func PrintFunctions(writer io.Writer, functions []model.FunctionMetrics) error {
	for _, fn := range functions {
		if _, err := fmt.Fprintf(writer, "%s (%d)\n", fn.Name, fn.Complexity); err != nil {
			return err
		}
	}
	return nil
}

// PrintText 按文件分组输出函数列表。
func PrintText(writer io.Writer, result model.ScanResult, threshold int) error {
	for _, file := range result.Files {
		functions := Filter(file.Functions, threshold)
		if len(functions) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(writer, "%s:\n", file.Path); err != nil {
			return err
		}
		if err := PrintFunctions(writer, functions); err != nil {
			return err
		}
	}

	for _, item := range result.Errors {
		if _, err := fmt.Fprintf(writer, "error: %s: %s\n", item.Path, item.Error); err != nil {
			return err
		}
	}
	return nil
}

// PrintTable 使用表格展示扫描结果。
func PrintTable(writer io.Writer, result model.ScanResult, threshold int) error {
	tw := tabwriter.NewWriter(writer, 0, 4, 2, ' ', 0)

	if _, err := fmt.Fprintf(tw, "SCANNED PATH\t%s\n\n", result.ScannedPath); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(tw, "FILE\tLANGUAGE\tFUNCTION\tCOMPLEXITY"); err != nil {
		return err
	}
	for _, file := range result.Files {
		for _, fn := range Filter(file.Functions, threshold) {
			if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", file.Path, file.Language, fn.Name, fn.Complexity); err != nil {
				return err
			}
		}
	}

	if _, err := fmt.Fprintln(tw, "\nLANGUAGE\tFILES\tFUNCTIONS\tCOMPLEXITY\tAVERAGE\tMAX"); err != nil {
		return err
	}
	for _, item := range result.Languages {
		if _, err := fmt.Fprintf(
			tw,
			"%s\t%d\t%d\t%d\t%.2f\t%d\n",
			item.Language,
			item.Files,
			item.Stats.Functions,
			item.Stats.Complexity,
			item.Stats.Average(),
			item.Stats.Max,
		); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(
		tw,
		"\nTOTAL\t%d\t%d\t%d\t%.2f\t%d\n",
		result.Total.Files,
		result.Total.Functions,
		result.Total.Complexity,
		result.Total.Average(),
		result.Total.Max,
	); err != nil {
		return err
	}

	if len(result.Errors) > 0 {
		if _, err := fmt.Fprintln(tw, "\nERROR FILE\tMESSAGE"); err != nil {
			return err
		}
		for _, item := range result.Errors {
			if _, err := fmt.Fprintf(tw, "%s\t%s\n", item.Path, item.Error); err != nil {
				return err
			}
		}
	}

	return tw.Flush()
}

// PrintJSON 把扫描结果按易读 JSON 输出到任意 writer。
func PrintJSON(writer io.Writer, result model.ScanResult) error {
	content, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := writer.Write(content); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// PrintYAML 把扫描结果按 YAML 输出到任意 writer。
func PrintYAML(writer io.Writer, result model.ScanResult) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("write yaml: %w", err)
	}
	return encoder.Close()
}

// ApplyThreshold 返回只保留复杂度不低于阈值函数的结果副本，汇总信息保持不变。
func ApplyThreshold(result model.ScanResult, threshold int) model.ScanResult {
	if threshold <= 0 {
		return result
	}
	files := make([]model.FileReport, 0, len(result.Files))
	for _, file := range result.Files {
		file.Functions = Filter(file.Functions, threshold)
		files = append(files, file)
	}
	result.Files = files
	return result
}

// WriteFile 将结果按 format 导出到指定路径。
// 目录不存在会自动创建，路径以 .gz 结尾时使用 gzip 压缩。
func WriteFile(path string, format string, result model.ScanResult) (err error) {
	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close output file: %w", closeErr)
		}
	}()

	var writer io.Writer = file
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		compressor := gzip.NewWriter(file)
		defer func() {
			if closeErr := compressor.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("compress output file: %w", closeErr)
			}
		}()
		writer = compressor
	}

	switch format {
	case FormatJSON:
		return PrintJSON(writer, result)
	case FormatYAML:
		return PrintYAML(writer, result)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}
