package report

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"gopkg.in/yaml.v3"

	"cyclomatic/internal/model"
)

func sampleResult() model.ScanResult {
	files := []model.FileReport{
		{
			Path:     "a.c",
			Language: "C",
			Functions: []model.FunctionMetrics{
				{Name: "Foo", Complexity: 2},
				{Name: "Bar", Complexity: 7},
			},
		},
		{
			Path:      "b.c",
			Language:  "C",
			Functions: []model.FunctionMetrics{{Name: "Baz", Complexity: 1}},
		},
	}
	result := model.ScanResult{
		ScanID:      "scan-1",
		ScannedPath: "/repo",
		Files:       files,
		Errors:      []model.ScanError{{Path: "c.c", Error: "permission denied"}},
	}
	summary := model.LanguageSummary{Language: "C", Extensions: []string{".c", ".h"}}
	for i := range result.Files {
		result.Files[i].Stats = model.StatsFor(result.Files[i].Functions)
		result.Total.AddFileStats(result.Files[i].Stats)
		summary.Files++
		summary.Stats.Add(result.Files[i].Stats)
	}
	result.Languages = []model.LanguageSummary{summary}
	return result
}

// TestPrintFunctions 验证标准输出格式 "<name> (<complexity>)"。
func TestPrintFunctions(t *testing.T) {
	var buffer bytes.Buffer
	err := PrintFunctions(&buffer, []model.FunctionMetrics{{Name: "Foo", Complexity: 2}, {Name: "Bar", Complexity: 1}})
	if err != nil {
		t.Fatalf("print functions failed: %v", err)
	}
	if buffer.String() != "Foo (2)\nBar (1)\n" {
		t.Fatalf("unexpected output: %q", buffer.String())
	}
}

// TestPrintTextThreshold 验证阈值过滤后空文件不输出。
func TestPrintTextThreshold(t *testing.T) {
	var buffer bytes.Buffer
	if err := PrintText(&buffer, sampleResult(), 5); err != nil {
		t.Fatalf("print text failed: %v", err)
	}
	expected := "a.c:\nBar (7)\nerror: c.c: permission denied\n"
	if buffer.String() != expected {
		t.Fatalf("unexpected output: %q", buffer.String())
	}
}

// TestPrintTable 验证表格包含函数、汇总和错误。
func TestPrintTable(t *testing.T) {
	var buffer bytes.Buffer
	if err := PrintTable(&buffer, sampleResult(), 0); err != nil {
		t.Fatalf("print table failed: %v", err)
	}

	output := buffer.String()
	for _, fragment := range []string{"SCANNED PATH", "/repo", "Bar", "3.33", "TOTAL", "ERROR FILE", "permission denied"} {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, output)
		}
	}
}

// TestPrintJSON 验证 JSON 字段名。
func TestPrintJSON(t *testing.T) {
	var buffer bytes.Buffer
	if err := PrintJSON(&buffer, sampleResult()); err != nil {
		t.Fatalf("print json failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buffer.Bytes(), &decoded); err != nil {
		t.Fatalf("decode json failed: %v", err)
	}
	total := decoded["total"].(map[string]any)
	if total["files"].(float64) != 2 || total["functions"].(float64) != 3 || total["max"].(float64) != 7 {
		t.Fatalf("unexpected total: %v", total)
	}
}

// TestPrintYAML 验证 YAML 输出中 total 被展开。
func TestPrintYAML(t *testing.T) {
	var buffer bytes.Buffer
	if err := PrintYAML(&buffer, sampleResult()); err != nil {
		t.Fatalf("print yaml failed: %v", err)
	}

	var decoded struct {
		ScanID string `yaml:"scan_id"`
		Total  struct {
			Files      int64 `yaml:"files"`
			Complexity int64 `yaml:"complexity"`
		} `yaml:"total"`
	}
	if err := yaml.Unmarshal(buffer.Bytes(), &decoded); err != nil {
		t.Fatalf("decode yaml failed: %v", err)
	}
	if decoded.ScanID != "scan-1" || decoded.Total.Files != 2 || decoded.Total.Complexity != 10 {
		t.Fatalf("unexpected yaml: %+v", decoded)
	}
}

// TestWriteFileGzip 验证 .gz 后缀导出会压缩。
func TestWriteFileGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.json.gz")
	if err := WriteFile(path, FormatJSON, sampleResult()); err != nil {
		t.Fatalf("write file failed: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open export failed: %v", err)
	}
	defer file.Close()

	reader, err := gzip.NewReader(file)
	if err != nil {
		t.Fatalf("open gzip failed: %v", err)
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		t.Fatalf("read gzip failed: %v", err)
	}

	var decoded model.ScanResult
	if err := json.Unmarshal(content, &decoded); err != nil {
		t.Fatalf("decode export failed: %v", err)
	}
	if decoded.ScanID != "scan-1" || len(decoded.Files) != 2 {
		t.Fatalf("unexpected export: %+v", decoded)
	}
}

// TestWriteFileRejectsConsoleFormats 验证 text/table 不能导出到文件。
func TestWriteFileRejectsConsoleFormats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.txt")
	if err := WriteFile(path, FormatTable, sampleResult()); err == nil {
		t.Fatalf("expected error for table export")
	}
}

// TestApplyThreshold 验证阈值只过滤函数，不改动汇总。
func TestApplyThreshold(t *testing.T) {
	original := sampleResult()
	filtered := ApplyThreshold(original, 2)

	if len(filtered.Files[0].Functions) != 2 || len(filtered.Files[1].Functions) != 0 {
		t.Fatalf("unexpected filtered files: %+v", filtered.Files)
	}
	if len(original.Files[1].Functions) != 1 {
		t.Fatalf("original result was mutated")
	}
	if filtered.Total != original.Total {
		t.Fatalf("totals changed: %+v", filtered.Total)
	}
	if !IsFormat("yaml") || IsFormat("xml") {
		t.Fatalf("unexpected format check")
	}
}
