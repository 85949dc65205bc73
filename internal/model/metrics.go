// Package model 定义 cyclomatic 的核心数据模型。
// 这些结构会被分析器、扫描器、缓存、输出层和命令层共同使用。
package model

// FunctionMetrics 表示一个被识别出的函数及其圈复杂度。
//
// 注意：
// - Complexity 从 1 开始（基线路径），每个判定点 +1
// - 记录在函数体花括号回到 0 的那一行产出，之后不可再修改
type FunctionMetrics struct {
	Name       string `json:"name" yaml:"name"`
	Complexity int    `json:"complexity" yaml:"complexity"`
}

// ComplexityStats 表示一组函数的复杂度汇总。
type ComplexityStats struct {
	Functions  int64 `json:"functions" yaml:"functions"`
	Complexity int64 `json:"complexity" yaml:"complexity"`
	Max        int   `json:"max" yaml:"max"`
}

// AddFunction 把单个函数叠加到汇总中。
func (s *ComplexityStats) AddFunction(fn FunctionMetrics) {
	s.Functions++
	s.Complexity += int64(fn.Complexity)
	if fn.Complexity > s.Max {
		s.Max = fn.Complexity
	}
}

// Add 将另一个汇总结果叠加到当前对象。
func (s *ComplexityStats) Add(other ComplexityStats) {
	s.Functions += other.Functions
	s.Complexity += other.Complexity
	if other.Max > s.Max {
		s.Max = other.Max
	}
}

// Average 返回平均复杂度，没有函数时为 0。
func (s ComplexityStats) Average() float64 {
	if s.Functions == 0 {
		return 0
	}
	return float64(s.Complexity) / float64(s.Functions)
}

// StatsFor 计算一组函数的汇总。
func StatsFor(functions []FunctionMetrics) ComplexityStats {
	var stats ComplexityStats
	for _, fn := range functions {
		stats.AddFunction(fn)
	}
	return stats
}

// FileReport 表示单文件分析结果。
type FileReport struct {
	Path        string            `json:"path" yaml:"path"`
	Language    string            `json:"language" yaml:"language"`
	Fingerprint string            `json:"fingerprint" yaml:"fingerprint"`
	Cached      bool              `json:"cached" yaml:"cached"`
	Functions   []FunctionMetrics `json:"functions" yaml:"functions"`
	Stats       ComplexityStats   `json:"stats" yaml:"stats"`
}

// LanguageSummary 表示某个语言的聚合结果。
type LanguageSummary struct {
	Language   string          `json:"language" yaml:"language"`
	Extensions []string        `json:"extensions" yaml:"extensions"`
	Files      int64           `json:"files" yaml:"files"`
	Stats      ComplexityStats `json:"stats" yaml:"stats"`
}

// ScanError 记录单文件扫描失败信息。
// 单个文件失败不阻断全量扫描。
type ScanError struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// TotalStats 表示项目级总计，在 ComplexityStats 基础上增加 Files。
type TotalStats struct {
	Files int64 `json:"files" yaml:"files"`
	ComplexityStats `yaml:",inline"`
}

// AddFileStats 累加一个文件的统计值到项目总计中。
func (t *TotalStats) AddFileStats(other ComplexityStats) {
	t.Files++
	t.ComplexityStats.Add(other)
}

// ScanResult 是 scan 命令的完整输出模型。
type ScanResult struct {
	ScanID      string            `json:"scan_id" yaml:"scan_id"`
	ScannedPath string            `json:"scanned_path" yaml:"scanned_path"`
	Files       []FileReport      `json:"files" yaml:"files"`
	Languages   []LanguageSummary `json:"languages" yaml:"languages"`
	Total       TotalStats        `json:"total" yaml:"total"`
	Errors      []ScanError       `json:"errors" yaml:"errors"`
}
