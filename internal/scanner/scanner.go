// Package scanner 提供并发扫描调度能力。
// 该层负责目录遍历、任务分发、缓存查询和结果聚合，不负责复杂度规则细节。
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/viant/afs"
	"go.uber.org/zap"

	"cyclomatic/internal/complexity"
	"cyclomatic/internal/fingerprint"
	"cyclomatic/internal/languages"
	"cyclomatic/internal/model"
)

// ErrUnsupportedExtension 表示单文件扫描时后缀未注册。
var ErrUnsupportedExtension = errors.New("unsupported file extension")

// ResultCache 是按内容指纹缓存分析结果的存储。
type ResultCache interface {
	Get(ctx context.Context, fingerprint string) ([]model.FunctionMetrics, bool, error)
	Put(ctx context.Context, fingerprint string, functions []model.FunctionMetrics) error
}

// Service 是扫描服务对象。
type Service struct {
	registry *languages.Registry
	workers  int
	fs       afs.Service
	cache    ResultCache
	logger   *zap.Logger
}

// Option 用于定制 Service。
type Option func(*Service)

// WithLogger 设置日志记录器，默认不输出。
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCache 启用结果缓存。
func WithCache(cache ResultCache) Option {
	return func(s *Service) {
		s.cache = cache
	}
}

// WithFileSystem 替换读取源码使用的 afs 服务。
func WithFileSystem(fileSystem afs.Service) Option {
	return func(s *Service) {
		if fileSystem != nil {
			s.fs = fileSystem
		}
	}
}

// scanTask 表示一个待分析文件任务。
type scanTask struct {
	location    string
	displayPath string
	language    string
}

// workerResult 表示 worker 的执行产物。
type workerResult struct {
	fileReport *model.FileReport
	scanError  *model.ScanError
}

// NewService 创建扫描服务。
func NewService(registry *languages.Registry, workers int, options ...Option) *Service {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	service := &Service{
		registry: registry,
		workers:  workers,
		fs:       afs.New(),
		logger:   zap.NewNop(),
	}
	for _, option := range options {
		option(service)
	}
	return service
}

// FileExists 判断 location 是否指向一个存在的普通文件，目录返回 false。
// location 可以是本地路径，也可以是 afs 支持的 URL。
func (s *Service) FileExists(ctx context.Context, location string) (bool, error) {
	exists, err := s.fs.Exists(ctx, location)
	if err != nil || !exists {
		return false, err
	}
	object, err := s.fs.Object(ctx, location)
	if err != nil {
		return false, err
	}
	return !object.IsDir(), nil
}

// AnalyzeFile 分析单个文件，不要求后缀已注册。
func (s *Service) AnalyzeFile(ctx context.Context, location string) ([]model.FunctionMetrics, error) {
	report, err := s.analyze(ctx, scanTask{location: location, displayPath: location})
	if err != nil {
		return nil, err
	}
	return report.Functions, nil
}

// ScanPath 扫描目录或单文件。
// 扫描过程并发执行，单个文件失败记录到 Errors 中，不中断整体扫描。
func (s *Service) ScanPath(ctx context.Context, targetPath string) (model.ScanResult, error) {
	var result model.ScanResult

	trimmedPath := strings.TrimSpace(targetPath)
	if trimmedPath == "" {
		return result, errors.New("scan path is empty")
	}

	absoluteTarget, err := filepath.Abs(trimmedPath)
	if err != nil {
		return result, fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absoluteTarget)
	if err != nil {
		return result, fmt.Errorf("stat path: %w", err)
	}

	result.ScanID = uuid.NewString()
	result.ScannedPath = absoluteTarget
	s.logger.Debug("scan started",
		zap.String("scan_id", result.ScanID),
		zap.String("path", absoluteTarget),
		zap.Int("workers", s.workers),
	)

	tasks := make(chan scanTask, s.workers*4)
	results := make(chan workerResult, s.workers*4)
	walkErrChan := make(chan error, 1)

	var workerGroup sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		workerGroup.Add(1)
		go func() {
			defer workerGroup.Done()
			s.runWorker(ctx, tasks, results)
		}()
	}

	go func() {
		defer close(tasks)
		if info.IsDir() {
			walkErrChan <- s.enqueueDirectoryTasks(ctx, absoluteTarget, tasks)
			return
		}
		walkErrChan <- s.enqueueSingleFileTask(ctx, absoluteTarget, tasks)
	}()

	go func() {
		workerGroup.Wait()
		close(results)
	}()

	result.Files = make([]model.FileReport, 0)
	result.Errors = make([]model.ScanError, 0)

	for item := range results {
		if item.fileReport != nil {
			result.Files = append(result.Files, *item.fileReport)
		}
		if item.scanError != nil {
			result.Errors = append(result.Errors, *item.scanError)
		}
	}

	if walkErr := <-walkErrChan; walkErr != nil {
		return result, walkErr
	}

	s.buildSummaries(&result)
	s.logger.Debug("scan finished",
		zap.String("scan_id", result.ScanID),
		zap.Int64("files", result.Total.Files),
		zap.Int64("functions", result.Total.Functions),
		zap.Int("errors", len(result.Errors)),
	)
	return result, nil
}

// enqueueDirectoryTasks 遍历目录并把已注册语言的文件推入任务队列。
func (s *Service) enqueueDirectoryTasks(ctx context.Context, root string, tasks chan<- scanTask) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if entry.IsDir() {
			return nil
		}

		language, ok := s.registry.ForFile(path)
		if !ok {
			return nil
		}

		relativePath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relativePath = path
		}

		select {
		case tasks <- scanTask{
			location:    path,
			displayPath: filepath.ToSlash(relativePath),
			language:    language.Name,
		}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})
}

// enqueueSingleFileTask 在用户给定单文件路径时创建任务。
func (s *Service) enqueueSingleFileTask(ctx context.Context, filePath string, tasks chan<- scanTask) error {
	language, ok := s.registry.ForFile(filePath)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedExtension, filepath.Ext(filePath))
	}

	select {
	case tasks <- scanTask{
		location:    filePath,
		displayPath: filepath.Base(filePath),
		language:    language.Name,
	}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runWorker 执行文件读取、缓存查询和复杂度分析。
func (s *Service) runWorker(ctx context.Context, tasks <-chan scanTask, results chan<- workerResult) {
	for task := range tasks {
		report, err := s.analyze(ctx, task)
		if err != nil {
			results <- workerResult{
				scanError: &model.ScanError{
					Path:  task.displayPath,
					Error: err.Error(),
				},
			}
			continue
		}
		results <- workerResult{fileReport: report}
	}
}

// analyze 读取单个文件并产出分析结果。
// 缓存读写失败只记录警告，退化为直接分析。
func (s *Service) analyze(ctx context.Context, task scanTask) (*model.FileReport, error) {
	content, err := s.fs.DownloadWithURL(ctx, task.location)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	sum, err := fingerprint.Sum(content)
	if err != nil {
		return nil, fmt.Errorf("fingerprint source: %w", err)
	}

	report := &model.FileReport{
		Path:        task.displayPath,
		Language:    task.language,
		Fingerprint: sum,
	}

	if functions, ok := s.lookup(ctx, task, sum); ok {
		report.Cached = true
		report.Functions = functions
		report.Stats = model.StatsFor(functions)
		return report, nil
	}

	report.Functions = complexity.Analyze(complexity.ReadLinesBytes(content))
	report.Stats = model.StatsFor(report.Functions)
	s.logger.Debug("file analyzed",
		zap.String("path", task.displayPath),
		zap.Int("functions", len(report.Functions)),
		zap.Int("max", report.Stats.Max),
	)

	if s.cache != nil {
		if err := s.cache.Put(ctx, sum, report.Functions); err != nil {
			s.logger.Warn("cache write failed", zap.String("path", task.displayPath), zap.Error(err))
		}
	}
	return report, nil
}

func (s *Service) lookup(ctx context.Context, task scanTask, sum string) ([]model.FunctionMetrics, bool) {
	if s.cache == nil {
		return nil, false
	}
	functions, ok, err := s.cache.Get(ctx, sum)
	if err != nil {
		s.logger.Warn("cache read failed", zap.String("path", task.displayPath), zap.Error(err))
		return nil, false
	}
	if ok {
		s.logger.Debug("cache hit", zap.String("path", task.displayPath), zap.String("fingerprint", sum))
	}
	return functions, ok
}

// buildSummaries 计算语言级汇总和总计信息。
func (s *Service) buildSummaries(result *model.ScanResult) {
	sort.Slice(result.Files, func(i int, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})

	sort.Slice(result.Errors, func(i int, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	byLanguage := make(map[string]*model.LanguageSummary)
	result.Total = model.TotalStats{}

	for _, item := range result.Files {
		result.Total.AddFileStats(item.Stats)

		summary, ok := byLanguage[item.Language]
		if !ok {
			summary = &model.LanguageSummary{
				Language:   item.Language,
				Extensions: s.registry.ExtensionsForLanguage(item.Language),
			}
			byLanguage[item.Language] = summary
		}

		summary.Files++
		summary.Stats.Add(item.Stats)
	}

	result.Languages = make([]model.LanguageSummary, 0, len(byLanguage))
	for _, item := range byLanguage {
		result.Languages = append(result.Languages, *item)
	}

	sort.Slice(result.Languages, func(i int, j int) bool {
		return result.Languages[i].Language < result.Languages[j].Language
	})
}
