// Package cache 把单文件分析结果按内容指纹持久化到 SQLite。
// 内容不变的文件再次扫描时直接复用结果，不再重新分析。
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"cyclomatic/internal/model"
)

// AnalyzerVersion 标识分析规则版本。
// 计数规则变化时需要递增，旧版本的缓存行会被忽略。
const AnalyzerVersion = 1

// Store 是基于 SQLite 的结果缓存。
type Store struct {
	conn   *sql.DB
	dbPath string
}

// Open 打开或创建缓存数据库。
func Open(dbPath string) (*Store, error) {
	directory := filepath.Dir(dbPath)
	if directory != "." && directory != "" {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}
	// pragma 只作用于单个连接，固定为一个连接让 worker 串行写入。
	conn.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	store := &Store{conn: conn, dbPath: dbPath}
	if err := store.initializeSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize cache schema: %w", err)
	}
	return store, nil
}

func (s *Store) initializeSchema() error {
	_, err := s.conn.Exec(`
		CREATE TABLE IF NOT EXISTS file_results (
			fingerprint TEXT NOT NULL,
			analyzer_version INTEGER NOT NULL,
			functions TEXT NOT NULL,
			PRIMARY KEY (fingerprint, analyzer_version)
		)`)
	return err
}

// Path 返回数据库文件路径。
func (s *Store) Path() string {
	return s.dbPath
}

// Get 按指纹查找缓存结果，未命中时 ok 为 false。
func (s *Store) Get(ctx context.Context, fingerprint string) ([]model.FunctionMetrics, bool, error) {
	var payload string
	err := s.conn.QueryRowContext(ctx,
		`SELECT functions FROM file_results WHERE fingerprint = ? AND analyzer_version = ?`,
		fingerprint, AnalyzerVersion,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("query cache: %w", err)
	}

	functions := make([]model.FunctionMetrics, 0)
	if err := json.Unmarshal([]byte(payload), &functions); err != nil {
		return nil, false, fmt.Errorf("decode cached functions: %w", err)
	}
	return functions, true, nil
}

// Put 写入或覆盖一个文件的分析结果。
func (s *Store) Put(ctx context.Context, fingerprint string, functions []model.FunctionMetrics) error {
	if functions == nil {
		functions = []model.FunctionMetrics{}
	}
	payload, err := json.Marshal(functions)
	if err != nil {
		return fmt.Errorf("encode functions: %w", err)
	}

	_, err = s.conn.ExecContext(ctx,
		`INSERT OR REPLACE INTO file_results (fingerprint, analyzer_version, functions) VALUES (?, ?, ?)`,
		fingerprint, AnalyzerVersion, string(payload),
	)
	if err != nil {
		return fmt.Errorf("write cache: %w", err)
	}
	return nil
}

// Close 关闭数据库连接。
func (s *Store) Close() error {
	return s.conn.Close()
}
