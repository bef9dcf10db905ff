package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/hitoshi/hondana/internal/model"
)

// FileBookRepo はJSONファイルを使用した書籍リポジトリ。
// コレクション全体をJSON配列として1ファイルに保存する。
type FileBookRepo struct {
	path     string
	recorder PersistFailureRecorder
	mu       sync.Mutex
}

// NewFileBookRepo はFileBookRepoを生成する。
// recorderはnilでもよい。その場合メトリクスは記録されない。
func NewFileBookRepo(path string, recorder PersistFailureRecorder) *FileBookRepo {
	return &FileBookRepo{path: path, recorder: recorder}
}

// LoadAll はファイルから書籍コレクション全体を読み込む。
// ファイルが存在しない場合は空のコレクションを返す。
func (r *FileBookRepo) LoadAll(ctx context.Context) ([]model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		slog.Warn("books file not found, starting with empty catalog",
			slog.String("path", r.path),
		)
		return []model.Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read books file: %w", err)
	}

	var books []model.Book
	if err := json.Unmarshal(data, &books); err != nil {
		return nil, fmt.Errorf("failed to parse books file: %w", err)
	}

	return books, nil
}

// SaveAll は書籍コレクション全体をファイルに書き込む。
// 一時ファイルへ書いてからrenameすることで、書き込み途中のファイルが
// 読み取られることを防ぐ。renameが返った時点で書き込みは完了している。
func (r *FileBookRepo) SaveAll(ctx context.Context, books []model.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeJSONFile(r.path, books); err != nil {
		if r.recorder != nil {
			r.recorder.RecordPersistFailure("books")
		}
		return fmt.Errorf("failed to save books file: %w", err)
	}

	return nil
}

// Ping は保存先ディレクトリが利用可能かを確認する。
func (r *FileBookRepo) Ping(ctx context.Context) error {
	return pingDir(r.path)
}

// writeJSONFile はvをJSONにエンコードし、一時ファイル経由でpathに書き込む。
func writeJSONFile(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// pingDir はpathの親ディレクトリがstatできることを確認する。
func pingDir(path string) error {
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		return fmt.Errorf("storage directory unavailable: %w", err)
	}
	return nil
}

// compile-time interface check
var _ BookRepository = (*FileBookRepo)(nil)
