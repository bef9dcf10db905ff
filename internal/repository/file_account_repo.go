package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/hitoshi/hondana/internal/model"
)

// FileAccountRepo はJSONファイルを使用したアカウントリポジトリ。
// アカウント一覧全体をJSON配列として1ファイルに保存する。
type FileAccountRepo struct {
	path     string
	recorder PersistFailureRecorder
	mu       sync.Mutex
}

// NewFileAccountRepo はFileAccountRepoを生成する。
// recorderはnilでもよい。その場合メトリクスは記録されない。
func NewFileAccountRepo(path string, recorder PersistFailureRecorder) *FileAccountRepo {
	return &FileAccountRepo{path: path, recorder: recorder}
}

// LoadAll はファイルからアカウント一覧全体を読み込む。
// ファイルが存在しない場合は空の一覧を返す。
func (r *FileAccountRepo) LoadAll(ctx context.Context) ([]model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		slog.Warn("users file not found, starting with no accounts",
			slog.String("path", r.path),
		)
		return []model.Account{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}

	var accounts []model.Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("failed to parse users file: %w", err)
	}

	return accounts, nil
}

// SaveAll はアカウント一覧全体をファイルに書き込む。
// renameが返った時点で書き込みは完了している。
func (r *FileAccountRepo) SaveAll(ctx context.Context, accounts []model.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := writeJSONFile(r.path, accounts); err != nil {
		if r.recorder != nil {
			r.recorder.RecordPersistFailure("users")
		}
		return fmt.Errorf("failed to save users file: %w", err)
	}

	return nil
}

// Ping は保存先ディレクトリが利用可能かを確認する。
func (r *FileAccountRepo) Ping(ctx context.Context) error {
	return pingDir(r.path)
}

// compile-time interface check
var _ AccountRepository = (*FileAccountRepo)(nil)
