// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/hondana/internal/model"
)

// BookRepository は書籍コレクションの永続化インターフェース。
// コレクション全体を単位としてロード・セーブする。部分書き込みは行わない。
type BookRepository interface {
	// LoadAll は永続化媒体から書籍コレクション全体を読み込む。
	// 媒体が存在しない場合は空のコレクションを返す。
	LoadAll(ctx context.Context) ([]model.Book, error)

	// SaveAll は書籍コレクション全体を永続化する。
	// 呼び出しが返った時点で書き込みは完了している。
	SaveAll(ctx context.Context, books []model.Book) error

	// Ping は永続化媒体が利用可能かを確認する。
	Ping(ctx context.Context) error
}

// AccountRepository はアカウントコレクションの永続化インターフェース。
type AccountRepository interface {
	// LoadAll は永続化媒体からアカウント一覧全体を読み込む。
	// 媒体が存在しない場合は空の一覧を返す。
	LoadAll(ctx context.Context) ([]model.Account, error)

	// SaveAll はアカウント一覧全体を永続化する。
	// 呼び出しが返った時点で書き込みは完了している。
	SaveAll(ctx context.Context, accounts []model.Account) error

	// Ping は永続化媒体が利用可能かを確認する。
	Ping(ctx context.Context) error
}

// PersistFailureRecorder は永続化失敗のメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type PersistFailureRecorder interface {
	RecordPersistFailure(collection string)
}
