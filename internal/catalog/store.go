// Package catalog は書籍カタログのドメインロジックを提供する。
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/hitoshi/hondana/internal/model"
	"github.com/hitoshi/hondana/internal/repository"
)

// Store は書籍コレクションをメモリ上に保持し、検索と
// レビュー更新を提供する。更新のたびにコレクション全体を永続化する。
type Store struct {
	repo repository.BookRepository

	mu    sync.RWMutex
	books []model.Book
}

// NewStore は永続化媒体からコレクションを読み込んだStoreを生成する。
// 読み込みはプロセス起動時の1回のみ。
func NewStore(ctx context.Context, repo repository.BookRepository) (*Store, error) {
	books, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	slog.Info("catalog loaded",
		slog.Int("books", len(books)),
	)

	return &Store{repo: repo, books: books}, nil
}

// ListAll はコレクション全体を保持順で返す。
func (s *Store) ListAll(ctx context.Context) []model.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Book, len(s.books))
	copy(out, s.books)
	return out
}

// FindByISBN は一致するISBNの書籍を返す。
// 重複ISBNが存在する場合は先頭の1件が勝つ。
// 見つからない場合はErrBookNotFoundを返す。
func (s *Store) FindByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.books {
		if s.books[i].ISBN == isbn {
			b := s.books[i]
			return &b, nil
		}
	}
	return nil, model.ErrBookNotFound
}

// FindByAuthor は著者名が完全一致（大文字小文字を区別）する書籍を全件返す。
// 0件の場合はErrNoBooksFoundを返す。
func (s *Store) FindByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Book
	for i := range s.books {
		if s.books[i].Author == author {
			out = append(out, s.books[i])
		}
	}
	if len(out) == 0 {
		return nil, model.ErrNoBooksFound
	}
	return out, nil
}

// FindByTitle はタイトルにfragmentを部分文字列として含む書籍を全件返す。
// 大文字小文字を区別する。0件の場合はErrNoBooksFoundを返す。
func (s *Store) FindByTitle(ctx context.Context, fragment string) ([]model.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Book
	for i := range s.books {
		if strings.Contains(s.books[i].Title, fragment) {
			out = append(out, s.books[i])
		}
	}
	if len(out) == 0 {
		return nil, model.ErrNoBooksFound
	}
	return out, nil
}

// GetReview は書籍のレビューを返す。
// レビュー未登録の場合はNoReviewsYetを返す。
// 書籍が存在しない場合はErrBookNotFoundを返す。
func (s *Store) GetReview(ctx context.Context, isbn string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.books {
		if s.books[i].ISBN == isbn {
			if s.books[i].Review == nil {
				return model.NoReviewsYet, nil
			}
			return *s.books[i].Review, nil
		}
	}
	return "", model.ErrBookNotFound
}

// SetReview は書籍のレビューを上書きし、コレクション全体を同期的に永続化する。
// レスポンスを返す前に書き込みが完了していることを保証する。
// 書籍が存在しない場合はErrBookNotFoundを返す。
func (s *Store) SetReview(ctx context.Context, isbn, text string) error {
	return s.mutate(ctx, isbn, func(b *model.Book) {
		b.Review = &text
	})
}

// DeleteReview は書籍のレビューを削除し、コレクション全体を同期的に永続化する。
// 削除後の状態は「レビュー未登録」であり、空文字列のレビューとは区別される。
// 書籍が存在しない場合はErrBookNotFoundを返す。
func (s *Store) DeleteReview(ctx context.Context, isbn string) error {
	return s.mutate(ctx, isbn, func(b *model.Book) {
		b.Review = nil
	})
}

// mutate は先頭一致の書籍にfnを適用したコレクションの複製を永続化し、
// 成功した場合のみメモリ上のコレクションを差し替える。
func (s *Store) mutate(ctx context.Context, isbn string, fn func(b *model.Book)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.books {
		if s.books[i].ISBN == isbn {
			idx = i
			break
		}
	}
	if idx < 0 {
		return model.ErrBookNotFound
	}

	next := make([]model.Book, len(s.books))
	copy(next, s.books)
	fn(&next[idx])

	if err := s.repo.SaveAll(ctx, next); err != nil {
		return fmt.Errorf("failed to persist catalog: %w", err)
	}

	s.books = next
	return nil
}
