package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hitoshi/hondana/internal/model"
)

func strPtr(s string) *string { return &s }

func TestFileBookRepo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	repo := NewFileBookRepo(path, nil)
	ctx := context.Background()

	books := []model.Book{
		{ISBN: "123", Author: "A. Author", Title: "Sample Book"},
		{ISBN: "456", Author: "B. Writer", Title: "Another Sample", Review: strPtr("good")},
	}

	if err := repo.SaveAll(ctx, books); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}

	loaded, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}

	if len(loaded) != 2 {
		t.Fatalf("len = %d, want 2", len(loaded))
	}
	if loaded[0].ISBN != "123" || loaded[1].ISBN != "456" {
		t.Errorf("order not preserved: %v", loaded)
	}
	if loaded[1].Review == nil || *loaded[1].Review != "good" {
		t.Errorf("review not round-tripped: %v", loaded[1].Review)
	}
}

func TestFileBookRepo_AbsentReviewStaysAbsent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	repo := NewFileBookRepo(path, nil)
	ctx := context.Background()

	if err := repo.SaveAll(ctx, []model.Book{{ISBN: "1", Author: "a", Title: "t"}}); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}

	// 未登録のレビューはファイル上でもフィールドごと省略される
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	if want := `[{"isbn":"1","author":"a","title":"t"}]`; string(data) != want {
		t.Errorf("file content = %s, want %s", data, want)
	}

	loaded, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if loaded[0].Review != nil {
		t.Errorf("Review = %v, want nil", *loaded[0].Review)
	}
}

func TestFileBookRepo_EmptyStringReviewIsPreserved(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	repo := NewFileBookRepo(path, nil)
	ctx := context.Background()

	if err := repo.SaveAll(ctx, []model.Book{{ISBN: "1", Author: "a", Title: "t", Review: strPtr("")}}); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}

	loaded, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if loaded[0].Review == nil || *loaded[0].Review != "" {
		t.Error("empty-string review should stay distinct from absent review")
	}
}

func TestFileBookRepo_MissingFile_ReturnsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	repo := NewFileBookRepo(path, nil)

	books, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("len = %d, want 0", len(books))
	}
}

func TestFileBookRepo_CorruptFile_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	repo := NewFileBookRepo(path, nil)

	if _, err := repo.LoadAll(context.Background()); err == nil {
		t.Fatal("expected error for corrupt file")
	}
}

type countingRecorder struct {
	collections []string
}

func (c *countingRecorder) RecordPersistFailure(collection string) {
	c.collections = append(c.collections, collection)
}

func TestFileBookRepo_SaveToUnwritableDir_RecordsFailure(t *testing.T) {
	rec := &countingRecorder{}
	repo := NewFileBookRepo("/nonexistent-dir/books.json", rec)

	err := repo.SaveAll(context.Background(), []model.Book{})
	if err == nil {
		t.Fatal("expected error for unwritable directory")
	}
	if len(rec.collections) != 1 || rec.collections[0] != "books" {
		t.Errorf("recorded failures = %v, want [books]", rec.collections)
	}
}

func TestFileBookRepo_Ping(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileBookRepo(filepath.Join(dir, "books.json"), nil)
	if err := repo.Ping(context.Background()); err != nil {
		t.Errorf("Ping returned error: %v", err)
	}

	bad := NewFileBookRepo("/nonexistent-dir/books.json", nil)
	if err := bad.Ping(context.Background()); err == nil {
		t.Error("expected Ping error for missing directory")
	}
}

func TestFileAccountRepo_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	repo := NewFileAccountRepo(path, nil)
	ctx := context.Background()

	accounts := []model.Account{
		{ID: "id-1", Username: "alice", PasswordHash: "$2a$10$hash"},
	}

	if err := repo.SaveAll(ctx, accounts); err != nil {
		t.Fatalf("SaveAll returned error: %v", err)
	}

	loaded, err := repo.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("len = %d, want 1", len(loaded))
	}
	if loaded[0] != accounts[0] {
		t.Errorf("loaded = %+v, want %+v", loaded[0], accounts[0])
	}
}

func TestFileAccountRepo_MissingFile_ReturnsEmpty(t *testing.T) {
	repo := NewFileAccountRepo(filepath.Join(t.TempDir(), "none.json"), nil)

	accounts, err := repo.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if len(accounts) != 0 {
		t.Errorf("len = %d, want 0", len(accounts))
	}
}
