// Package account はユーザー登録と資格情報検証のドメインロジックを提供する。
package account

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/hitoshi/hondana/internal/model"
	"github.com/hitoshi/hondana/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Store は登録済みアカウントをメモリ上に保持する。
// 登録のたびに一覧全体を永続化する。
type Store struct {
	repo repository.AccountRepository

	mu       sync.RWMutex
	accounts []model.Account
}

// NewStore は永続化媒体からアカウント一覧を読み込んだStoreを生成する。
func NewStore(ctx context.Context, repo repository.AccountRepository) (*Store, error) {
	accounts, err := repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	slog.Info("accounts loaded",
		slog.Int("accounts", len(accounts)),
	)

	return &Store{repo: repo, accounts: accounts}, nil
}

// Exists はユーザー名が登録済みかを返す。
func (s *Store) Exists(ctx context.Context, username string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findByUsername(username) != nil
}

// Register は新規アカウントを登録し、一覧全体を同期的に永続化する。
// パスワードはbcryptハッシュとして保存する。
// usernameまたはpasswordが空の場合はErrMissingCredentials、
// 登録済みユーザー名の場合はErrDuplicateUserを返す。
func (s *Store) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return model.ErrMissingCredentials
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByUsername(username) != nil {
		return model.ErrDuplicateUser
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	next := make([]model.Account, len(s.accounts), len(s.accounts)+1)
	copy(next, s.accounts)
	next = append(next, model.Account{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: string(hash),
	})

	if err := s.repo.SaveAll(ctx, next); err != nil {
		return fmt.Errorf("failed to persist accounts: %w", err)
	}

	s.accounts = next

	slog.Info("user registered",
		slog.String("username", username),
	)
	return nil
}

// VerifyCredentials はユーザー名とパスワードの組を検証し、
// 一致したアカウントを返す。未知のユーザーとパスワード不一致は
// どちらもErrInvalidCredentialsに畳み込む。
func (s *Store) VerifyCredentials(ctx context.Context, username, password string) (*model.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	acct := s.findByUsername(username)
	if acct == nil {
		return nil, model.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	out := *acct
	return &out, nil
}

// findByUsername は先頭一致のアカウントを返す。呼び出し側でロックを保持すること。
// 重複ユーザー名が存在する場合は先頭の1件が勝つ。
func (s *Store) findByUsername(username string) *model.Account {
	for i := range s.accounts {
		if s.accounts[i].Username == username {
			return &s.accounts[i]
		}
	}
	return nil
}
