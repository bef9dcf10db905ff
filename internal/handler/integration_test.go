package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/hondana/internal/account"
	"github.com/hitoshi/hondana/internal/auth"
	"github.com/hitoshi/hondana/internal/catalog"
	"github.com/hitoshi/hondana/internal/repository"
)

// newIntegrationRouter は一時ファイル上の実リポジトリと実サービスで
// ルーターを構築する。
func newIntegrationRouter(t *testing.T, seedBooks string) http.Handler {
	t.Helper()

	dir := t.TempDir()
	booksPath := filepath.Join(dir, "books.json")
	usersPath := filepath.Join(dir, "users.json")

	if seedBooks != "" {
		if err := os.WriteFile(booksPath, []byte(seedBooks), 0o644); err != nil {
			t.Fatalf("failed to seed books file: %v", err)
		}
	}

	bookRepo := repository.NewFileBookRepo(booksPath, nil)
	accountRepo := repository.NewFileAccountRepo(usersPath, nil)

	ctx := context.Background()
	catalogStore, err := catalog.NewStore(ctx, bookRepo)
	if err != nil {
		t.Fatalf("failed to init catalog store: %v", err)
	}
	accountStore, err := account.NewStore(ctx, accountRepo)
	if err != nil {
		t.Fatalf("failed to init account store: %v", err)
	}

	authService := auth.NewService("integration-test-secret", time.Hour)

	router := NewRouter(&RouterDeps{
		CORSAllowedOrigin: "http://localhost:3000",
		TokenVerifier:     authService,
		Catalog:           catalogStore,
		Reviews:           catalogStore,
		Accounts:          accountStore,
		Tokens:            authService,
		Pingers:           []Pinger{bookRepo, accountRepo},
	})

	return router
}

// TestIntegration_ReviewLifecycle はレビューの登録・取得・削除の
// 一連の流れを実ストア上で検証する。
func TestIntegration_ReviewLifecycle(t *testing.T) {
	router := newIntegrationRouter(t,
		`[{"isbn":"123","author":"A. Author","title":"Sample Book"}]`)

	// 1. 登録してログインし、トークンを得る
	resp, body := doRequest(t, router, http.MethodPost, "/register", "",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d, body = %s", resp.StatusCode, body)
	}

	resp, body = doRequest(t, router, http.MethodPost, "/login", "",
		strings.NewReader(`{"username":"alice","password":"s3cret"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, body = %s", resp.StatusCode, body)
	}
	var tr tokenResponse
	if err := json.Unmarshal([]byte(body), &tr); err != nil {
		t.Fatalf("invalid login body: %v", err)
	}

	// 2. 初期状態: レビュー未登録
	_, body = doRequest(t, router, http.MethodGet, "/books/review/123", "", nil)
	if body != `{"review":"No reviews yet"}`+"\n" {
		t.Errorf("initial review body = %q", body)
	}

	// 3. レビューを登録して読み戻す
	resp, _ = doRequest(t, router, http.MethodPost, "/books/review/123", "Bearer "+tr.Token,
		strings.NewReader(`{"review":"Great read"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("set review status = %d", resp.StatusCode)
	}

	_, body = doRequest(t, router, http.MethodGet, "/books/review/123", "", nil)
	if body != `{"review":"Great read"}`+"\n" {
		t.Errorf("review body after set = %q", body)
	}

	// 4. レビューを削除すると未登録状態に戻る
	resp, _ = doRequest(t, router, http.MethodDelete, "/books/review/123", "Bearer "+tr.Token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete review status = %d", resp.StatusCode)
	}

	_, body = doRequest(t, router, http.MethodGet, "/books/review/123", "", nil)
	if body != `{"review":"No reviews yet"}`+"\n" {
		t.Errorf("review body after delete = %q", body)
	}
}

// TestIntegration_MutationIsPersistedBeforeResponse はレスポンスが返った
// 時点でファイルへの書き込みが完了していることを検証する。
func TestIntegration_MutationIsPersistedBeforeResponse(t *testing.T) {
	dir := t.TempDir()
	booksPath := filepath.Join(dir, "books.json")
	if err := os.WriteFile(booksPath,
		[]byte(`[{"isbn":"123","author":"A. Author","title":"Sample Book"}]`), 0o644); err != nil {
		t.Fatalf("failed to seed books file: %v", err)
	}

	bookRepo := repository.NewFileBookRepo(booksPath, nil)
	ctx := context.Background()
	catalogStore, err := catalog.NewStore(ctx, bookRepo)
	if err != nil {
		t.Fatalf("failed to init catalog store: %v", err)
	}

	if err := catalogStore.SetReview(ctx, "123", "persisted"); err != nil {
		t.Fatalf("SetReview returned error: %v", err)
	}

	// 別のリポジトリインスタンスから読み直して書き込みを確認する
	reloaded, err := repository.NewFileBookRepo(booksPath, nil).LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if reloaded[0].Review == nil || *reloaded[0].Review != "persisted" {
		t.Errorf("review not persisted: %+v", reloaded[0])
	}
}

// TestIntegration_RegisterLoginContract は登録済みの資格情報のみが
// ログインに成功することを検証する。
func TestIntegration_RegisterLoginContract(t *testing.T) {
	router := newIntegrationRouter(t, "")

	resp, _ := doRequest(t, router, http.MethodPost, "/register", "",
		strings.NewReader(`{"username":"bob","password":"pw1"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register status = %d", resp.StatusCode)
	}

	// 同じユーザー名での再登録は400
	resp, body := doRequest(t, router, http.MethodPost, "/register", "",
		strings.NewReader(`{"username":"bob","password":"pw2"}`))
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("duplicate register status = %d, want 400", resp.StatusCode)
	}
	if body != "User already exists" {
		t.Errorf("duplicate register body = %q", body)
	}

	// 誤ったパスワードは401
	resp, _ = doRequest(t, router, http.MethodPost, "/login", "",
		strings.NewReader(`{"username":"bob","password":"wrong"}`))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", resp.StatusCode)
	}

	// 未知のユーザーも401
	resp, _ = doRequest(t, router, http.MethodPost, "/login", "",
		strings.NewReader(`{"username":"nobody","password":"pw1"}`))
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("unknown user status = %d, want 401", resp.StatusCode)
	}

	// 正しい組はトークンを得る
	resp, body = doRequest(t, router, http.MethodPost, "/login", "",
		strings.NewReader(`{"username":"bob","password":"pw1"}`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	var tr tokenResponse
	if err := json.Unmarshal([]byte(body), &tr); err != nil || tr.Token == "" {
		t.Errorf("expected token in body, got %q", body)
	}
}

// TestIntegration_ExpiredToken_Returns403 は期限切れトークンが
// 保護ルートで拒否されることを検証する。
func TestIntegration_ExpiredToken_Returns403(t *testing.T) {
	router := newIntegrationRouter(t,
		`[{"isbn":"123","author":"A. Author","title":"Sample Book"}]`)

	expiredIssuer := auth.NewService("integration-test-secret", -time.Minute)
	token, err := expiredIssuer.IssueToken("alice")
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	resp, body := doRequest(t, router, http.MethodPost, "/books/review/123", token,
		strings.NewReader(`{"review":"x"}`))
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", resp.StatusCode)
	}
	if body != "Invalid token" {
		t.Errorf("body = %q, want %q", body, "Invalid token")
	}
}

func TestIntegration_HealthEndpoint(t *testing.T) {
	router := newIntegrationRouter(t, "")

	resp, body := doRequest(t, router, http.MethodGet, "/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(body, `"status":"ok"`) {
		t.Errorf("body = %q", body)
	}
}

func TestIntegration_UnknownRoute_Returns404(t *testing.T) {
	router := newIntegrationRouter(t, "")

	resp, _ := doRequest(t, router, http.MethodGet, "/nope", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
