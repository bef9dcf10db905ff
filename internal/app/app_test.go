package app

import (
	"bytes"
	"strings"
	"testing"
)

func TestInit_WithValidEnv(t *testing.T) {
	setTestEnv(t)

	var buf bytes.Buffer
	cfg, err := Init(&buf)
	if err != nil {
		t.Fatalf("Init returned error: %v", err)
	}
	if cfg.TokenSecret != "test-token-secret" {
		t.Errorf("TokenSecret = %q", cfg.TokenSecret)
	}
	if cfg.ServerPort != "8080" {
		t.Errorf("ServerPort = %q, want default 8080", cfg.ServerPort)
	}
}

func TestRun_WithMissingEnv_ReturnsError(t *testing.T) {
	t.Setenv("TOKEN_SECRET", "")

	var buf bytes.Buffer
	err := Run(&buf, []string{"serve"})
	if err == nil {
		t.Fatal("Run with missing TOKEN_SECRET should return error")
	}
	if !strings.Contains(err.Error(), "TOKEN_SECRET") {
		t.Errorf("error = %v, want mention of TOKEN_SECRET", err)
	}
}

// TestRun_Healthcheck_WithoutServer はサーバー未起動時にヘルスチェックが
// エラーを返すことを検証する。
func TestRun_Healthcheck_WithoutServer(t *testing.T) {
	// 予約済みポート0には接続できない
	t.Setenv("SERVER_PORT", "0")

	var buf bytes.Buffer
	err := Run(&buf, []string{"healthcheck"})
	if err == nil {
		t.Fatal("healthcheck without a running server should return error")
	}
}

func setTestEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TOKEN_SECRET", "test-token-secret")
	t.Setenv("BOOKS_FILE", t.TempDir()+"/books.json")
	t.Setenv("USERS_FILE", t.TempDir()+"/users.json")
}
