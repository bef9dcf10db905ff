// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hitoshi/hondana/internal/model"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// usernameContextKey はリクエストコンテキストに認証済みユーザー名を格納するためのキー。
var usernameContextKey = contextKey("username")

// TokenVerifier はトークン検証に必要なインターフェース。
// auth.Serviceの部分集合として定義する。
type TokenVerifier interface {
	VerifyToken(token string) (*model.Claims, error)
}

// AuthFailureRecorder は認証失敗のメトリクス記録インターフェース。
// metrics.Collectorの部分集合として定義する。
type AuthFailureRecorder interface {
	RecordAuthFailure(reason string)
}

// NewTokenMiddleware はauthorizationヘッダーのベアラートークンを検証する
// ミドルウェアを返す。検証済みユーザー名をリクエストコンテキストに注入する。
// トークン未提示には403 "Token required"、不正・期限切れには
// 403 "Invalid token"を返す。recorderはnilでもよい。
func NewTokenMiddleware(verifier TokenVerifier, recorder AuthFailureRecorder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// "Bearer <token>" 形式と生トークンの両方を受け付ける
			token := strings.TrimSpace(strings.TrimPrefix(
				r.Header.Get("Authorization"), "Bearer "))

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				if errors.Is(err, model.ErrNoToken) {
					if recorder != nil {
						recorder.RecordAuthFailure("missing_token")
					}
					writePlainError(w, http.StatusForbidden, "Token required")
					return
				}
				if recorder != nil {
					recorder.RecordAuthFailure("invalid_token")
				}
				writePlainError(w, http.StatusForbidden, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), usernameContextKey, claims.Username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext はリクエストコンテキストから認証済みユーザー名を取得する。
// トークンミドルウェアを通過したリクエストでのみ有効。
func UsernameFromContext(ctx context.Context) (string, error) {
	username, ok := ctx.Value(usernameContextKey).(string)
	if !ok || username == "" {
		return "", fmt.Errorf("username not found in context")
	}
	return username, nil
}

// ContextWithUsername はコンテキストにユーザー名を注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameContextKey, username)
}

// writePlainError はプレーンテキストのエラーレスポンスを書き込む。
// 本サービスのエラーボディはルートごとに固定されたテキストであるため、
// JSONエンベロープは使用しない。
func writePlainError(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write([]byte(msg))
}
