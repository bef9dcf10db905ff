package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hitoshi/hondana/internal/model"
)

// AccountService は認証ハンドラーが必要とするアカウントサービスインターフェース。
type AccountService interface {
	// Register は新規アカウントを登録し、一覧全体を永続化する。
	Register(ctx context.Context, username, password string) error
	// VerifyCredentials はユーザー名とパスワードの組を検証する。
	VerifyCredentials(ctx context.Context, username, password string) (*model.Account, error)
}

// TokenIssuer はログイン成功時のトークン発行インターフェース。
// auth.Serviceの部分集合として定義する。
type TokenIssuer interface {
	IssueToken(username string) (string, error)
}

// AuthHandler はユーザー登録・ログインのHTTPハンドラー。
type AuthHandler struct {
	accounts AccountService
	tokens   TokenIssuer
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(accounts AccountService, tokens TokenIssuer) *AuthHandler {
	return &AuthHandler{accounts: accounts, tokens: tokens}
}

// credentialsRequest は登録・ログインリクエストのボディ。
type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// tokenResponse はログイン成功のレスポンス。
type tokenResponse struct {
	Token string `json:"token"`
}

// Register は新規ユーザーを登録する。
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.accounts.Register(r.Context(), req.Username, req.Password); err != nil {
		switch {
		case errors.Is(err, model.ErrMissingCredentials):
			writeText(w, http.StatusBadRequest, "Username and password are required")
		case errors.Is(err, model.ErrDuplicateUser):
			writeText(w, http.StatusBadRequest, "User already exists")
		default:
			writeInternalServerError(w, err)
		}
		return
	}

	writeText(w, http.StatusOK, "User registered successfully")
}

// Login は資格情報を検証し、セッショントークンを発行する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	acct, err := h.accounts.VerifyCredentials(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, model.ErrInvalidCredentials) {
			writeText(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		writeInternalServerError(w, err)
		return
	}

	token, err := h.tokens.IssueToken(acct.Username)
	if err != nil {
		writeInternalServerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{Token: token})
}
