package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/hondana/internal/middleware"
	"github.com/hitoshi/hondana/internal/model"
)

// ReviewWriter はレビューハンドラーが必要とするカタログ書き込みインターフェース。
type ReviewWriter interface {
	// SetReview は書籍のレビューを上書きし、コレクション全体を永続化する。
	SetReview(ctx context.Context, isbn, text string) error
	// DeleteReview は書籍のレビューを削除し、コレクション全体を永続化する。
	DeleteReview(ctx context.Context, isbn string) error
}

// ReviewHandler はレビュー更新のHTTPハンドラー。
// ルーティング側でトークンミドルウェアの内側に配置すること。
type ReviewHandler struct {
	catalog ReviewWriter
}

// NewReviewHandler はReviewHandlerを生成する。
func NewReviewHandler(catalog ReviewWriter) *ReviewHandler {
	return &ReviewHandler{catalog: catalog}
}

// reviewRequest はレビュー登録リクエストのボディ。
type reviewRequest struct {
	Review string `json:"review"`
}

// SetReview は書籍のレビューを登録・更新する。
// POST /books/review/:isbn
func (h *ReviewHandler) SetReview(w http.ResponseWriter, r *http.Request) {
	isbn := pathParam(r, "isbn")

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.catalog.SetReview(r.Context(), isbn, req.Review); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			writeText(w, http.StatusNotFound, "Book not found")
			return
		}
		writeInternalServerError(w, err)
		return
	}

	if username, err := middleware.UsernameFromContext(r.Context()); err == nil {
		slog.Info("review updated",
			slog.String("isbn", isbn),
			slog.String("username", username),
		)
	}

	writeText(w, http.StatusOK, "Review added/updated successfully")
}

// DeleteReview は書籍のレビューを削除する。
// DELETE /books/review/:isbn
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	isbn := pathParam(r, "isbn")

	if err := h.catalog.DeleteReview(r.Context(), isbn); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			writeText(w, http.StatusNotFound, "Book not found")
			return
		}
		writeInternalServerError(w, err)
		return
	}

	if username, err := middleware.UsernameFromContext(r.Context()); err == nil {
		slog.Info("review deleted",
			slog.String("isbn", isbn),
			slog.String("username", username),
		)
	}

	writeText(w, http.StatusOK, "Review deleted successfully")
}
