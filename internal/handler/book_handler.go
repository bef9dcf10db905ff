package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/hondana/internal/model"
)

// CatalogReader は書籍ハンドラーが必要とするカタログ読み取りインターフェース。
type CatalogReader interface {
	// ListAll はコレクション全体を保持順で返す。
	ListAll(ctx context.Context) []model.Book
	// FindByISBN は一致するISBNの書籍を返す。見つからない場合はErrBookNotFound。
	FindByISBN(ctx context.Context, isbn string) (*model.Book, error)
	// FindByAuthor は著者名が完全一致する書籍を全件返す。0件の場合はErrNoBooksFound。
	FindByAuthor(ctx context.Context, author string) ([]model.Book, error)
	// FindByTitle はタイトルにfragmentを含む書籍を全件返す。0件の場合はErrNoBooksFound。
	FindByTitle(ctx context.Context, fragment string) ([]model.Book, error)
	// GetReview は書籍のレビューを返す。書籍が存在しない場合はErrBookNotFound。
	GetReview(ctx context.Context, isbn string) (string, error)
}

// BookHandler は書籍検索のHTTPハンドラー。
type BookHandler struct {
	catalog CatalogReader
}

// NewBookHandler はBookHandlerを生成する。
func NewBookHandler(catalog CatalogReader) *BookHandler {
	return &BookHandler{catalog: catalog}
}

// reviewResponse はレビュー取得のレスポンス。
type reviewResponse struct {
	Review string `json:"review"`
}

// ListBooks は書籍一覧を取得する。
// GET /books（および GET /async/books）
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.catalog.ListAll(r.Context()))
}

// GetBookByISBN はISBNで書籍を取得する。
// GET /books/isbn/:isbn（および GET /promise/book/:isbn）
func (h *BookHandler) GetBookByISBN(w http.ResponseWriter, r *http.Request) {
	isbn := pathParam(r, "isbn")

	book, err := h.catalog.FindByISBN(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			writeText(w, http.StatusNotFound, "Book not found")
			return
		}
		writeInternalServerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// GetBooksByAuthor は著者名で書籍を検索する。
// GET /books/author/:author（および GET /async/author/:author）
func (h *BookHandler) GetBooksByAuthor(w http.ResponseWriter, r *http.Request) {
	author := pathParam(r, "author")

	books, err := h.catalog.FindByAuthor(r.Context(), author)
	if err != nil {
		if errors.Is(err, model.ErrNoBooksFound) {
			writeText(w, http.StatusNotFound, "No books found")
			return
		}
		writeInternalServerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

// GetBooksByTitle はタイトルの部分一致で書籍を検索する。
// GET /books/title/:title（および GET /async/title/:title）
func (h *BookHandler) GetBooksByTitle(w http.ResponseWriter, r *http.Request) {
	fragment := pathParam(r, "title")

	books, err := h.catalog.FindByTitle(r.Context(), fragment)
	if err != nil {
		if errors.Is(err, model.ErrNoBooksFound) {
			writeText(w, http.StatusNotFound, "No books found")
			return
		}
		writeInternalServerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, books)
}

// GetReview は書籍のレビューを取得する。
// GET /books/review/:isbn
func (h *BookHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	isbn := pathParam(r, "isbn")

	review, err := h.catalog.GetReview(r.Context(), isbn)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			writeText(w, http.StatusNotFound, "Book not found")
			return
		}
		writeInternalServerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reviewResponse{Review: review})
}

// pathParam はURLパスパラメータをデコードして返す。
// 著者名やタイトルは空白等を含むためパーセントエンコードされてくる。
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}
