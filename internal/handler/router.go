package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/hondana/internal/metrics"
	"github.com/hitoshi/hondana/internal/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	TokenVerifier     middleware.TokenVerifier

	// ドメインサービス
	Catalog  CatalogReader
	Reviews  ReviewWriter
	Accounts AccountService
	Tokens   TokenIssuer

	// 運用
	Pingers  []Pinger
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → CORS → Logging → RateLimit(General)
//
// レビュー更新ルートのみトークンミドルウェアの内側に配置する。
// /register と /login には総当たり対策の専用レート制限を追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// 記録系はnil-safe: メトリクス未設定でもルーターは動作する
	var requestRecorder middleware.RequestRecorder
	var authFailureRecorder middleware.AuthFailureRecorder
	if deps.Metrics != nil {
		requestRecorder = deps.Metrics
		authFailureRecorder = deps.Metrics
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(logger, requestRecorder))
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.GeneralMiddleware())
	}

	bookHandler := NewBookHandler(deps.Catalog)
	reviewHandler := NewReviewHandler(deps.Reviews)
	authHandler := NewAuthHandler(deps.Accounts, deps.Tokens)

	// --- 運用エンドポイント ---

	r.Get("/health", NewHealthHandler(deps.Pingers...))
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証不要のルート ---

	r.Get("/books", bookHandler.ListBooks)
	r.Get("/books/isbn/{isbn}", bookHandler.GetBookByISBN)
	r.Get("/books/author/{author}", bookHandler.GetBooksByAuthor)
	r.Get("/books/title/{title}", bookHandler.GetBooksByTitle)
	r.Get("/books/review/{isbn}", bookHandler.GetReview)

	// 遅延完了形のルート。同期形と同じ読み取りパスのエイリアスであり、
	// 同一のカタログ状態に対して同一のボディを返す。
	r.Get("/async/books", bookHandler.ListBooks)
	r.Get("/promise/book/{isbn}", bookHandler.GetBookByISBN)
	r.Get("/async/author/{author}", bookHandler.GetBooksByAuthor)
	r.Get("/async/title/{title}", bookHandler.GetBooksByTitle)

	// 登録・ログイン（専用レート制限を追加）
	if deps.RateLimiter != nil {
		r.With(deps.RateLimiter.AuthMiddleware()).Post("/register", authHandler.Register)
		r.With(deps.RateLimiter.AuthMiddleware()).Post("/login", authHandler.Login)
	} else {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	}

	// --- 認証が必要なルート ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewTokenMiddleware(deps.TokenVerifier, authFailureRecorder))

		r.Post("/books/review/{isbn}", reviewHandler.SetReview)
		r.Delete("/books/review/{isbn}", reviewHandler.DeleteReview)
	})

	return r
}
