package handler

import (
	"context"
	"net/http"
)

// Pinger は永続化媒体の死活確認インターフェース。
// repositoryの各実装が満たす。
type Pinger interface {
	Ping(ctx context.Context) error
}

// NewHealthHandler はヘルスチェックハンドラーを返す。
// すべてのpingerが成功すれば200、いずれかが失敗すれば503を返す。
func NewHealthHandler(pingers ...Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, p := range pingers {
			if err := p.Ping(r.Context()); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
