// Package handler はHTTPハンドラーとルーティングを提供する。
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// writeJSON はJSONレスポンスを書き込む。
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", slog.String("error", err.Error()))
	}
}

// writeText はプレーンテキストレスポンスを書き込む。
// 本サービスの成功・失敗メッセージはルートごとに固定されたテキストを使う。
func writeText(w http.ResponseWriter, statusCode int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(statusCode)
	w.Write([]byte(msg))
}

// writeInternalServerError は500の統一レスポンスを書き込む。
// 詳細はログのみに記録し、クライアントには一般的なメッセージを返す。
func writeInternalServerError(w http.ResponseWriter, err error) {
	slog.Error("internal error", slog.String("error", err.Error()))
	writeText(w, http.StatusInternalServerError, "Internal server error")
}
