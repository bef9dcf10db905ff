// Package auth はセッショントークンの発行と検証を提供する。
// トークンはHS256署名のJWTであり、サーバー側には保存しない。
// 有効性は署名と有効期限のみで判定する（ステートレス）。
package auth

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/hitoshi/hondana/internal/model"
)

// tokenClaims はトークンに埋め込むクレーム。
type tokenClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service はトークンの発行と検証を行う。
type Service struct {
	secret []byte
	ttl    time.Duration
}

// NewService はServiceを生成する。
// secretは設定から供給される署名鍵。ttlはトークンの有効期間。
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{secret: []byte(secret), ttl: ttl}
}

// IssueToken はusernameを埋め込んだ署名付きトークンを発行する。
// 有効期限は発行時刻 + TTL。usernameは認証済みであることを前提とする。
func (s *Service) IssueToken(username string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	slog.Info("token issued",
		slog.String("username", username),
	)
	return signed, nil
}

// VerifyToken はトークンを検証し、埋め込まれたクレームを返す。
// 未提示の場合はErrNoToken、署名不正・破損・期限切れの場合は
// ErrInvalidTokenを返す。
func (s *Service) VerifyToken(tokenString string) (*model.Claims, error) {
	if tokenString == "" {
		return nil, model.ErrNoToken
	}

	parsed, err := jwt.ParseWithClaims(tokenString, &tokenClaims{},
		func(t *jwt.Token) (any, error) {
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.Username == "" {
		return nil, model.ErrInvalidToken
	}

	return &model.Claims{Username: claims.Username}, nil
}
