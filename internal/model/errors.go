package model

import "errors"

// ドメインエラー。ハンドラー層でHTTPステータスと固定メッセージに変換する。
var (
	// ErrBookNotFound は指定ISBNの書籍が存在しないことを示す。
	ErrBookNotFound = errors.New("book not found")
	// ErrNoBooksFound は著者・タイトル検索の結果が0件であることを示す。
	ErrNoBooksFound = errors.New("no books found")
	// ErrDuplicateUser は登録済みユーザー名での再登録を示す。
	ErrDuplicateUser = errors.New("user already exists")
	// ErrMissingCredentials はusernameまたはpasswordの欠落を示す。
	ErrMissingCredentials = errors.New("username and password are required")
	// ErrInvalidCredentials はログイン失敗を示す。
	// 未知のユーザーとパスワード不一致は呼び出し側から区別できない。
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoToken はトークンが未提示であることを示す。
	ErrNoToken = errors.New("token required")
	// ErrInvalidToken は署名不正・破損・期限切れのトークンを示す。
	ErrInvalidToken = errors.New("invalid token")
)
