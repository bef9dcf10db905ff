// Package model はドメインモデルを定義する。
package model

// Account は登録済みユーザーを表す。
// PasswordHashにはbcryptハッシュを格納する。平文パスワードは保持しない。
type Account struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password"`
}

// Claims は検証済みトークンから取り出した識別情報を表す。
type Claims struct {
	Username string
}
