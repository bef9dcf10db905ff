// Package model はドメインモデルを定義する。
package model

// NoReviewsYet はレビュー未登録の書籍に対して返す固定テキスト。
const NoReviewsYet = "No reviews yet"

// Book はカタログ内の書籍を表す。
// ReviewはnilとemptyStringを区別する: nilは「レビュー未登録」、
// 空文字列は「空のレビューが登録済み」を意味する。
type Book struct {
	ISBN   string  `json:"isbn"`
	Author string  `json:"author"`
	Title  string  `json:"title"`
	Review *string `json:"review,omitempty"`
}

// HasReview はレビューが登録されているかを返す。
func (b *Book) HasReview() bool {
	return b.Review != nil
}
