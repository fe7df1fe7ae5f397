package model

import "time"

// NewsItem はブログ・esportsページに表示する業界ニュースの1件を表す。
// Summaryはサニタイズ済みHTML。外部フィード由来のため保存前に必ず
// サニタイズを通す。
type NewsItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Summary     string    `json:"summary"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_at"`
}
