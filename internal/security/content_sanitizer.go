// Package security はアプリケーションのセキュリティ機能を提供する。
//
// ContentSanitizerService は外部ニュースフィード由来のHTML断片をサニタイズし、
// XSS攻撃などのセキュリティリスクからサイト訪問者を保護する。
// bluemondayライブラリを使用した許可リストベースのポリシーで、
// 安全なタグと属性のみを通過させる。
package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizerService はHTMLコンテンツのサニタイズ機能のインターフェースを定義する。
// ニュース記事の要約をAPIで返す前に使用される。
type ContentSanitizerService interface {
	// SanitizeSummary はニュース記事の要約をサニタイズして安全なHTMLを返す。
	// インライン装飾タグ（p, br, a, strong, em）のみを通過させ、
	// script, iframe, img, styleタグおよびon*イベント属性を除去する。
	// aタグにはtarget="_blank"とrel="noopener noreferrer"が自動付与される。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	SanitizeSummary(rawHTML string) string

	// StripTags はHTMLタグを全て除去しプレーンテキストを返す。
	// タイトルなどマークアップを一切許可しないフィールドに使用する。
	StripTags(rawHTML string) string
}

// contentSanitizer はContentSanitizerServiceの実装。
// bluemondayのポリシーを保持し、スレッドセーフにサニタイズ処理を行う。
type contentSanitizer struct {
	summaryPolicy *bluemonday.Policy
	strictPolicy  *bluemonday.Policy
}

// NewContentSanitizer はContentSanitizerServiceの新しいインスタンスを生成する。
// 初期化時にbluemondayのカスタムポリシーを構築する。
// 要約用ポリシーの内容:
//   - 許可タグ: p, br, a, strong, em
//   - 禁止タグ: script, iframe, img, style および全てのon*イベント属性
//   - aタグ: target="_blank" と rel="noreferrer noopener" を自動付与
func NewContentSanitizer() *contentSanitizer {
	summary := bluemonday.NewPolicy()

	// ニュース要約はカード表示のためインライン装飾のみ許可する。
	// 許可リストに含めないタグ（script, iframe, img等）は自動的に除去される。
	summary.AllowElements("p", "br", "strong", "em")

	// リンクは絶対URLのみ許可し、別タブで開かせる
	summary.AllowAttrs("href").OnElements("a")
	summary.AllowRelativeURLs(false)
	summary.AddTargetBlankToFullyQualifiedLinks(true)
	summary.RequireNoReferrerOnLinks(true)

	return &contentSanitizer{
		summaryPolicy: summary,
		strictPolicy:  bluemonday.StrictPolicy(),
	}
}

// SanitizeSummary はニュース記事の要約をサニタイズして安全なHTMLを返す。
func (s *contentSanitizer) SanitizeSummary(rawHTML string) string {
	return s.summaryPolicy.Sanitize(rawHTML)
}

// StripTags はHTMLタグを全て除去しプレーンテキストを返す。
func (s *contentSanitizer) StripTags(rawHTML string) string {
	return strings.TrimSpace(s.strictPolicy.Sanitize(rawHTML))
}
