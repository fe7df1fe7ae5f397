// Package mail はメール送信機能を提供する。
package mail

import "context"

// Message は送信するメールを表す。
// ニュースレター配信では購読者全員をBccに入れ、互いのアドレスを秘匿する。
type Message struct {
	To      []string
	Bcc     []string
	Subject string
	HTML    string
}

// Mailer はメール送信プロバイダーのインターフェース。
// テストではモック実装に差し替える。
type Mailer interface {
	// Send はメールを1通送信し、プロバイダーのメッセージIDを返す。
	Send(ctx context.Context, msg *Message) (string, error)
}
