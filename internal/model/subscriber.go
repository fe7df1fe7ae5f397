package model

import "time"

// EmailSubscriber はニュースレター購読者を表す。
// emailはDB側のUNIQUE制約で一意性を保証する（追記のみ、更新・削除経路なし）。
type EmailSubscriber struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// ContactSubmission は問い合わせフォームの送信内容を表す。追記のみ。
type ContactSubmission struct {
	ID        string
	Name      string
	Email     string
	Message   string
	CreatedAt time.Time
}

// NewsletterLog はニュースレター送信後に記録される監査行を表す。
// 送信成功時にのみ追記され、読み戻しはしない。
type NewsletterLog struct {
	ID             string
	Subject        string
	Content        string
	RecipientCount int
	SentBy         string
	SentAt         time.Time
}
