package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// ResendMailer はResend APIを使用したMailerの実装。
type ResendMailer struct {
	client *resend.Client
	from   string
}

// NewResendMailer はResendMailerを生成する。
// fromは配信元アドレス（例: "Nexus Studios <news@nexusstudios.example>"）。
func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

// Send はメールを1通送信し、ResendのメッセージIDを返す。
func (m *ResendMailer) Send(ctx context.Context, msg *Message) (string, error) {
	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      msg.To,
		Bcc:     msg.Bcc,
		Subject: msg.Subject,
		Html:    msg.HTML,
	}

	sent, err := m.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		slog.Error("failed to send email",
			slog.String("subject", msg.Subject),
			slog.Int("bcc_count", len(msg.Bcc)),
			slog.String("error", err.Error()),
		)
		return "", fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("email sent",
		slog.String("message_id", sent.Id),
		slog.String("subject", msg.Subject),
		slog.Int("bcc_count", len(msg.Bcc)),
	)
	return sent.Id, nil
}

// compile-time interface check
var _ Mailer = (*ResendMailer)(nil)
