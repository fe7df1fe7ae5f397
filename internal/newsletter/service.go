// Package newsletter はニュースレターの購読登録と一斉配信を提供する。
package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nexusstudios/nexus-web/internal/mail"
	"github.com/nexusstudios/nexus-web/internal/model"
	"github.com/nexusstudios/nexus-web/internal/repository"
)

// emailPattern はメールアドレスの形式検証パターン。
// 空白と@の位置のみを見る緩い検証で、実在確認は行わない。
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service はニュースレターに関するビジネスロジックを提供する。
type Service struct {
	subscriberRepo repository.SubscriberRepository
	logRepo        repository.NewsletterLogRepository
	mailer         mail.Mailer
	mailConfigured bool
}

// NewService はServiceを生成する。
// mailerがnilの場合、配信操作は設定不足エラーを返す（購読登録は動作する）。
func NewService(
	subscriberRepo repository.SubscriberRepository,
	logRepo repository.NewsletterLogRepository,
	mailer mail.Mailer,
) *Service {
	return &Service{
		subscriberRepo: subscriberRepo,
		logRepo:        logRepo,
		mailer:         mailer,
		mailConfigured: mailer != nil,
	}
}

// Subscribe はメールアドレスを購読者リストに登録する。
// アドレスは前後の空白を除去してから検証・保存する。
// 登録済みアドレスの場合はALREADY_SUBSCRIBEDエラーを返す。
func (s *Service) Subscribe(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return model.NewValidationError("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return model.NewValidationError("Invalid email format")
	}

	subscriber := &model.EmailSubscriber{
		ID:        uuid.New().String(),
		Email:     email,
		CreatedAt: time.Now(),
	}

	if err := s.subscriberRepo.Create(ctx, subscriber); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.NewAlreadySubscribedError()
		}
		return fmt.Errorf("failed to create subscriber: %w", err)
	}

	slog.Info("subscriber added", slog.String("subscriber_id", subscriber.ID))
	return nil
}

// ListSubscribers は全購読者を登録日時の降順で返す。
func (s *Service) ListSubscribers(ctx context.Context) ([]*model.EmailSubscriber, error) {
	subscribers, err := s.subscriberRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subscribers, nil
}

// DispatchResult はニュースレター配信の結果を表す。
type DispatchResult struct {
	RecipientCount int
	MessageID      string
}

// SendNewsletter は指定された宛先リストにニュースレターを一斉配信する。
// 全宛先をBccに入れた1通のメールとして送信し、宛先同士のアドレスを秘匿する。
// 宛先が空の場合は配信せずにバリデーションエラーを返す。
// 送信成功後にnewsletter_logsへ監査行を追記する。監査行の書き込み失敗は
// 配信自体の失敗にはしない（メールは既に送られているため）。
func (s *Service) SendNewsletter(ctx context.Context, recipients []string, subject, content, sentBy string) (*DispatchResult, error) {
	if !s.mailConfigured {
		return nil, model.NewConfigMissingError("RESEND_API_KEY")
	}

	if len(recipients) == 0 {
		return nil, model.NewValidationError("No recipients specified")
	}
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, model.NewValidationError("Subject is required")
	}
	if strings.TrimSpace(content) == "" {
		return nil, model.NewValidationError("Content is required")
	}

	messageID, err := s.mailer.Send(ctx, &mail.Message{
		Bcc:     recipients,
		Subject: subject,
		HTML:    renderNewsletterHTML(subject, content),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to dispatch newsletter: %w", err)
	}

	logEntry := &model.NewsletterLog{
		ID:             uuid.New().String(),
		Subject:        subject,
		Content:        content,
		RecipientCount: len(recipients),
		SentBy:         sentBy,
		SentAt:         time.Now(),
	}
	if err := s.logRepo.Create(ctx, logEntry); err != nil {
		slog.Error("failed to record newsletter log",
			slog.String("subject", subject),
			slog.String("error", err.Error()),
		)
	}

	slog.Info("newsletter dispatched",
		slog.String("subject", subject),
		slog.Int("recipient_count", len(recipients)),
		slog.String("sent_by", sentBy),
	)

	return &DispatchResult{
		RecipientCount: len(recipients),
		MessageID:      messageID,
	}, nil
}

// renderNewsletterHTML はニュースレター本文をサイト共通のレイアウトで包む。
// contentは管理者が入力した信頼済みHTMLとしてそのまま埋め込む。
func renderNewsletterHTML(subject, content string) string {
	year := time.Now().Year()
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;background-color:#0a0a0a;color:#e5e5e5;font-family:Arial,sans-serif;">
  <div style="max-width:600px;margin:0 auto;padding:24px;">
    <h1 style="color:#7c3aed;">%s</h1>
    <div>%s</div>
    <hr style="border:none;border-top:1px solid #333;margin:24px 0;">
    <p style="font-size:12px;color:#888;">
      &copy; %d Nexus Studios. All rights reserved.<br>
      You received this email because you subscribed to the Nexus Studios newsletter.
      <a href="https://nexusstudios.example/unsubscribe" style="color:#7c3aed;">Unsubscribe</a>
    </p>
  </div>
</body>
</html>`, subject, content, year)
}
