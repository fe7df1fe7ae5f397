// Package contact は問い合わせフォームの受付を提供する。
package contact

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nexusstudios/nexus-web/internal/model"
	"github.com/nexusstudios/nexus-web/internal/repository"
)

// emailPattern はメールアドレスの形式検証パターン。
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Service は問い合わせに関するビジネスロジックを提供する。
type Service struct {
	contactRepo repository.ContactRepository
}

// NewService はServiceを生成する。
func NewService(contactRepo repository.ContactRepository) *Service {
	return &Service{contactRepo: contactRepo}
}

// Submit は問い合わせを受け付けて保存する。
// 同一人物からの再送信も全て独立したレコードとして受け付ける。
// バリデーションエラーのメッセージには不備のあったフィールド名を含める。
func (s *Service) Submit(ctx context.Context, name, email, message string) error {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)

	if name == "" {
		return model.NewValidationError("Name is required")
	}
	if email == "" {
		return model.NewValidationError("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return model.NewValidationError("Invalid email format")
	}
	if message == "" {
		return model.NewValidationError("Message is required")
	}

	submission := &model.ContactSubmission{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Message:   message,
		CreatedAt: time.Now(),
	}

	if err := s.contactRepo.Create(ctx, submission); err != nil {
		return fmt.Errorf("failed to create contact submission: %w", err)
	}

	slog.Info("contact form submitted", slog.String("submission_id", submission.ID))
	return nil
}

// ListSubmissions は全問い合わせを送信日時の降順で返す。管理画面用。
func (s *Service) ListSubmissions(ctx context.Context) ([]*model.ContactSubmission, error) {
	submissions, err := s.contactRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}
	return submissions, nil
}
