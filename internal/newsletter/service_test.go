package newsletter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/nexusstudios/nexus-web/internal/mail"
	"github.com/nexusstudios/nexus-web/internal/model"
	"github.com/nexusstudios/nexus-web/internal/repository"
)

// --- モック定義 ---

type mockSubscriberRepo struct {
	createFn  func(ctx context.Context, subscriber *model.EmailSubscriber) error
	listAllFn func(ctx context.Context) ([]*model.EmailSubscriber, error)
}

func (m *mockSubscriberRepo) Create(ctx context.Context, subscriber *model.EmailSubscriber) error {
	if m.createFn != nil {
		return m.createFn(ctx, subscriber)
	}
	return nil
}

func (m *mockSubscriberRepo) ListAll(ctx context.Context) ([]*model.EmailSubscriber, error) {
	if m.listAllFn != nil {
		return m.listAllFn(ctx)
	}
	return nil, nil
}

type mockNewsletterLogRepo struct {
	createFn func(ctx context.Context, log *model.NewsletterLog) error
}

func (m *mockNewsletterLogRepo) Create(ctx context.Context, log *model.NewsletterLog) error {
	if m.createFn != nil {
		return m.createFn(ctx, log)
	}
	return nil
}

type mockMailer struct {
	sendFn func(ctx context.Context, msg *mail.Message) (string, error)
}

func (m *mockMailer) Send(ctx context.Context, msg *mail.Message) (string, error) {
	if m.sendFn != nil {
		return m.sendFn(ctx, msg)
	}
	return "msg-1", nil
}

// --- Subscribe のテスト ---

func TestSubscribe_ValidEmail_CreatesSubscriber(t *testing.T) {
	var created *model.EmailSubscriber
	repo := &mockSubscriberRepo{
		createFn: func(ctx context.Context, subscriber *model.EmailSubscriber) error {
			created = subscriber
			return nil
		},
	}

	svc := NewService(repo, &mockNewsletterLogRepo{}, &mockMailer{})

	if err := svc.Subscribe(context.Background(), "fan@example.com"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("expected subscriber to be created")
	}
	if created.Email != "fan@example.com" {
		t.Errorf("email = %q, want %q", created.Email, "fan@example.com")
	}
	if created.ID == "" {
		t.Error("expected generated subscriber ID")
	}
}

func TestSubscribe_TrimsWhitespace(t *testing.T) {
	var created *model.EmailSubscriber
	repo := &mockSubscriberRepo{
		createFn: func(ctx context.Context, subscriber *model.EmailSubscriber) error {
			created = subscriber
			return nil
		},
	}

	svc := NewService(repo, &mockNewsletterLogRepo{}, &mockMailer{})

	if err := svc.Subscribe(context.Background(), "  fan@example.com  "); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Email != "fan@example.com" {
		t.Errorf("email = %q, want trimmed address", created.Email)
	}
}

func TestSubscribe_EmptyEmail_ReturnsValidationError(t *testing.T) {
	svc := NewService(&mockSubscriberRepo{}, &mockNewsletterLogRepo{}, &mockMailer{})

	err := svc.Subscribe(context.Background(), "   ")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Email is required" {
		t.Errorf("message = %q, want %q", apiErr.Message, "Email is required")
	}
}

func TestSubscribe_InvalidFormat_ReturnsValidationError(t *testing.T) {
	svc := NewService(&mockSubscriberRepo{}, &mockNewsletterLogRepo{}, &mockMailer{})

	invalid := []string{
		"not-an-email",
		"missing@domain",
		"@example.com",
		"two words@example.com",
		"user@example .com",
	}

	for _, email := range invalid {
		err := svc.Subscribe(context.Background(), email)

		var apiErr *model.APIError
		if !errors.As(err, &apiErr) {
			t.Errorf("Subscribe(%q): expected APIError, got %v", email, err)
			continue
		}
		if apiErr.Message != "Invalid email format" {
			t.Errorf("Subscribe(%q): message = %q, want %q", email, apiErr.Message, "Invalid email format")
		}
	}
}

func TestSubscribe_DuplicateEmail_ReturnsAlreadySubscribed(t *testing.T) {
	repo := &mockSubscriberRepo{
		createFn: func(ctx context.Context, subscriber *model.EmailSubscriber) error {
			return repository.ErrDuplicateEmail
		},
	}

	svc := NewService(repo, &mockNewsletterLogRepo{}, &mockMailer{})

	err := svc.Subscribe(context.Background(), "fan@example.com")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeAlreadySubscribed {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeAlreadySubscribed)
	}
}

func TestSubscribe_RepositoryError_ReturnsWrappedError(t *testing.T) {
	repo := &mockSubscriberRepo{
		createFn: func(ctx context.Context, subscriber *model.EmailSubscriber) error {
			return fmt.Errorf("connection refused")
		},
	}

	svc := NewService(repo, &mockNewsletterLogRepo{}, &mockMailer{})

	err := svc.Subscribe(context.Background(), "fan@example.com")
	if err == nil {
		t.Fatal("expected error")
	}
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		t.Errorf("infrastructure failure should not map to APIError, got %v", apiErr)
	}
}

// --- SendNewsletter のテスト ---

func TestSendNewsletter_SendsSingleMessageWithAllRecipientsInBcc(t *testing.T) {
	var sentMessages []*mail.Message
	mailer := &mockMailer{
		sendFn: func(ctx context.Context, msg *mail.Message) (string, error) {
			sentMessages = append(sentMessages, msg)
			return "msg-42", nil
		},
	}

	var loggedEntry *model.NewsletterLog
	logRepo := &mockNewsletterLogRepo{
		createFn: func(ctx context.Context, log *model.NewsletterLog) error {
			loggedEntry = log
			return nil
		},
	}

	svc := NewService(&mockSubscriberRepo{}, logRepo, mailer)

	recipients := []string{"a@example.com", "b@example.com", "c@example.com"}
	result, err := svc.SendNewsletter(context.Background(), recipients, "Tournament Recap", "<p>We won!</p>", "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sentMessages) != 1 {
		t.Fatalf("sent %d messages, want exactly 1", len(sentMessages))
	}
	msg := sentMessages[0]
	if len(msg.Bcc) != 3 {
		t.Errorf("bcc count = %d, want 3", len(msg.Bcc))
	}
	for i, want := range recipients {
		if msg.Bcc[i] != want {
			t.Errorf("bcc[%d] = %q, want %q", i, msg.Bcc[i], want)
		}
	}
	if len(msg.To) != 0 {
		t.Errorf("recipients must be hidden in bcc, got visible to = %v", msg.To)
	}
	if result.RecipientCount != 3 {
		t.Errorf("recipient count = %d, want 3", result.RecipientCount)
	}
	if result.MessageID != "msg-42" {
		t.Errorf("message ID = %q, want %q", result.MessageID, "msg-42")
	}

	// 監査行の検証
	if loggedEntry == nil {
		t.Fatal("expected newsletter log entry")
	}
	if loggedEntry.RecipientCount != 3 {
		t.Errorf("logged recipient count = %d, want 3", loggedEntry.RecipientCount)
	}
	if loggedEntry.SentBy != "admin-1" {
		t.Errorf("logged sent_by = %q, want %q", loggedEntry.SentBy, "admin-1")
	}
}

func TestSendNewsletter_WrapsContentInLayout(t *testing.T) {
	var sentHTML string
	mailer := &mockMailer{
		sendFn: func(ctx context.Context, msg *mail.Message) (string, error) {
			sentHTML = msg.HTML
			return "msg-1", nil
		},
	}

	svc := NewService(&mockSubscriberRepo{}, &mockNewsletterLogRepo{}, mailer)

	_, err := svc.SendNewsletter(context.Background(), []string{"a@example.com"}, "Patch Notes", "<p>New season</p>", "admin-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{"Patch Notes", "<p>New season</p>", "Nexus Studios", "Unsubscribe"} {
		if !strings.Contains(sentHTML, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestSendNewsletter_EmptySubject_ReturnsValidationError(t *testing.T) {
	svc := NewService(&mockSubscriberRepo{}, &mockNewsletterLogRepo{}, &mockMailer{})

	_, err := svc.SendNewsletter(context.Background(), []string{"a@example.com"}, "  ", "<p>content</p>", "admin-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Subject is required" {
		t.Errorf("message = %q, want %q", apiErr.Message, "Subject is required")
	}
}

func TestSendNewsletter_EmptyContent_ReturnsValidationError(t *testing.T) {
	svc := NewService(&mockSubscriberRepo{}, &mockNewsletterLogRepo{}, &mockMailer{})

	_, err := svc.SendNewsletter(context.Background(), []string{"a@example.com"}, "Subject", "", "admin-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Content is required" {
		t.Errorf("message = %q, want %q", apiErr.Message, "Content is required")
	}
}

func TestSendNewsletter_NoRecipients_ReturnsValidationError(t *testing.T) {
	var sendCalled bool
	mailer := &mockMailer{
		sendFn: func(ctx context.Context, msg *mail.Message) (string, error) {
			sendCalled = true
			return "", nil
		},
	}

	svc := NewService(&mockSubscriberRepo{}, &mockNewsletterLogRepo{}, mailer)

	_, err := svc.SendNewsletter(context.Background(), nil, "Subject", "<p>c</p>", "admin-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "No recipients specified" {
		t.Errorf("message = %q, want %q", apiErr.Message, "No recipients specified")
	}
	if sendCalled {
		t.Error("mailer should not be called when there are no recipients")
	}
}

func TestSendNewsletter_MailerNotConfigured_ReturnsConfigError(t *testing.T) {
	svc := NewService(&mockSubscriberRepo{}, &mockNewsletterLogRepo{}, nil)

	_, err := svc.SendNewsletter(context.Background(), []string{"a@example.com"}, "Subject", "<p>c</p>", "admin-1")

	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeConfigMissing {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeConfigMissing)
	}
}

func TestSendNewsletter_MailerError_ReturnsError(t *testing.T) {
	mailer := &mockMailer{
		sendFn: func(ctx context.Context, msg *mail.Message) (string, error) {
			return "", fmt.Errorf("provider unavailable")
		},
	}

	var logCalled bool
	logRepo := &mockNewsletterLogRepo{
		createFn: func(ctx context.Context, log *model.NewsletterLog) error {
			logCalled = true
			return nil
		},
	}

	svc := NewService(&mockSubscriberRepo{}, logRepo, mailer)

	if _, err := svc.SendNewsletter(context.Background(), []string{"a@example.com"}, "Subject", "<p>c</p>", "admin-1"); err == nil {
		t.Fatal("expected error from mailer failure")
	}
	if logCalled {
		t.Error("failed dispatch should not be recorded in newsletter log")
	}
}

func TestSendNewsletter_LogFailure_DoesNotFailDispatch(t *testing.T) {
	logRepo := &mockNewsletterLogRepo{
		createFn: func(ctx context.Context, log *model.NewsletterLog) error {
			return fmt.Errorf("insert failed")
		},
	}

	svc := NewService(&mockSubscriberRepo{}, logRepo, &mockMailer{})

	result, err := svc.SendNewsletter(context.Background(), []string{"a@example.com"}, "Subject", "<p>c</p>", "admin-1")
	if err != nil {
		t.Fatalf("dispatch should succeed even if audit log fails, got %v", err)
	}
	if result.RecipientCount != 1 {
		t.Errorf("recipient count = %d, want 1", result.RecipientCount)
	}
}
