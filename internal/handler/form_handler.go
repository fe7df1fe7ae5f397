package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nexusstudios/nexus-web/internal/metrics"
	"github.com/nexusstudios/nexus-web/internal/model"
)

// NewsletterSubscriber は購読登録ハンドラーが必要とするサービスインターフェース。
type NewsletterSubscriber interface {
	Subscribe(ctx context.Context, email string) error
}

// ContactSubmitter は問い合わせハンドラーが必要とする送信インターフェース。
type ContactSubmitter interface {
	Submit(ctx context.Context, name, email, message string) error
}

// FormHandler は公開フォーム（購読登録・問い合わせ）のHTTPハンドラー。
type FormHandler struct {
	newsletter NewsletterSubscriber
	contact    ContactSubmitter
	collector  metrics.MetricsCollector
}

// NewFormHandler はFormHandlerを生成する。collectorはnil可。
func NewFormHandler(newsletter NewsletterSubscriber, contact ContactSubmitter, collector metrics.MetricsCollector) *FormHandler {
	return &FormHandler{
		newsletter: newsletter,
		contact:    contact,
		collector:  collector,
	}
}

// subscribeRequest は購読登録リクエストのボディ。
type subscribeRequest struct {
	Email string `json:"email"`
}

// contactRequest は問い合わせリクエストのボディ。
type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Subscribe はニュースレター購読登録を処理する。
// POST /api/subscribe
func (h *FormHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Failed to parse request body"))
		return
	}

	if err := h.newsletter.Subscribe(r.Context(), req.Email); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordSubscription()
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Subscription successful"})
}

// Contact は問い合わせフォームの送信を処理する。
// POST /api/contact
func (h *FormHandler) Contact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Failed to parse request body"))
		return
	}

	if err := h.contact.Submit(r.Context(), req.Name, req.Email, req.Message); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordContactSubmission()
	}
	writeJSON(w, http.StatusCreated, messageResponse{Message: "Contact form submitted successfully"})
}
