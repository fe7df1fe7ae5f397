package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/nexusstudios/nexus-web/internal/metrics"
	"github.com/nexusstudios/nexus-web/internal/middleware"
	"github.com/nexusstudios/nexus-web/internal/model"
	"github.com/nexusstudios/nexus-web/internal/newsletter"
)

// NewsletterAdminInterface は管理ハンドラーが必要とするニュースレター操作。
type NewsletterAdminInterface interface {
	SendNewsletter(ctx context.Context, recipients []string, subject, content, sentBy string) (*newsletter.DispatchResult, error)
	ListSubscribers(ctx context.Context) ([]*model.EmailSubscriber, error)
}

// ContactAdminInterface は管理ハンドラーが必要とする問い合わせ操作。
type ContactAdminInterface interface {
	ListSubmissions(ctx context.Context) ([]*model.ContactSubmission, error)
}

// AdminHandler は管理者専用APIのHTTPハンドラー。
// ルーティング側でSession＋RequireAdminミドルウェアを通した上で到達する。
type AdminHandler struct {
	newsletter  NewsletterAdminInterface
	contact     ContactAdminInterface
	video       VideoServiceInterface
	leaderboard LeaderboardStoreInterface
	collector   metrics.MetricsCollector
}

// NewAdminHandler はAdminHandlerを生成する。collectorはnil可。
func NewAdminHandler(
	newsletterSvc NewsletterAdminInterface,
	contactSvc ContactAdminInterface,
	videoSvc VideoServiceInterface,
	leaderboard LeaderboardStoreInterface,
	collector metrics.MetricsCollector,
) *AdminHandler {
	return &AdminHandler{
		newsletter:  newsletterSvc,
		contact:     contactSvc,
		video:       videoSvc,
		leaderboard: leaderboard,
		collector:   collector,
	}
}

// sendNewsletterRequest はニュースレター配信リクエストのボディ。
type sendNewsletterRequest struct {
	Emails  []string `json:"emails"`
	Subject string   `json:"subject"`
	Content string   `json:"content"`
}

// SendNewsletter はニュースレターの一斉配信を処理する。
// POST /api/send-newsletter
func (h *AdminHandler) SendNewsletter(w http.ResponseWriter, r *http.Request) {
	sentBy, err := middleware.ProfileIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req sendNewsletterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Failed to parse request body"))
		return
	}

	result, err := h.newsletter.SendNewsletter(r.Context(), req.Emails, req.Subject, req.Content, sentBy)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.collector != nil {
		h.collector.RecordNewsletterDispatch(result.RecipientCount)
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Newsletter sent successfully"})
}

// subscriberResponse は購読者のAPIレスポンス。
type subscriberResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// contactResponse は問い合わせのAPIレスポンス。
type contactResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ListSubscribers は全購読者を返す。
// GET /api/admin/subscribers
func (h *AdminHandler) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	subscribers, err := h.newsletter.ListSubscribers(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSubscriberResponses(subscribers))
}

// ListContacts は全問い合わせを返す。
// GET /api/admin/contacts
func (h *AdminHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	submissions, err := h.contact.ListSubmissions(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toContactResponses(submissions))
}

// dashboardSection はダッシュボードの1セクションを表す。
// セクションごとの取得失敗はページ全体の失敗にはせず、errorフィールドで返す。
type dashboardSection struct {
	Data  any    `json:"data"`
	Error string `json:"error,omitempty"`
}

// dashboardResponse はダッシュボード集約レスポンス。
type dashboardResponse struct {
	Subscribers dashboardSection `json:"subscribers"`
	Contacts    dashboardSection `json:"contacts"`
	Video       dashboardSection `json:"video"`
	Leaderboard dashboardSection `json:"leaderboard"`
}

// Dashboard は管理ダッシュボードの表示データを集約して返す。
// 4セクションを並行に取得し、失敗したセクションのみerrorを立てる。
// GET /api/admin/dashboard
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var resp dashboardResponse

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		subscribers, err := h.newsletter.ListSubscribers(ctx)
		if err != nil {
			resp.Subscribers = dashboardSection{Error: "Failed to load subscribers"}
			return
		}
		resp.Subscribers = dashboardSection{Data: toSubscriberResponses(subscribers)}
	}()

	go func() {
		defer wg.Done()
		submissions, err := h.contact.ListSubmissions(ctx)
		if err != nil {
			resp.Contacts = dashboardSection{Error: "Failed to load contact submissions"}
			return
		}
		resp.Contacts = dashboardSection{Data: toContactResponses(submissions)}
	}()

	go func() {
		defer wg.Done()
		video, err := h.video.Get(ctx)
		if err != nil {
			resp.Video = dashboardSection{Error: "Failed to load featured video"}
			return
		}
		resp.Video = dashboardSection{Data: video}
	}()

	go func() {
		defer wg.Done()
		resp.Leaderboard = dashboardSection{Data: h.leaderboard.Snapshot()}
	}()

	wg.Wait()
	writeJSON(w, http.StatusOK, resp)
}

func toSubscriberResponses(subscribers []*model.EmailSubscriber) []subscriberResponse {
	out := make([]subscriberResponse, 0, len(subscribers))
	for _, s := range subscribers {
		out = append(out, subscriberResponse{
			ID:        s.ID,
			Email:     s.Email,
			CreatedAt: s.CreatedAt,
		})
	}
	return out
}

func toContactResponses(submissions []*model.ContactSubmission) []contactResponse {
	out := make([]contactResponse, 0, len(submissions))
	for _, s := range submissions {
		out = append(out, contactResponse{
			ID:        s.ID,
			Name:      s.Name,
			Email:     s.Email,
			Message:   s.Message,
			CreatedAt: s.CreatedAt,
		})
	}
	return out
}
