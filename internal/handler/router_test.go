package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nexusstudios/nexus-web/internal/metrics"
	"github.com/nexusstudios/nexus-web/internal/middleware"
	"github.com/nexusstudios/nexus-web/internal/model"
)

// --- モック定義 ---

type mockSessionFinder struct {
	findFn func(ctx context.Context, id string) (*model.Session, error)
}

func (m *mockSessionFinder) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findFn != nil {
		return m.findFn(ctx, id)
	}
	return nil, nil
}

type mockProfileFinder struct {
	findFn func(ctx context.Context, id string) (*model.Profile, error)
}

func (m *mockProfileFinder) FindByID(ctx context.Context, id string) (*model.Profile, error) {
	if m.findFn != nil {
		return m.findFn(ctx, id)
	}
	return nil, nil
}

// mockNewsletterFull は購読登録と管理操作を併せ持つモック。
type mockNewsletterFull struct {
	mockNewsletterSubscriber
	mockNewsletterAdmin
}

// mockContactFull は問い合わせの送信と一覧取得を併せ持つモック。
type mockContactFull struct {
	mockContactSubmitter
	mockContactAdmin
}

// newTestRouterDeps は全依存をモックで埋めたRouterDepsを返す。
// roleは管理者チェックで返すプロフィールのロール。
func newTestRouterDeps(role model.Role) *RouterDeps {
	return &RouterDeps{
		Logger: slog.New(slog.NewJSONHandler(io.Discard, nil)),
		SessionFinder: &mockSessionFinder{
			findFn: func(ctx context.Context, id string) (*model.Session, error) {
				if id != "sess-valid" {
					return nil, nil
				}
				return &model.Session{ID: id, ProfileID: "profile-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
			},
		},
		ProfileFinder: &mockProfileFinder{
			findFn: func(ctx context.Context, id string) (*model.Profile, error) {
				return &model.Profile{ID: id, Role: role}, nil
			},
		},
		CORSAllowedOrigin: "http://localhost:3000",
		RateLimiter:       middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig()),
		AuthService:       &mockAuthService{},
		AuthConfig:        testAuthConfig(),
		NewsletterService: &mockNewsletterFull{},
		ContactService:    &mockContactFull{},
		VideoService:      &mockVideoService{},
		VideoPollInterval: 60 * time.Second,
		LeaderboardStore:  &mockLeaderboardStore{},
		ChatClient:        &mockChatClient{},
		NewsService:       &mockNewsService{},
		DB:                &mockPinger{},
	}
}

// --- ルーティングのテスト ---

func TestRouter_PublicVideoEndpoint_SetsNoStoreHeaders(t *testing.T) {
	deps := newTestRouterDeps(model.RoleUser)
	defer deps.RateLimiter.Stop()
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/video", nil)
	req.RemoteAddr = "198.51.100.1:1234"
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if cc := w.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("Cache-Control = %q, want no-store", cc)
	}
	if w.Header().Get("Pragma") != "no-cache" {
		t.Errorf("Pragma = %q, want no-cache", w.Header().Get("Pragma"))
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected security headers on every response")
	}
}

func TestRouter_AdminEndpoint_WithoutSession_Returns401(t *testing.T) {
	deps := newTestRouterDeps(model.RoleAdmin)
	defer deps.RateLimiter.Stop()
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodPost, "/api/video",
		strings.NewReader(`{"url":"https://youtube.example/v","title":"t"}`))
	req.RemoteAddr = "198.51.100.1:1234"
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRouter_AdminEndpoint_WithAdminSession_Succeeds(t *testing.T) {
	deps := newTestRouterDeps(model.RoleAdmin)
	defer deps.RateLimiter.Stop()
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodPost, "/api/video",
		strings.NewReader(`{"url":"https://youtube.example/v","title":"t"}`))
	req.RemoteAddr = "198.51.100.1:1234"
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-valid"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}
}

func TestRouter_AdminEndpoint_WithUserRoleSession_Returns401(t *testing.T) {
	deps := newTestRouterDeps(model.RoleUser)
	defer deps.RateLimiter.Stop()
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodPost, "/api/send-newsletter",
		strings.NewReader(`{"emails":["a@example.com"],"subject":"s","content":"c"}`))
	req.RemoteAddr = "198.51.100.1:1234"
	req.AddCookie(&http.Cookie{Name: "session_id", Value: "sess-valid"})
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// roleがuserのセッションは管理操作に到達できない（フェイルクローズド）
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

func TestRouter_HealthEndpoint_Returns200(t *testing.T) {
	deps := newTestRouterDeps(model.RoleUser)
	defer deps.RateLimiter.Stop()
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestRouter_MetricsEndpoint_ServedWhenGathererProvided(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	deps := newTestRouterDeps(model.RoleUser)
	defer deps.RateLimiter.Stop()
	deps.Collector = collector
	deps.MetricsGatherer = reg
	router := NewRouter(deps)

	// 先に1リクエスト処理してステータスカウンタを進める
	warm := httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil)
	warm.RemoteAddr = "198.51.100.1:1234"
	router.ServeHTTP(httptest.NewRecorder(), warm)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "nexus_http_status_total") {
		t.Error("metrics output should contain nexus_http_status_total")
	}
}

func TestRouter_UnknownRoute_Returns404(t *testing.T) {
	deps := newTestRouterDeps(model.RoleUser)
	defer deps.RateLimiter.Stop()
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	req.RemoteAddr = "198.51.100.1:1234"
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestRouter_FormEndpoint_AppliesFormRateLimit(t *testing.T) {
	deps := newTestRouterDeps(model.RoleUser)
	config := middleware.DefaultRateLimiterConfig()
	config.FormBurst = 2
	deps.RateLimiter.Stop()
	deps.RateLimiter = middleware.NewRateLimiter(config)
	defer deps.RateLimiter.Stop()
	router := NewRouter(deps)

	var lastCode int
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/subscribe",
			strings.NewReader(`{"email":"fan@example.com"}`))
		req.RemoteAddr = "198.51.100.9:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		lastCode = w.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("third burst request status = %d, want %d", lastCode, http.StatusTooManyRequests)
	}
}
