package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nexusstudios/nexus-web/internal/model"
)

// --- モック定義 ---

type mockAuthService struct {
	getLoginURLFn       func(state string) string
	handleCallbackFn    func(ctx context.Context, code string) (*model.Session, *model.Profile, error)
	logoutFn            func(ctx context.Context, sessionID string) error
	revokeSessionsFn    func(ctx context.Context, profileID string) error
	getCurrentProfileFn func(ctx context.Context, sessionID string) (*model.Profile, error)
}

func (m *mockAuthService) GetLoginURL(state string) string {
	if m.getLoginURLFn != nil {
		return m.getLoginURLFn(state)
	}
	return "https://accounts.google.com/o/oauth2/auth?state=" + state
}

func (m *mockAuthService) HandleCallback(ctx context.Context, code string) (*model.Session, *model.Profile, error) {
	if m.handleCallbackFn != nil {
		return m.handleCallbackFn(ctx, code)
	}
	return nil, nil, nil
}

func (m *mockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.logoutFn != nil {
		return m.logoutFn(ctx, sessionID)
	}
	return nil
}

func (m *mockAuthService) RevokeProfileSessions(ctx context.Context, profileID string) error {
	if m.revokeSessionsFn != nil {
		return m.revokeSessionsFn(ctx, profileID)
	}
	return nil
}

func (m *mockAuthService) GetCurrentProfile(ctx context.Context, sessionID string) (*model.Profile, error) {
	if m.getCurrentProfileFn != nil {
		return m.getCurrentProfileFn(ctx, sessionID)
	}
	return nil, nil
}

func testAuthConfig() AuthHandlerConfig {
	return AuthHandlerConfig{
		BaseURL:       "https://nexusstudios.example",
		CookieSecure:  true,
		SessionMaxAge: 86400,
	}
}

func sessionFixture(profileID string) *model.Session {
	return &model.Session{
		ID:        "sess-abc",
		ProfileID: profileID,
		ExpiresAt: time.Now().Add(time.Hour),
	}
}

func profileFixture(role model.Role) *model.Profile {
	return &model.Profile{
		ID:    "profile-1",
		Email: "player@example.com",
		Name:  "Player One",
		Role:  role,
	}
}

// callbackRequest はstate Cookie付きのコールバックリクエストを組み立てる。
func callbackRequest(state, code string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state="+state+"&code="+code, nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: state})
	return req
}

func findCookie(t *testing.T, resp *http.Response, name string) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// --- Login のテスト ---

func TestLogin_SetsStateCookieAndRedirects(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/login", nil)
	w := httptest.NewRecorder()

	h.Login(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}

	stateCookie := findCookie(t, resp, oauthStateCookie)
	if stateCookie == nil || stateCookie.Value == "" {
		t.Fatal("expected oauth state cookie to be set")
	}
	if !stateCookie.HttpOnly {
		t.Error("state cookie must be HttpOnly")
	}
}

func TestLogin_AdminIntent_EmbedsMarkerInState(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/login?isAdmin=true", nil)
	w := httptest.NewRecorder()

	h.Login(w, req)

	stateCookie := findCookie(t, w.Result(), oauthStateCookie)
	if stateCookie == nil {
		t.Fatal("expected oauth state cookie")
	}
	if !hasAdminIntent(stateCookie.Value) {
		t.Errorf("state %q should carry the admin marker", stateCookie.Value)
	}
}

// --- Callback のテスト ---

func TestCallback_AdminProfile_RedirectsToAdminDashboard(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.Session, *model.Profile, error) {
			return sessionFixture("profile-1"), profileFixture(model.RoleAdmin), nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	w := httptest.NewRecorder()
	h.Callback(w, callbackRequest("state-1", "code-1"))

	resp := w.Result()
	if resp.StatusCode != http.StatusTemporaryRedirect {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusTemporaryRedirect)
	}
	if loc := resp.Header.Get("Location"); loc != "https://nexusstudios.example/admin/dashboard" {
		t.Errorf("redirect = %q, want admin dashboard", loc)
	}

	sessionCookie := findCookie(t, resp, sessionCookieName)
	if sessionCookie == nil || sessionCookie.Value != "sess-abc" {
		t.Error("expected session cookie to be set")
	}
}

func TestCallback_RegularUser_RedirectsToDashboard(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.Session, *model.Profile, error) {
			return sessionFixture("profile-1"), profileFixture(model.RoleUser), nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	w := httptest.NewRecorder()
	h.Callback(w, callbackRequest("state-1", "code-1"))

	resp := w.Result()
	if loc := resp.Header.Get("Location"); loc != "https://nexusstudios.example/dashboard" {
		t.Errorf("redirect = %q, want user dashboard", loc)
	}
}

func TestCallback_NonAdminWithAdminIntent_RevokesAllSessionsAndRejects(t *testing.T) {
	var revokedProfile string
	svc := &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.Session, *model.Profile, error) {
			return sessionFixture("profile-1"), profileFixture(model.RoleUser), nil
		},
		revokeSessionsFn: func(ctx context.Context, profileID string) error {
			revokedProfile = profileID
			return nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	w := httptest.NewRecorder()
	h.Callback(w, callbackRequest("state-1.admin", "code-1"))

	resp := w.Result()
	if loc := resp.Header.Get("Location"); loc != "https://nexusstudios.example/login?isAdmin=true&error=unauthorized" {
		t.Errorf("redirect = %q, want unauthorized login redirect", loc)
	}
	if revokedProfile != "profile-1" {
		t.Errorf("revoked profile = %q, want all sessions of profile-1 revoked", revokedProfile)
	}

	sessionCookie := findCookie(t, resp, sessionCookieName)
	if sessionCookie != nil && sessionCookie.Value != "" {
		t.Error("session cookie must not be issued to a rejected admin login")
	}
}

func TestCallback_StateMismatch_RedirectsToErrorPage(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?state=evil&code=code-1", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "expected"})
	w := httptest.NewRecorder()

	h.Callback(w, req)

	resp := w.Result()
	if loc := resp.Header.Get("Location"); loc != "https://nexusstudios.example/login?error=auth_callback_error" {
		t.Errorf("redirect = %q, want auth error redirect", loc)
	}
}

func TestCallback_MissingCode_RedirectsToErrorPage(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	w := httptest.NewRecorder()
	h.Callback(w, callbackRequest("state-1", ""))

	resp := w.Result()
	if loc := resp.Header.Get("Location"); loc != "https://nexusstudios.example/login?error=auth_callback_error" {
		t.Errorf("redirect = %q, want auth error redirect", loc)
	}
}

func TestCallback_ProviderError_RedirectsToErrorPage(t *testing.T) {
	svc := &mockAuthService{
		handleCallbackFn: func(ctx context.Context, code string) (*model.Session, *model.Profile, error) {
			return nil, nil, context.DeadlineExceeded
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	w := httptest.NewRecorder()
	h.Callback(w, callbackRequest("state-1", "code-1"))

	resp := w.Result()
	if loc := resp.Header.Get("Location"); loc != "https://nexusstudios.example/login?error=auth_callback_error" {
		t.Errorf("redirect = %q, want auth error redirect", loc)
	}
	if c := findCookie(t, resp, sessionCookieName); c != nil {
		t.Error("session cookie must not be set on provider error")
	}
}

// --- Logout のテスト ---

func TestLogout_DeletesSessionAndClearsCookie(t *testing.T) {
	var loggedOutSession string
	svc := &mockAuthService{
		logoutFn: func(ctx context.Context, sessionID string) error {
			loggedOutSession = sessionID
			return nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-abc"})
	w := httptest.NewRecorder()

	h.Logout(w, req)

	if loggedOutSession != "sess-abc" {
		t.Errorf("logged out session = %q, want sess-abc", loggedOutSession)
	}

	cleared := findCookie(t, w.Result(), sessionCookieName)
	if cleared == nil || cleared.MaxAge != -1 {
		t.Error("expected session cookie to be cleared")
	}
}

// --- Me のテスト ---

func TestMe_ReturnsProfileWithRole(t *testing.T) {
	svc := &mockAuthService{
		getCurrentProfileFn: func(ctx context.Context, sessionID string) (*model.Profile, error) {
			return profileFixture(model.RoleAdmin), nil
		},
	}
	h := NewAuthHandler(svc, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "sess-abc"})
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	for _, want := range []string{`"profile-1"`, `"player@example.com"`, `"admin"`} {
		if !strings.Contains(body, want) {
			t.Errorf("body %q missing %q", body, want)
		}
	}
}

func TestMe_NoSessionCookie_ReturnsUnauthorized(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, testAuthConfig())

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()

	h.Me(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}
