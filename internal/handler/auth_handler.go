package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/nexusstudios/nexus-web/internal/model"
)

const (
	sessionCookieName = "session_id"
	oauthStateCookie  = "oauth_state"
	// isAdminParam は管理画面からのログイン開始を示すクエリパラメータ。
	// コールバックまで引き回し、非管理者のすり抜けを検出する。
	isAdminParam = "isAdmin"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	GetLoginURL(state string) string
	HandleCallback(ctx context.Context, code string) (*model.Session, *model.Profile, error)
	Logout(ctx context.Context, sessionID string) error
	RevokeProfileSessions(ctx context.Context, profileID string) error
	GetCurrentProfile(ctx context.Context, sessionID string) (*model.Profile, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	BaseURL       string
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はOAuth認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		config:  config,
	}
}

// Login はGoogle OAuthフローを開始する。
// GET /auth/google/login?isAdmin=true
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := generateState()
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// isAdminフラグはstateに埋め込んでコールバックまで引き回す
	if r.URL.Query().Get(isAdminParam) == "true" {
		state += ".admin"
	}

	// stateをCookieに保存（CSRF対策）
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10分
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	url := h.service.GetLoginURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// Callback はOAuthコールバックを処理し、プロフィールのroleに応じて
// リダイレクト先を振り分ける。
//
//	管理者 → /admin/dashboard
//	isAdmin指定の非管理者 → セッションを破棄して /login?isAdmin=true&error=unauthorized
//	一般ユーザー → /dashboard
//	プロバイダーエラー → /login?error=auth_callback_error
//
// GET /auth/google/callback?code=xxx&state=yyy
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	// 1. stateの検証（CSRF対策）
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value != state || state == "" {
		slog.Warn("oauth state mismatch",
			slog.String("query_state", state),
		)
		http.Redirect(w, r, h.config.BaseURL+"/login?error=auth_callback_error", http.StatusTemporaryRedirect)
		return
	}
	isAdminIntent := hasAdminIntent(state)

	// stateクッキーを削除
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// 2. 認可コードの取得
	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, h.config.BaseURL+"/login?error=auth_callback_error", http.StatusTemporaryRedirect)
		return
	}

	// 3. 認証処理（初回ログイン時はプロフィール自動作成）
	session, profile, err := h.service.HandleCallback(r.Context(), code)
	if err != nil {
		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		http.Redirect(w, r, h.config.BaseURL+"/login?error=auth_callback_error", http.StatusTemporaryRedirect)
		return
	}

	// 4. 管理画面経由のログインで管理者権限がない場合は
	// 該当プロフィールの全セッションを破棄して差し戻す
	if isAdminIntent && profile.Role != model.RoleAdmin {
		if revokeErr := h.service.RevokeProfileSessions(r.Context(), profile.ID); revokeErr != nil {
			slog.Error("failed to revoke sessions for non-admin login",
				slog.String("error", revokeErr.Error()),
			)
		}
		slog.Warn("admin login rejected",
			slog.String("profile_id", profile.ID),
			slog.String("role", string(profile.Role)),
		)
		http.Redirect(w, r, h.config.BaseURL+"/login?isAdmin=true&error=unauthorized", http.StatusTemporaryRedirect)
		return
	}

	// 5. セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// 6. roleに応じたリダイレクト
	if profile.Role == model.RoleAdmin {
		http.Redirect(w, r, h.config.BaseURL+"/admin/dashboard", http.StatusTemporaryRedirect)
		return
	}
	http.Redirect(w, r, h.config.BaseURL+"/dashboard", http.StatusTemporaryRedirect)
}

// Logout はセッションを破棄する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.config.BaseURL, http.StatusTemporaryRedirect)
}

// Me は現在のログインユーザーのプロフィール情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	profile, err := h.service.GetCurrentProfile(r.Context(), cookie.Value)
	if err != nil {
		slog.Error("failed to get current profile", slog.String("error", err.Error()))
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":    profile.ID,
		"email": profile.Email,
		"name":  profile.Name,
		"role":  string(profile.Role),
	})
}

// hasAdminIntent はstate値に管理画面ログインのマーカーが付いているかを返す。
func hasAdminIntent(state string) bool {
	return len(state) > 6 && state[len(state)-6:] == ".admin"
}

// generateState はCSRF対策用のランダムなstate値を生成する。
func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
