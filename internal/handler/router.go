package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/nexusstudios/nexus-web/internal/metrics"
	"github.com/nexusstudios/nexus-web/internal/middleware"
)

// NewsletterServiceInterface は購読登録と管理操作を併せ持つインターフェース。
type NewsletterServiceInterface interface {
	NewsletterSubscriber
	NewsletterAdminInterface
}

// ContactServiceInterface は問い合わせの送信と一覧取得を併せ持つインターフェース。
type ContactServiceInterface interface {
	ContactSubmitter
	ContactAdminInterface
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	Logger            *slog.Logger
	SessionFinder     middleware.SessionFinder
	ProfileFinder     middleware.ProfileFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// メトリクス（CollectorとGathererは同一レジストリを指す。nil可）
	Collector       metrics.MetricsCollector
	MetricsGatherer prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	NewsletterService NewsletterServiceInterface
	ContactService    ContactServiceInterface
	VideoService      VideoServiceInterface
	VideoPollInterval time.Duration
	LeaderboardStore  LeaderboardStoreInterface
	ChatClient        ChatClientInterface
	NewsService       NewsServiceInterface

	// ヘルスチェック
	DB Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Recovery → Logging → (メトリクス)
//
// 公開APIには全体レート制限、フォーム送信には送信専用レート制限を重ねる。
// 管理系ルートはSession → RequireAdminで常にサーバー側でゲートする。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	if deps.Collector != nil {
		r.Use(newMetricsMiddleware(deps.Collector))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	formHandler := NewFormHandler(deps.NewsletterService, deps.ContactService, deps.Collector)
	adminHandler := NewAdminHandler(deps.NewsletterService, deps.ContactService, deps.VideoService, deps.LeaderboardStore, deps.Collector)
	contentHandler := NewContentHandler(deps.VideoService, deps.LeaderboardStore, deps.VideoPollInterval)
	chatHandler := NewChatHandler(deps.ChatClient, deps.Collector)
	newsHandler := NewNewsHandler(deps.NewsService)
	healthHandler := NewHealthHandler(deps.DB)

	// --- 運用エンドポイント（レート制限外） ---

	r.Get("/health", healthHandler.Health)
	if deps.MetricsGatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.MetricsGatherer))
	}

	// --- 認証ルート（OAuthフロー） ---

	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// --- 公開API ---
	// ミドルウェアスタック: RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// クライアントがポーリングする表示データはキャッシュ禁止
		r.With(middleware.NewNoStoreMiddleware()).Get("/api/video", contentHandler.GetVideo)
		r.With(middleware.NewNoStoreMiddleware()).Get("/api/leaderboard", contentHandler.GetLeaderboard)

		r.Get("/api/news", newsHandler.News)
		r.Post("/api/chat", chatHandler.Chat)

		// フォーム送信は送信専用の狭いレート制限を重ねる
		r.With(deps.RateLimiter.FormMiddleware()).Post("/api/subscribe", formHandler.Subscribe)
		r.With(deps.RateLimiter.FormMiddleware()).Post("/api/contact", formHandler.Contact)
	})

	// --- 管理者専用API ---
	// ミドルウェアスタック: RateLimit(General) → Session → RequireAdmin
	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(middleware.NewRequireAdminMiddleware(deps.ProfileFinder))

		r.Post("/api/video", contentHandler.SetVideo)
		r.Post("/api/leaderboard", contentHandler.SetLeaderboard)
		r.Post("/api/send-newsletter", adminHandler.SendNewsletter)

		r.Route("/api/admin", func(r chi.Router) {
			r.Get("/dashboard", adminHandler.Dashboard)
			r.Get("/subscribers", adminHandler.ListSubscribers)
			r.Get("/contacts", adminHandler.ListContacts)
		})
	})

	return r
}

// metricsStatusRecorder はレスポンスのステータスコードを記録するResponseWriter。
type metricsStatusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (mr *metricsStatusRecorder) WriteHeader(code int) {
	if !mr.wroteHeader {
		mr.status = code
		mr.wroteHeader = true
	}
	mr.ResponseWriter.WriteHeader(code)
}

func (mr *metricsStatusRecorder) Write(b []byte) (int, error) {
	if !mr.wroteHeader {
		mr.status = http.StatusOK
		mr.wroteHeader = true
	}
	return mr.ResponseWriter.Write(b)
}

// newMetricsMiddleware はレスポンスのステータスコードをコレクターに記録するミドルウェアを返す。
func newMetricsMiddleware(collector metrics.MetricsCollector) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &metricsStatusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			collector.RecordHTTPStatus(recorder.status)
		})
	}
}
