package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/nexusstudios/nexus-web/internal/model"
)

// ProfileFinder はプロフィールの検索に必要なインターフェース。
// repository.ProfileRepositoryの部分集合として定義する。
type ProfileFinder interface {
	FindByID(ctx context.Context, id string) (*model.Profile, error)
}

// NewRequireAdminMiddleware は管理者ロールを要求するミドルウェアを返す。
// SessionMiddlewareの後に配置すること。ロールを確認できない場合は
// 常に401 Unauthorizedで閉じる。拒否理由の詳細はレスポンスに含めない。
func NewRequireAdminMiddleware(profileFinder ProfileFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			profileID, err := ProfileIDFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			profile, err := profileFinder.FindByID(r.Context(), profileID)
			if err != nil {
				slog.Error("failed to find profile for admin check",
					slog.String("profile_id", profileID),
					slog.String("error", err.Error()),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}
			if profile == nil || profile.Role != model.RoleAdmin {
				slog.Warn("admin access denied",
					slog.String("profile_id", profileID),
					slog.String("path", r.URL.Path),
				)
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
