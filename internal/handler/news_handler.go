package handler

import (
	"context"
	"net/http"

	"github.com/nexusstudios/nexus-web/internal/model"
)

// NewsServiceInterface はニュースハンドラーが必要とするサービスインターフェース。
type NewsServiceInterface interface {
	Latest(ctx context.Context) ([]model.NewsItem, error)
}

// NewsHandler は業界ニュース集約のHTTPハンドラー。
type NewsHandler struct {
	service NewsServiceInterface
}

// NewNewsHandler はNewsHandlerを生成する。
func NewNewsHandler(service NewsServiceInterface) *NewsHandler {
	return &NewsHandler{service: service}
}

// News は最新のサニタイズ済みニュース一覧を返す。
// GET /api/news
func (h *NewsHandler) News(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.Latest(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}
