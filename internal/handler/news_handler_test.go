package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nexusstudios/nexus-web/internal/model"
)

// --- モック定義 ---

type mockNewsService struct {
	latestFn func(ctx context.Context) ([]model.NewsItem, error)
}

func (m *mockNewsService) Latest(ctx context.Context) ([]model.NewsItem, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx)
	}
	return nil, nil
}

// --- News のテスト ---

func TestNewsHandler_ReturnsItems(t *testing.T) {
	svc := &mockNewsService{
		latestFn: func(ctx context.Context) ([]model.NewsItem, error) {
			return []model.NewsItem{
				{Title: "Big tournament announced", Source: "Esports Wire", PublishedAt: time.Now()},
			}, nil
		},
	}
	h := NewNewsHandler(svc)

	w := httptest.NewRecorder()
	h.News(w, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var got []model.NewsItem
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Big tournament announced" {
		t.Errorf("items = %+v, want 1 item", got)
	}
}

func TestNewsHandler_Unavailable_Returns502(t *testing.T) {
	svc := &mockNewsService{
		latestFn: func(ctx context.Context) ([]model.NewsItem, error) {
			return nil, model.NewNewsUnavailableError()
		},
	}
	h := NewNewsHandler(svc)

	w := httptest.NewRecorder()
	h.News(w, httptest.NewRequest(http.MethodGet, "/api/news", nil))

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadGateway)
	}
	if body := decodeErrorBody(t, w); body.Code != model.ErrCodeNewsUnavailable {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeNewsUnavailable)
	}
}
