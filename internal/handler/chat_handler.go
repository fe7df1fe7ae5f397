package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nexusstudios/nexus-web/internal/metrics"
	"github.com/nexusstudios/nexus-web/internal/model"
)

// ChatClientInterface はチャットハンドラーが必要とするクライアントインターフェース。
type ChatClientInterface interface {
	Complete(ctx context.Context, messages []model.ChatMessage) (string, error)
}

// ChatHandler はAIチャット中継のHTTPハンドラー。
type ChatHandler struct {
	client    ChatClientInterface
	collector metrics.MetricsCollector
}

// NewChatHandler はChatHandlerを生成する。collectorはnil可。
func NewChatHandler(client ChatClientInterface, collector metrics.MetricsCollector) *ChatHandler {
	return &ChatHandler{
		client:    client,
		collector: collector,
	}
}

// chatRequest はチャットリクエストのボディ。
type chatRequest struct {
	Messages []model.ChatMessage `json:"messages"`
}

// chatResponse はチャットレスポンス。
type chatResponse struct {
	Response string `json:"response"`
}

// Chat はチャットメッセージをLLMプロバイダーに中継する。
// 会話履歴はサーバー側に保持しない。
// POST /api/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Failed to parse request body"))
		return
	}

	start := time.Now()
	reply, err := h.client.Complete(r.Context(), req.Messages)
	if h.collector != nil {
		h.collector.RecordChatRequest()
		h.collector.RecordChatLatency(time.Since(start))
	}
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Response: reply})
}
