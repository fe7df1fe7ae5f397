package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nexusstudios/nexus-web/internal/model"
)

// VideoServiceInterface はおすすめ動画ハンドラーが必要とするサービスインターフェース。
type VideoServiceInterface interface {
	Get(ctx context.Context) (*model.FeaturedVideo, error)
	Set(ctx context.Context, video *model.FeaturedVideo) error
}

// LeaderboardStoreInterface はリーダーボードハンドラーが必要とするストアインターフェース。
type LeaderboardStoreInterface interface {
	Snapshot() []model.Player
	Replace(players []model.Player)
}

// ContentHandler はおすすめ動画・リーダーボードのHTTPハンドラー。
// GETは公開、POSTはルーティング側で管理者ゲートを通す。
type ContentHandler struct {
	video            VideoServiceInterface
	leaderboard      LeaderboardStoreInterface
	videoPollSeconds int
}

// NewContentHandler はContentHandlerを生成する。
// videoPollIntervalはクライアントが動画設定を再取得する推奨間隔。
func NewContentHandler(video VideoServiceInterface, leaderboard LeaderboardStoreInterface, videoPollInterval time.Duration) *ContentHandler {
	return &ContentHandler{
		video:            video,
		leaderboard:      leaderboard,
		videoPollSeconds: int(videoPollInterval / time.Second),
	}
}

// setVideoRequest はおすすめ動画更新リクエストのボディ。
type setVideoRequest struct {
	URL    string `json:"url"`
	Title  string `json:"title"`
	IsLive bool   `json:"isLive"`
}

// setVideoResponse はおすすめ動画更新のレスポンス。
type setVideoResponse struct {
	Success bool                `json:"success"`
	Data    model.FeaturedVideo `json:"data"`
}

// getVideoResponse はおすすめ動画取得のレスポンス。
// pollIntervalSecondsはクライアントが次に再取得するまでの推奨秒数（設定値）。
type getVideoResponse struct {
	model.FeaturedVideo
	PollIntervalSeconds int `json:"pollIntervalSeconds"`
}

// GetVideo はおすすめ動画設定を返す。
// クライアントがポーリングで再取得するためキャッシュは常に禁止し、
// ポーリング間隔をレスポンスで配布する。
// GET /api/video
func (h *ContentHandler) GetVideo(w http.ResponseWriter, r *http.Request) {
	video, err := h.video.Get(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, getVideoResponse{
		FeaturedVideo:       *video,
		PollIntervalSeconds: h.videoPollSeconds,
	})
}

// SetVideo はおすすめ動画設定を更新する。
// POST /api/video
func (h *ContentHandler) SetVideo(w http.ResponseWriter, r *http.Request) {
	var req setVideoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Failed to parse request body"))
		return
	}

	video := &model.FeaturedVideo{
		URL:    req.URL,
		Title:  req.Title,
		IsLive: req.IsLive,
	}
	if err := h.video.Set(r.Context(), video); err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, setVideoResponse{
		Success: true,
		Data:    *video,
	})
}

// setLeaderboardResponse はリーダーボード更新のレスポンス。
type setLeaderboardResponse struct {
	Message string         `json:"message"`
	Data    []model.Player `json:"data"`
}

// GetLeaderboard は現在のリーダーボードを返す。
// GET /api/leaderboard
func (h *ContentHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.leaderboard.Snapshot())
}

// SetLeaderboard はリーダーボードを全置換する。
// ランクと勝率はストア側で再計算されるため、置換後のスナップショットを返す。
// POST /api/leaderboard
func (h *ContentHandler) SetLeaderboard(w http.ResponseWriter, r *http.Request) {
	var players []model.Player
	if err := json.NewDecoder(r.Body).Decode(&players); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("Invalid data format. Expected an array."))
		return
	}

	h.leaderboard.Replace(players)

	writeJSON(w, http.StatusOK, setLeaderboardResponse{
		Message: "Leaderboard updated successfully",
		Data:    h.leaderboard.Snapshot(),
	})
}
