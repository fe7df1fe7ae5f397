package content

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nexusstudios/nexus-web/internal/model"
	"github.com/nexusstudios/nexus-web/internal/repository"
)

// VideoService はおすすめ動画設定のビジネスロジックを提供する。
type VideoService struct {
	settingRepo repository.SettingRepository
}

// NewVideoService はVideoServiceを生成する。
func NewVideoService(settingRepo repository.SettingRepository) *VideoService {
	return &VideoService{settingRepo: settingRepo}
}

// Get は現在のおすすめ動画設定を返す。
// まだ一度も設定されていない場合はドキュメント化されたデフォルト値を返す。
// ストア障害とデフォルトへのフォールバックは区別し、障害はエラーとして返す。
func (s *VideoService) Get(ctx context.Context) (*model.FeaturedVideo, error) {
	video, err := s.settingRepo.GetFeaturedVideo(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get featured video: %w", err)
	}
	if video == nil {
		return model.DefaultFeaturedVideo(), nil
	}
	return video, nil
}

// Set はおすすめ動画設定を更新する。URLとタイトルは必須。
// isLiveは省略可能で、ゼロ値（false）のまま保存される。
func (s *VideoService) Set(ctx context.Context, video *model.FeaturedVideo) error {
	if strings.TrimSpace(video.URL) == "" {
		return model.NewValidationError("URL is required")
	}
	if strings.TrimSpace(video.Title) == "" {
		return model.NewValidationError("Title is required")
	}

	if err := s.settingRepo.UpsertFeaturedVideo(ctx, video); err != nil {
		return fmt.Errorf("failed to upsert featured video: %w", err)
	}

	slog.Info("featured video updated",
		slog.String("url", video.URL),
		slog.Bool("is_live", video.IsLive),
	)
	return nil
}
