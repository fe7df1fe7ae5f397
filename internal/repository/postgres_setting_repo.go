package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/nexusstudios/nexus-web/internal/model"
)

// PostgresSettingRepo はPostgreSQLを使用したシングルトン設定リポジトリ。
type PostgresSettingRepo struct {
	db *sql.DB
}

// NewPostgresSettingRepo はPostgresSettingRepoを生成する。
func NewPostgresSettingRepo(db *sql.DB) *PostgresSettingRepo {
	return &PostgresSettingRepo{db: db}
}

// videoMetadata はsettings.metadata(JSONB)のシリアライズ形式。
type videoMetadata struct {
	Title  string `json:"title"`
	IsLive bool   `json:"isLive"`
}

// GetFeaturedVideo はおすすめ動画設定を取得する。未設定の場合はnilを返す。
func (r *PostgresSettingRepo) GetFeaturedVideo(ctx context.Context) (*model.FeaturedVideo, error) {
	var value string
	var metadataRaw []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT value, metadata FROM settings WHERE key = $1`,
		model.FeaturedVideoKey,
	).Scan(&value, &metadataRaw)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find featured video setting: %w", err)
	}

	var meta videoMetadata
	if err := json.Unmarshal(metadataRaw, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse featured video metadata: %w", err)
	}

	return &model.FeaturedVideo{
		URL:    value,
		Title:  meta.Title,
		IsLive: meta.IsLive,
	}, nil
}

// UpsertFeaturedVideo はおすすめ動画設定を固定キーに対してUPSERTする。
// 存在チェックと更新を分けず、ON CONFLICTで1文のアトミックな操作にする。
func (r *PostgresSettingRepo) UpsertFeaturedVideo(ctx context.Context, video *model.FeaturedVideo) error {
	metadataRaw, err := json.Marshal(videoMetadata{
		Title:  video.Title,
		IsLive: video.IsLive,
	})
	if err != nil {
		return fmt.Errorf("failed to encode featured video metadata: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, metadata, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (key) DO UPDATE
		 SET value = EXCLUDED.value, metadata = EXCLUDED.metadata, updated_at = now()`,
		model.FeaturedVideoKey, video.URL, metadataRaw,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert featured video setting: %w", err)
	}
	return nil
}

// compile-time interface check
var _ SettingRepository = (*PostgresSettingRepo)(nil)
