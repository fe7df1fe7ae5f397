package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nexusstudios/nexus-web/internal/model"
)

// PostgresNewsletterLogRepo はPostgreSQLを使用したニュースレター監査行リポジトリ。
type PostgresNewsletterLogRepo struct {
	db *sql.DB
}

// NewPostgresNewsletterLogRepo はPostgresNewsletterLogRepoを生成する。
func NewPostgresNewsletterLogRepo(db *sql.DB) *PostgresNewsletterLogRepo {
	return &PostgresNewsletterLogRepo{db: db}
}

// Create は送信成功後の監査行を追記する。
func (r *PostgresNewsletterLogRepo) Create(ctx context.Context, log *model.NewsletterLog) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO newsletter_logs (id, subject, content, recipient_count, sent_by, sent_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		log.ID, log.Subject, log.Content, log.RecipientCount, log.SentBy, log.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert newsletter log: %w", err)
	}
	return nil
}

// compile-time interface check
var _ NewsletterLogRepository = (*PostgresNewsletterLogRepo)(nil)
