package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/nexusstudios/nexus-web/internal/model"
)

// uniqueViolation はPostgreSQLのUNIQUE制約違反のエラーコード。
const uniqueViolation = "23505"

// PostgresSubscriberRepo はPostgreSQLを使用した購読者リポジトリ。
type PostgresSubscriberRepo struct {
	db *sql.DB
}

// NewPostgresSubscriberRepo はPostgresSubscriberRepoを生成する。
func NewPostgresSubscriberRepo(db *sql.DB) *PostgresSubscriberRepo {
	return &PostgresSubscriberRepo{db: db}
}

// Create は購読者を作成する。
// 一意性はemailカラムのUNIQUE制約に委ね、制約違反はErrDuplicateEmailに変換する。
// 事前のSELECTによる存在チェックは行わない（チェックと挿入の間の競合を防げないため）。
func (r *PostgresSubscriberRepo) Create(ctx context.Context, subscriber *model.EmailSubscriber) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO email_subscribers (id, email, created_at)
		 VALUES ($1, $2, $3)`,
		subscriber.ID, subscriber.Email, subscriber.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert subscriber: %w", err)
	}
	return nil
}

// ListAll は全購読者を登録日時の降順で返す。
func (r *PostgresSubscriberRepo) ListAll(ctx context.Context) ([]*model.EmailSubscriber, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, email, created_at FROM email_subscribers ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	defer rows.Close()

	var subscribers []*model.EmailSubscriber
	for rows.Next() {
		s := &model.EmailSubscriber{}
		if err := rows.Scan(&s.ID, &s.Email, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate subscribers: %w", err)
	}

	return subscribers, nil
}

// compile-time interface check
var _ SubscriberRepository = (*PostgresSubscriberRepo)(nil)
