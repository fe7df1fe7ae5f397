package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nexusstudios/nexus-web/internal/model"
)

// PostgresContactRepo はPostgreSQLを使用した問い合わせリポジトリ。
type PostgresContactRepo struct {
	db *sql.DB
}

// NewPostgresContactRepo はPostgresContactRepoを生成する。
func NewPostgresContactRepo(db *sql.DB) *PostgresContactRepo {
	return &PostgresContactRepo{db: db}
}

// Create は問い合わせを作成する。重複チェックは行わない。
func (r *PostgresContactRepo) Create(ctx context.Context, submission *model.ContactSubmission) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO contact_submissions (id, name, email, message, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		submission.ID, submission.Name, submission.Email, submission.Message, submission.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert contact submission: %w", err)
	}
	return nil
}

// ListAll は全問い合わせを送信日時の降順で返す。
func (r *PostgresContactRepo) ListAll(ctx context.Context) ([]*model.ContactSubmission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, message, created_at
		 FROM contact_submissions
		 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}
	defer rows.Close()

	var submissions []*model.ContactSubmission
	for rows.Next() {
		s := &model.ContactSubmission{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Message, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact submission: %w", err)
		}
		submissions = append(submissions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate contact submissions: %w", err)
	}

	return submissions, nil
}

// compile-time interface check
var _ ContactRepository = (*PostgresContactRepo)(nil)
