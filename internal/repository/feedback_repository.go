package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/studentools-api/internal/models"
)

const feedbackSchema = `CREATE TABLE IF NOT EXISTS feedback (
    id UUID PRIMARY KEY,
    type VARCHAR(32) NOT NULL DEFAULT 'general',
    message TEXT NOT NULL,
    email VARCHAR(320),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback (created_at DESC)`

// FeedbackRepository persists user feedback.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository constructs the repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// EnsureSchema creates the feedback table when missing.
func (r *FeedbackRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range strings.Split(feedbackSchema, ";\n") {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure feedback schema: %w", err)
		}
	}
	return nil
}

// Create inserts a feedback row.
func (r *FeedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	const query = `INSERT INTO feedback (id, type, message, email, created_at)
VALUES (:id, :type, :message, :email, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, feedback); err != nil {
		return fmt.Errorf("create feedback: %w", err)
	}
	return nil
}

// List returns a page of feedback, newest first, together with the total count.
func (r *FeedbackRepository) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = fmt.Sprintf(" WHERE type = $%d", len(args))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM feedback"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count feedback: %w", err)
	}

	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	args = append(args, size, (page-1)*size)
	query := fmt.Sprintf(`SELECT id, type, message, email, created_at FROM feedback%s
ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))

	var items []models.Feedback
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list feedback: %w", err)
	}
	return items, total, nil
}

// Ping reports whether the database answers.
func (r *FeedbackRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
