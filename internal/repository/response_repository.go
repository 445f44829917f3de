package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trth/performance-api/internal/models"
)

const responseColumns = `id, assessment_id, question_id, question_title, question_weight,
	score_self, score_mgr, score_appr2, score_appr3, score_gm,
	comment_self, comment_mgr, comment_appr2, comment_appr3, comment_gm,
	created_at, updated_at`

// ResponseRepository persists per-question answers.
type ResponseRepository struct {
	db *sqlx.DB
}

// NewResponseRepository constructs the repository.
func NewResponseRepository(db *sqlx.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// ListByAssessment returns all responses for one assessment ordered by
// question id for stable aggregation.
func (r *ResponseRepository) ListByAssessment(ctx context.Context, assessmentID string) ([]models.Response, error) {
	query := fmt.Sprintf("SELECT %s FROM responses WHERE assessment_id = $1 ORDER BY question_id", responseColumns)
	var responses []models.Response
	if err := r.db.SelectContext(ctx, &responses, query, assessmentID); err != nil {
		return nil, fmt.Errorf("list responses: %w", err)
	}
	return responses, nil
}

// Create inserts a new response row.
func (r *ResponseRepository) Create(ctx context.Context, response *models.Response) error {
	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if response.CreatedAt.IsZero() {
		response.CreatedAt = now
	}
	response.UpdatedAt = now
	const query = `INSERT INTO responses
	(id, assessment_id, question_id, question_title, question_weight,
	 score_self, score_mgr, score_appr2, score_appr3, score_gm,
	 comment_self, comment_mgr, comment_appr2, comment_appr3, comment_gm,
	 created_at, updated_at)
	VALUES (:id, :assessment_id, :question_id, :question_title, :question_weight,
	 :score_self, :score_mgr, :score_appr2, :score_appr3, :score_gm,
	 :comment_self, :comment_mgr, :comment_appr2, :comment_appr3, :comment_gm,
	 :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, response); err != nil {
		return fmt.Errorf("create response: %w", err)
	}
	return nil
}

// Update rewrites the score and comment columns of one response row.
func (r *ResponseRepository) Update(ctx context.Context, response *models.Response) error {
	response.UpdatedAt = time.Now().UTC()
	const query = `UPDATE responses SET
	score_self = :score_self,
	score_mgr = :score_mgr,
	score_appr2 = :score_appr2,
	score_appr3 = :score_appr3,
	score_gm = :score_gm,
	comment_self = :comment_self,
	comment_mgr = :comment_mgr,
	comment_appr2 = :comment_appr2,
	comment_appr3 = :comment_appr3,
	comment_gm = :comment_gm,
	updated_at = :updated_at
	WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, response)
	if err != nil {
		return fmt.Errorf("update response: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check response update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByAssessment removes all responses for an assessment.
func (r *ResponseRepository) DeleteByAssessment(ctx context.Context, assessmentID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM responses WHERE assessment_id = $1", assessmentID); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	return nil
}
