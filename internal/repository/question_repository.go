package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trth/performance-api/internal/models"
)

const questionColumns = `id, category, question, description, weight, sort_order,
	is_active, applicable_level, created_at, updated_at`

// QuestionRepository persists the question bank.
type QuestionRepository struct {
	db *sqlx.DB
}

// NewQuestionRepository constructs the repository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// Create inserts a question.
func (r *QuestionRepository) Create(ctx context.Context, question *models.Question) error {
	if question.ID == "" {
		question.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if question.CreatedAt.IsZero() {
		question.CreatedAt = now
	}
	question.UpdatedAt = now
	const query = `INSERT INTO questions
	(id, category, question, description, weight, sort_order, is_active, applicable_level, created_at, updated_at)
	VALUES (:id, :category, :question, :description, :weight, :sort_order, :is_active, :applicable_level, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, question); err != nil {
		return fmt.Errorf("create question: %w", err)
	}
	return nil
}

// GetByID fetches one question.
func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*models.Question, error) {
	query := fmt.Sprintf("SELECT %s FROM questions WHERE id = $1", questionColumns)
	var question models.Question
	if err := r.db.GetContext(ctx, &question, query, id); err != nil {
		return nil, err
	}
	return &question, nil
}

// List returns questions matching the filter in display order.
func (r *QuestionRepository) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	baseQuery := fmt.Sprintf("SELECT %s FROM questions", questionColumns)
	var conditions []string
	var args []interface{}

	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.ApplicableLevel != "" {
		conditions = append(conditions, fmt.Sprintf("(applicable_level = '' OR applicable_level = $%d)", len(args)+1))
		args = append(args, filter.ApplicableLevel)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = TRUE")
	}
	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY sort_order, category"

	var questions []models.Question
	if err := r.db.SelectContext(ctx, &questions, baseQuery, args...); err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// Update rewrites the mutable columns of a question.
func (r *QuestionRepository) Update(ctx context.Context, question *models.Question) error {
	question.UpdatedAt = time.Now().UTC()
	const query = `UPDATE questions SET
	category = :category,
	question = :question,
	description = :description,
	weight = :weight,
	sort_order = :sort_order,
	is_active = :is_active,
	applicable_level = :applicable_level,
	updated_at = :updated_at
	WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, question)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check question update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a question from the bank.
func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM questions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check question delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Reorder persists a new display order for the given question ids.
func (r *QuestionRepository) Reorder(ctx context.Context, ids []string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx, "UPDATE questions SET sort_order = $2, updated_at = $3 WHERE id = $1", id, i+1, time.Now().UTC()); err != nil {
			return fmt.Errorf("reorder question %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}
