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

const assessmentColumns = `id, title, description, category, status, employee_id, assessor_id,
	period_start, period_end, due_date,
	self_score, manager_score, approver2_score, approver3_score, gm_score, final_score,
	revision, created_at, updated_at, submitted_at, approved_at, completed_at`

// AssessmentRepository persists review cycles.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository constructs the repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create inserts a new assessment row.
func (r *AssessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	if assessment.ID == "" {
		assessment.ID = uuid.NewString()
	}
	if assessment.Status == "" {
		assessment.Status = models.StatusDraft
	}
	now := time.Now().UTC()
	if assessment.CreatedAt.IsZero() {
		assessment.CreatedAt = now
	}
	assessment.UpdatedAt = now
	const query = `INSERT INTO assessments
	(id, title, description, category, status, employee_id, assessor_id,
	 period_start, period_end, due_date,
	 self_score, manager_score, approver2_score, approver3_score, gm_score, final_score,
	 revision, created_at, updated_at, submitted_at, approved_at, completed_at)
	VALUES (:id, :title, :description, :category, :status, :employee_id, :assessor_id,
	 :period_start, :period_end, :due_date,
	 :self_score, :manager_score, :approver2_score, :approver3_score, :gm_score, :final_score,
	 :revision, :created_at, :updated_at, :submitted_at, :approved_at, :completed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assessment); err != nil {
		return fmt.Errorf("create assessment: %w", err)
	}
	return nil
}

// GetByID fetches one assessment.
func (r *AssessmentRepository) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	query := fmt.Sprintf("SELECT %s FROM assessments WHERE id = $1", assessmentColumns)
	var assessment models.Assessment
	if err := r.db.GetContext(ctx, &assessment, query, id); err != nil {
		return nil, err
	}
	return &assessment, nil
}

// List returns assessments matching the filter with a total count.
func (r *AssessmentRepository) List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, int, error) {
	baseQuery := "FROM assessments WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("employee_id = $%d", len(args)+1))
		args = append(args, filter.EmployeeID)
	}
	if filter.AssessorID != "" {
		conditions = append(conditions, fmt.Sprintf("assessor_id = $%d", len(args)+1))
		args = append(args, filter.AssessorID)
	}
	if len(filter.Status) > 0 {
		placeholders := make([]string, len(filter.Status))
		for i, status := range filter.Status {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		conditions = append(conditions, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(title) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		assessmentColumns, baseQuery, pageSize, offset)

	var assessments []models.Assessment
	if err := r.db.SelectContext(ctx, &assessments, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list assessments: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + baseQuery
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count assessments: %w", err)
	}
	return assessments, total, nil
}

// UpdateTransition persists a workflow transition guarded by the revision
// counter. The row is only written when the stored revision still matches
// the one the caller loaded; otherwise sql.ErrNoRows is returned and the
// caller treats the transition as lost to a concurrent writer.
func (r *AssessmentRepository) UpdateTransition(ctx context.Context, assessment *models.Assessment) error {
	assessment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE assessments SET
	status = :status,
	self_score = :self_score,
	manager_score = :manager_score,
	approver2_score = :approver2_score,
	approver3_score = :approver3_score,
	gm_score = :gm_score,
	final_score = :final_score,
	submitted_at = :submitted_at,
	approved_at = :approved_at,
	completed_at = :completed_at,
	updated_at = :updated_at,
	revision = revision + 1
	WHERE id = :id AND revision = :revision`
	result, err := r.db.NamedExecContext(ctx, query, assessment)
	if err != nil {
		return fmt.Errorf("update assessment transition: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check assessment update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	assessment.Revision++
	return nil
}

// Delete removes an assessment. Responses cascade through the schema's
// foreign key.
func (r *AssessmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM assessments WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete assessment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check assessment delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Summary aggregates workflow status counts and the average final score.
func (r *AssessmentRepository) Summary(ctx context.Context) (*models.AssessmentSummary, error) {
	const query = `SELECT
	COUNT(*) AS total,
	COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed,
	COUNT(*) FILTER (WHERE status NOT IN ('COMPLETED', 'REJECTED')) AS pending,
	COUNT(*) FILTER (WHERE status = 'REJECTED') AS rejected,
	COALESCE(AVG(final_score) FILTER (WHERE final_score IS NOT NULL), 0) AS average_score
	FROM assessments`
	row := r.db.QueryRowxContext(ctx, query)
	var summary models.AssessmentSummary
	if err := row.Scan(&summary.Total, &summary.Completed, &summary.Pending, &summary.Rejected, &summary.AverageScore); err != nil {
		return nil, fmt.Errorf("assessment summary: %w", err)
	}
	return &summary, nil
}
