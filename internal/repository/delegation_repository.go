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

const delegationColumns = `id, delegator_id, delegatee_id, permission, start_date, end_date,
	reason, is_active, created_at, updated_at, revoked_at, revoked_by`

// DelegationRepository persists permission grants.
type DelegationRepository struct {
	db *sqlx.DB
}

// NewDelegationRepository constructs the repository.
func NewDelegationRepository(db *sqlx.DB) *DelegationRepository {
	return &DelegationRepository{db: db}
}

// Create inserts a new delegation row.
func (r *DelegationRepository) Create(ctx context.Context, delegation *models.Delegation) error {
	if delegation.ID == "" {
		delegation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if delegation.CreatedAt.IsZero() {
		delegation.CreatedAt = now
	}
	delegation.UpdatedAt = now
	const query = `INSERT INTO delegations
	(id, delegator_id, delegatee_id, permission, start_date, end_date,
	 reason, is_active, created_at, updated_at, revoked_at, revoked_by)
	VALUES (:id, :delegator_id, :delegatee_id, :permission, :start_date, :end_date,
	 :reason, :is_active, :created_at, :updated_at, :revoked_at, :revoked_by)`
	if _, err := r.db.NamedExecContext(ctx, query, delegation); err != nil {
		return fmt.Errorf("create delegation: %w", err)
	}
	return nil
}

// GetByID fetches one delegation.
func (r *DelegationRepository) GetByID(ctx context.Context, id string) (*models.Delegation, error) {
	query := fmt.Sprintf("SELECT %s FROM delegations WHERE id = $1", delegationColumns)
	var delegation models.Delegation
	if err := r.db.GetContext(ctx, &delegation, query, id); err != nil {
		return nil, err
	}
	return &delegation, nil
}

// List returns delegations matching the filter, newest first.
func (r *DelegationRepository) List(ctx context.Context, filter models.DelegationFilter) ([]models.Delegation, error) {
	baseQuery := fmt.Sprintf("SELECT %s FROM delegations", delegationColumns)
	var conditions []string
	var args []interface{}

	if filter.DelegateeID != "" {
		conditions = append(conditions, fmt.Sprintf("delegatee_id = $%d", len(args)+1))
		args = append(args, filter.DelegateeID)
	}
	if filter.Permission != "" {
		conditions = append(conditions, fmt.Sprintf("permission = $%d", len(args)+1))
		args = append(args, filter.Permission)
	}
	if filter.IsActive != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.IsActive)
	}
	if len(conditions) > 0 {
		baseQuery += " WHERE " + strings.Join(conditions, " AND ")
	}
	baseQuery += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	baseQuery += fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)

	var delegations []models.Delegation
	if err := r.db.SelectContext(ctx, &delegations, baseQuery, args...); err != nil {
		return nil, fmt.Errorf("list delegations: %w", err)
	}
	return delegations, nil
}

// FindActive returns the first active delegation covering the permission at
// the given instant, or sql.ErrNoRows.
func (r *DelegationRepository) FindActive(ctx context.Context, delegateeID string, permission models.DelegationPermission, now time.Time) (*models.Delegation, error) {
	query := fmt.Sprintf(`SELECT %s FROM delegations
	WHERE delegatee_id = $1 AND permission = $2 AND is_active = TRUE
	AND start_date <= $3 AND end_date >= $3
	LIMIT 1`, delegationColumns)
	var delegation models.Delegation
	if err := r.db.GetContext(ctx, &delegation, query, delegateeID, permission, now); err != nil {
		return nil, err
	}
	return &delegation, nil
}

// UpdateDelegationParams groups the mutable delegation columns.
type UpdateDelegationParams struct {
	ID        string
	StartDate *time.Time
	EndDate   *time.Time
	Reason    *string
	IsActive  *bool
}

// Update writes the provided fields, leaving nil ones untouched.
func (r *DelegationRepository) Update(ctx context.Context, params UpdateDelegationParams) error {
	setParts := []string{"updated_at = :updated_at"}
	if params.StartDate != nil {
		setParts = append(setParts, "start_date = :start_date")
	}
	if params.EndDate != nil {
		setParts = append(setParts, "end_date = :end_date")
	}
	if params.Reason != nil {
		setParts = append(setParts, "reason = :reason")
	}
	if params.IsActive != nil {
		setParts = append(setParts, "is_active = :is_active")
	}
	query := fmt.Sprintf("UPDATE delegations SET %s WHERE id = :id", strings.Join(setParts, ", "))
	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":         params.ID,
		"updated_at": time.Now().UTC(),
		"start_date": params.StartDate,
		"end_date":   params.EndDate,
		"reason":     params.Reason,
		"is_active":  params.IsActive,
	})
	if err != nil {
		return fmt.Errorf("update delegation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check delegation update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Revoke deactivates a delegation and stamps the revocation metadata. Only
// active rows are eligible; revoking twice returns sql.ErrNoRows.
func (r *DelegationRepository) Revoke(ctx context.Context, id, revokedBy string, revokedAt time.Time) error {
	const query = `UPDATE delegations SET
	is_active = FALSE, revoked_at = $2, revoked_by = $3, updated_at = $2
	WHERE id = $1 AND is_active = TRUE`
	result, err := r.db.ExecContext(ctx, query, id, revokedAt, revokedBy)
	if err != nil {
		return fmt.Errorf("revoke delegation: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check delegation revoke rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeactivateExpired flips is_active off for every delegation whose window has
// passed. Idempotent; returns the number of rows affected.
func (r *DelegationRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	const query = `UPDATE delegations SET is_active = FALSE, updated_at = $1
	WHERE is_active = TRUE AND end_date < $1`
	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired delegations: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("check expired delegation rows: %w", err)
	}
	return rows, nil
}
