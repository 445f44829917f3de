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

// OrgRepository persists the groups/positions/teams settings lists.
type OrgRepository struct {
	db *sqlx.DB
}

// NewOrgRepository constructs the repository.
func NewOrgRepository(db *sqlx.DB) *OrgRepository {
	return &OrgRepository{db: db}
}

// ListByKind returns one settings list in display order.
func (r *OrgRepository) ListByKind(ctx context.Context, kind models.OrgUnitKind) ([]models.OrgUnit, error) {
	const query = `SELECT id, kind, name, sort_order, created_at, updated_at
	FROM org_units WHERE kind = $1 ORDER BY sort_order, name`
	var units []models.OrgUnit
	if err := r.db.SelectContext(ctx, &units, query, kind); err != nil {
		return nil, fmt.Errorf("list org units: %w", err)
	}
	return units, nil
}

// Create inserts a settings entry.
func (r *OrgRepository) Create(ctx context.Context, unit *models.OrgUnit) error {
	if unit.ID == "" {
		unit.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if unit.CreatedAt.IsZero() {
		unit.CreatedAt = now
	}
	unit.UpdatedAt = now
	const query = `INSERT INTO org_units (id, kind, name, sort_order, created_at, updated_at)
	VALUES (:id, :kind, :name, :sort_order, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, unit); err != nil {
		return fmt.Errorf("create org unit: %w", err)
	}
	return nil
}

// Update renames or reorders a settings entry.
// GetByID fetches one settings entry.
func (r *OrgRepository) GetByID(ctx context.Context, id string) (*models.OrgUnit, error) {
	const query = `SELECT id, kind, name, sort_order, created_at, updated_at
	FROM org_units WHERE id = $1`
	var unit models.OrgUnit
	if err := r.db.GetContext(ctx, &unit, query, id); err != nil {
		return nil, err
	}
	return &unit, nil
}

func (r *OrgRepository) Update(ctx context.Context, unit *models.OrgUnit) error {
	unit.UpdatedAt = time.Now().UTC()
	const query = `UPDATE org_units SET name = :name, sort_order = :sort_order, updated_at = :updated_at
	WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, unit)
	if err != nil {
		return fmt.Errorf("update org unit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check org unit update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a settings entry.
func (r *OrgRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM org_units WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete org unit: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check org unit delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
