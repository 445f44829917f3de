package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trth/performance-api/internal/models"
)

func newDelegationMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func delegationRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "delegator_id", "delegatee_id", "permission", "start_date", "end_date",
		"reason", "is_active", "created_at", "updated_at", "revoked_at", "revoked_by",
	}).AddRow(
		"d1", "EMP999", "EMP001", "MANAGE_EMPLOYEES", now.AddDate(0, 0, -1), now.AddDate(0, 0, 1),
		nil, true, now, now, nil, nil,
	)
}

func TestDelegationRepositoryFindActive(t *testing.T) {
	db, mock, cleanup := newDelegationMock(t)
	defer cleanup()
	repo := NewDelegationRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM delegations\\s+WHERE delegatee_id = \\$1 AND permission = \\$2 AND is_active = TRUE").
		WithArgs("EMP001", models.PermManageEmployees, now).
		WillReturnRows(delegationRows(now))

	delegation, err := repo.FindActive(context.Background(), "EMP001", models.PermManageEmployees, now)
	require.NoError(t, err)
	assert.Equal(t, "EMP001", delegation.DelegateeID)
	assert.True(t, delegation.InWindow(now))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelegationRepositoryFindActiveMiss(t *testing.T) {
	db, mock, cleanup := newDelegationMock(t)
	defer cleanup()
	repo := NewDelegationRepository(db)

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT (.+) FROM delegations").
		WithArgs("EMP002", models.PermViewReports, now).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActive(context.Background(), "EMP002", models.PermViewReports, now)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelegationRepositoryRevokeAlreadyInactive(t *testing.T) {
	db, mock, cleanup := newDelegationMock(t)
	defer cleanup()
	repo := NewDelegationRepository(db)

	mock.ExpectExec("UPDATE delegations SET\\s+is_active = FALSE").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Revoke(context.Background(), "d1", "EMP999", time.Now().UTC())
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelegationRepositoryUpdateOnlySetsProvidedColumns(t *testing.T) {
	db, mock, cleanup := newDelegationMock(t)
	defer cleanup()
	repo := NewDelegationRepository(db)

	mock.ExpectExec("UPDATE delegations SET updated_at = (.+), end_date = (.+) WHERE id = (.+)").
		WillReturnResult(sqlmock.NewResult(0, 1))

	end := time.Now().UTC().AddDate(0, 1, 0)
	err := repo.Update(context.Background(), UpdateDelegationParams{ID: "d1", EndDate: &end})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelegationRepositoryDeactivateExpired(t *testing.T) {
	db, mock, cleanup := newDelegationMock(t)
	defer cleanup()
	repo := NewDelegationRepository(db)

	now := time.Now().UTC()
	mock.ExpectExec("UPDATE delegations SET is_active = FALSE, updated_at = \\$1\\s+WHERE is_active = TRUE AND end_date < \\$1").
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 2))

	count, err := repo.DeactivateExpired(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
