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

func newAssessmentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestAssessmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newAssessmentMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	mock.ExpectExec("INSERT INTO assessments").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assessment := &models.Assessment{
		Title:       "Annual 2026",
		Category:    models.CategoryAnnual,
		EmployeeID:  "EMP001",
		AssessorID:  "EMP010",
		PeriodStart: time.Now(),
		PeriodEnd:   time.Now().AddDate(1, 0, 0),
		DueDate:     time.Now().AddDate(0, 11, 0),
	}
	err := repo.Create(context.Background(), assessment)
	require.NoError(t, err)

	assert.NotEmpty(t, assessment.ID)
	assert.Equal(t, models.StatusDraft, assessment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryUpdateTransitionBumpsRevision(t *testing.T) {
	db, mock, cleanup := newAssessmentMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	mock.ExpectExec("UPDATE assessments SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assessment := &models.Assessment{ID: "as1", Status: models.StatusSubmittedMgr, Revision: 3}
	err := repo.UpdateTransition(context.Background(), assessment)
	require.NoError(t, err)

	assert.Equal(t, int64(4), assessment.Revision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryUpdateTransitionStaleRevision(t *testing.T) {
	db, mock, cleanup := newAssessmentMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	mock.ExpectExec("UPDATE assessments SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assessment := &models.Assessment{ID: "as1", Status: models.StatusSubmittedMgr, Revision: 2}
	err := repo.UpdateTransition(context.Background(), assessment)

	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.Equal(t, int64(2), assessment.Revision)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newAssessmentMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "category", "status", "employee_id", "assessor_id",
		"period_start", "period_end", "due_date",
		"self_score", "manager_score", "approver2_score", "approver3_score", "gm_score", "final_score",
		"revision", "created_at", "updated_at", "submitted_at", "approved_at", "completed_at",
	}).AddRow(
		"as1", "Annual 2026", nil, "Annual", "SUBMITTED_MGR", "EMP001", "EMP010",
		now, now, now,
		4.5, nil, nil, nil, nil, nil,
		1, now, now, now, nil, nil,
	)
	mock.ExpectQuery("SELECT (.+) FROM assessments WHERE 1=1 AND employee_id = \\$1 AND status IN \\(\\$2\\)").
		WithArgs("EMP001", models.StatusSubmittedMgr).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM assessments WHERE 1=1 AND employee_id = \\$1 AND status IN \\(\\$2\\)").
		WithArgs("EMP001", models.StatusSubmittedMgr).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	assessments, total, err := repo.List(context.Background(), models.AssessmentFilter{
		EmployeeID: "EMP001",
		Status:     []models.AssessmentStatus{models.StatusSubmittedMgr},
	})
	require.NoError(t, err)
	assert.Len(t, assessments, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, 4.5, *assessments[0].SelfScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newAssessmentMock(t)
	defer cleanup()
	repo := NewAssessmentRepository(db)

	mock.ExpectExec("DELETE FROM assessments WHERE id = \\$1").
		WithArgs("ghost").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "ghost")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
