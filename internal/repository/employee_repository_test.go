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

func newEmployeeMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestEmployeeRepositoryCreateNormalizesApprovers(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("INSERT INTO employees").
		WillReturnResult(sqlmock.NewResult(0, 1))

	employee := &models.Employee{
		EmpCode:         "EMP001",
		EmpNameEng:      "Jordan Lee",
		AssessmentLevel: "L1",
		Approver1ID:     "EMP010",
		GMID:            "EMP099",
		JoinDate:        time.Now(),
	}
	err := repo.Create(context.Background(), employee)
	require.NoError(t, err)

	// empty optional approver slots are stored as the none sentinel
	assert.Equal(t, models.ApproverNone, employee.Approver2ID)
	assert.Equal(t, models.ApproverNone, employee.Approver3ID)
	assert.False(t, employee.HasApprover2())
	assert.False(t, employee.HasApprover3())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryGetByCode(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"emp_code", "emp_name_eng", "emp_name_thai", "email", "phone_number",
		"position", "group_name", "team", "assessment_level", "employee_type",
		"approver1_id", "approver2_id", "approver3_id", "gm_id",
		"join_date", "warning_count", "created_at", "updated_at",
	}).AddRow(
		"EMP001", "Jordan Lee", nil, "jordan@example.com", nil,
		"Engineer", "Engineering", "Platform", "L1", "Permanent",
		"EMP010", "-", "EMP030", "EMP099",
		now, 0, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM employees WHERE emp_code = \\$1").
		WithArgs("EMP001").
		WillReturnRows(rows)

	employee, err := repo.GetByCode(context.Background(), "EMP001")
	require.NoError(t, err)
	assert.Equal(t, "Jordan Lee", employee.EmpNameEng)
	assert.False(t, employee.HasApprover2())
	assert.True(t, employee.HasApprover3())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectExec("UPDATE employees SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Employee{EmpCode: "ghost"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepositoryStats(t *testing.T) {
	db, mock, cleanup := newEmployeeMock(t)
	defer cleanup()
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery("SELECT\\s+COUNT\\(\\*\\) AS total").
		WillReturnRows(sqlmock.NewRows([]string{"total", "permanent", "temporary"}).AddRow(12, 10, 2))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12, stats.Total)
	assert.Equal(t, 10, stats.Permanent)
	assert.Equal(t, 2, stats.Temporary)
	assert.NoError(t, mock.ExpectationsWereMet())
}
