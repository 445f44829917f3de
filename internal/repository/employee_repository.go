package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/trth/performance-api/internal/models"
)

const employeeColumns = `emp_code, emp_name_eng, emp_name_thai, email, phone_number,
	position, group_name, team, assessment_level, employee_type,
	approver1_id, approver2_id, approver3_id, gm_id,
	join_date, warning_count, created_at, updated_at`

// EmployeeRepository persists organizational records.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs the repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// Create inserts a new employee keyed by employee code.
func (r *EmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	now := time.Now().UTC()
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = now
	}
	employee.UpdatedAt = now
	if employee.Approver2ID == "" {
		employee.Approver2ID = models.ApproverNone
	}
	if employee.Approver3ID == "" {
		employee.Approver3ID = models.ApproverNone
	}
	const query = `INSERT INTO employees
	(emp_code, emp_name_eng, emp_name_thai, email, phone_number,
	 position, group_name, team, assessment_level, employee_type,
	 approver1_id, approver2_id, approver3_id, gm_id,
	 join_date, warning_count, created_at, updated_at)
	VALUES (:emp_code, :emp_name_eng, :emp_name_thai, :email, :phone_number,
	 :position, :group_name, :team, :assessment_level, :employee_type,
	 :approver1_id, :approver2_id, :approver3_id, :gm_id,
	 :join_date, :warning_count, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, employee); err != nil {
		return fmt.Errorf("create employee: %w", err)
	}
	return nil
}

// GetByCode fetches one employee by employee code.
func (r *EmployeeRepository) GetByCode(ctx context.Context, empCode string) (*models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees WHERE emp_code = $1", employeeColumns)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, empCode); err != nil {
		return nil, err
	}
	return &employee, nil
}

// List returns employees matching the filter with a total count.
func (r *EmployeeRepository) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error) {
	baseQuery := "FROM employees WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.Group != "" {
		conditions = append(conditions, fmt.Sprintf("group_name = $%d", len(args)+1))
		args = append(args, filter.Group)
	}
	if filter.Team != "" {
		conditions = append(conditions, fmt.Sprintf("team = $%d", len(args)+1))
		args = append(args, filter.Team)
	}
	if filter.Position != "" {
		conditions = append(conditions, fmt.Sprintf("position = $%d", len(args)+1))
		args = append(args, filter.Position)
	}
	if filter.EmployeeType != "" {
		conditions = append(conditions, fmt.Sprintf("employee_type = $%d", len(args)+1))
		args = append(args, filter.EmployeeType)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(emp_name_eng) LIKE $%d OR LOWER(emp_code) LIKE $%d)", len(args)+1, len(args)+1))
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

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY emp_code LIMIT %d OFFSET %d",
		employeeColumns, baseQuery, pageSize, offset)

	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}

	countQuery := "SELECT COUNT(*) " + baseQuery
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	return employees, total, nil
}

// Update rewrites the mutable columns of an employee.
func (r *EmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.UpdatedAt = time.Now().UTC()
	if employee.Approver2ID == "" {
		employee.Approver2ID = models.ApproverNone
	}
	if employee.Approver3ID == "" {
		employee.Approver3ID = models.ApproverNone
	}
	const query = `UPDATE employees SET
	emp_name_eng = :emp_name_eng,
	emp_name_thai = :emp_name_thai,
	email = :email,
	phone_number = :phone_number,
	position = :position,
	group_name = :group_name,
	team = :team,
	assessment_level = :assessment_level,
	employee_type = :employee_type,
	approver1_id = :approver1_id,
	approver2_id = :approver2_id,
	approver3_id = :approver3_id,
	gm_id = :gm_id,
	join_date = :join_date,
	warning_count = :warning_count,
	updated_at = :updated_at
	WHERE emp_code = :emp_code`
	result, err := r.db.NamedExecContext(ctx, query, employee)
	if err != nil {
		return fmt.Errorf("update employee: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check employee update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an employee record.
func (r *EmployeeRepository) Delete(ctx context.Context, empCode string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM employees WHERE emp_code = $1", empCode)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check employee delete rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Stats summarises headcount by contract type.
func (r *EmployeeRepository) Stats(ctx context.Context) (*models.EmployeeStats, error) {
	const query = `SELECT
	COUNT(*) AS total,
	COUNT(*) FILTER (WHERE employee_type = 'Permanent') AS permanent,
	COUNT(*) FILTER (WHERE employee_type = 'Temporary') AS temporary
	FROM employees`
	row := r.db.QueryRowxContext(ctx, query)
	var stats models.EmployeeStats
	if err := row.Scan(&stats.Total, &stats.Permanent, &stats.Temporary); err != nil {
		return nil, fmt.Errorf("employee stats: %w", err)
	}
	return &stats, nil
}
