package models

import "time"

// ApproverNone is the sentinel stored in optional approver slots meaning the
// stage is skipped.
const ApproverNone = "-"

// EmployeeType distinguishes contract kinds.
type EmployeeType string

const (
	EmployeePermanent EmployeeType = "Permanent"
	EmployeeTemporary EmployeeType = "Temporary"
)

// Employee is the organizational record keyed by employee code.
type Employee struct {
	EmpCode         string       `db:"emp_code" json:"empCode"`
	EmpNameEng      string       `db:"emp_name_eng" json:"empNameEng"`
	EmpNameThai     *string      `db:"emp_name_thai" json:"empNameThai,omitempty"`
	Email           *string      `db:"email" json:"email,omitempty"`
	PhoneNumber     *string      `db:"phone_number" json:"phoneNumber,omitempty"`
	Position        string       `db:"position" json:"position"`
	Group           string       `db:"group_name" json:"group"`
	Team            *string      `db:"team" json:"team,omitempty"`
	AssessmentLevel string       `db:"assessment_level" json:"assessmentLevel"`
	EmployeeType    EmployeeType `db:"employee_type" json:"employeeType"`
	Approver1ID     string       `db:"approver1_id" json:"approver1Id"`
	Approver2ID     string       `db:"approver2_id" json:"approver2Id"`
	Approver3ID     string       `db:"approver3_id" json:"approver3Id"`
	GMID            string       `db:"gm_id" json:"gmId"`
	JoinDate        time.Time    `db:"join_date" json:"joinDate"`
	WarningCount    int          `db:"warning_count" json:"warningCount"`
	CreatedAt       time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updatedAt"`
}

// HasApprover2 reports whether the approver2 stage applies.
func (e *Employee) HasApprover2() bool {
	return e.Approver2ID != "" && e.Approver2ID != ApproverNone
}

// HasApprover3 reports whether the approver3 stage applies.
func (e *Employee) HasApprover3() bool {
	return e.Approver3ID != "" && e.Approver3ID != ApproverNone
}

// EmployeeFilter constrains employee listing queries.
type EmployeeFilter struct {
	Group        string
	Team         string
	Position     string
	EmployeeType EmployeeType
	Search       string
	Page         int
	PageSize     int
}

// EmployeeStats summarises headcount by contract type.
type EmployeeStats struct {
	Total     int `json:"total"`
	Permanent int `json:"permanent"`
	Temporary int `json:"temporary"`
}
