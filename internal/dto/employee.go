package dto

// CreateEmployeeRequest registers a new organizational record.
type CreateEmployeeRequest struct {
	EmpCode         string `json:"empCode" validate:"required"`
	EmpNameEng      string `json:"empNameEng" validate:"required"`
	EmpNameThai     string `json:"empNameThai"`
	Email           string `json:"email" validate:"omitempty,email"`
	PhoneNumber     string `json:"phoneNumber"`
	Position        string `json:"position" validate:"required"`
	Group           string `json:"group" validate:"required"`
	Team            string `json:"team"`
	AssessmentLevel string `json:"assessmentLevel" validate:"required"`
	EmployeeType    string `json:"employeeType" validate:"required,oneof=Permanent Temporary"`
	Approver1ID     string `json:"approver1Id" validate:"required"`
	Approver2ID     string `json:"approver2Id"`
	Approver3ID     string `json:"approver3Id"`
	GMID            string `json:"gmId" validate:"required"`
	JoinDate        string `json:"joinDate" validate:"required"`
}

// UpdateEmployeeRequest rewrites an existing record. Nil fields are left
// untouched.
type UpdateEmployeeRequest struct {
	EmpNameEng      *string `json:"empNameEng"`
	EmpNameThai     *string `json:"empNameThai"`
	Email           *string `json:"email" validate:"omitempty,email"`
	PhoneNumber     *string `json:"phoneNumber"`
	Position        *string `json:"position"`
	Group           *string `json:"group"`
	Team            *string `json:"team"`
	AssessmentLevel *string `json:"assessmentLevel"`
	EmployeeType    *string `json:"employeeType" validate:"omitempty,oneof=Permanent Temporary"`
	Approver1ID     *string `json:"approver1Id"`
	Approver2ID     *string `json:"approver2Id"`
	Approver3ID     *string `json:"approver3Id"`
	GMID            *string `json:"gmId"`
	WarningCount    *int    `json:"warningCount" validate:"omitempty,gte=0"`
}
