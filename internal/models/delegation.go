package models

import "time"

// DelegationPermission names a delegatable administrative permission.
type DelegationPermission string

const (
	PermManageEmployees   DelegationPermission = "MANAGE_EMPLOYEES"
	PermManageAssessments DelegationPermission = "MANAGE_ASSESSMENTS"
	PermViewReports       DelegationPermission = "VIEW_REPORTS"
	PermManageQuestions   DelegationPermission = "MANAGE_QUESTIONS"
)

// Valid reports whether the permission is a known kind.
func (p DelegationPermission) Valid() bool {
	switch p {
	case PermManageEmployees, PermManageAssessments, PermViewReports, PermManageQuestions:
		return true
	}
	return false
}

// Delegation is a time-bounded grant of one administrative permission from
// the system admin to an employee.
type Delegation struct {
	ID          string               `db:"id" json:"id"`
	DelegatorID string               `db:"delegator_id" json:"delegatorId"`
	DelegateeID string               `db:"delegatee_id" json:"delegateeId"`
	Permission  DelegationPermission `db:"permission" json:"permission"`
	StartDate   time.Time            `db:"start_date" json:"startDate"`
	EndDate     time.Time            `db:"end_date" json:"endDate"`
	Reason      *string              `db:"reason" json:"reason,omitempty"`
	IsActive    bool                 `db:"is_active" json:"isActive"`
	CreatedAt   time.Time            `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time            `db:"updated_at" json:"updatedAt"`
	RevokedAt   *time.Time           `db:"revoked_at" json:"revokedAt,omitempty"`
	RevokedBy   *string              `db:"revoked_by" json:"revokedBy,omitempty"`
}

// InWindow reports whether the delegation covers the given instant.
func (d *Delegation) InWindow(now time.Time) bool {
	return d.IsActive && !now.Before(d.StartDate) && !now.After(d.EndDate)
}

// DelegationFilter constrains delegation listing queries.
type DelegationFilter struct {
	DelegateeID string
	Permission  DelegationPermission
	IsActive    *bool
	Limit       int
	Offset      int
}
