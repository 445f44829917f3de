package models

import "time"

// AssessmentStatus captures the review workflow states.
type AssessmentStatus string

const (
	StatusDraft          AssessmentStatus = "DRAFT"
	StatusSubmittedMgr   AssessmentStatus = "SUBMITTED_MGR"
	StatusSubmittedAppr2 AssessmentStatus = "SUBMITTED_APPR2"
	StatusSubmittedAppr3 AssessmentStatus = "SUBMITTED_APPR3"
	StatusSubmittedGM    AssessmentStatus = "SUBMITTED_GM"
	StatusCompleted      AssessmentStatus = "COMPLETED"
	StatusRejected       AssessmentStatus = "REJECTED"
)

// Terminal reports whether no further transitions are possible.
func (s AssessmentStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusRejected
}

// AssessmentCategory enumerates review cycle kinds.
type AssessmentCategory string

const (
	CategoryAnnual    AssessmentCategory = "Annual"
	CategoryMidYear   AssessmentCategory = "Mid-year"
	CategoryProbation AssessmentCategory = "Probation"
	CategorySpecial   AssessmentCategory = "Special"
)

// Assessment is one performance-review cycle for one employee.
type Assessment struct {
	ID          string             `db:"id" json:"id"`
	Title       string             `db:"title" json:"title"`
	Description *string            `db:"description" json:"description,omitempty"`
	Category    AssessmentCategory `db:"category" json:"category"`
	Status      AssessmentStatus   `db:"status" json:"status"`
	EmployeeID  string             `db:"employee_id" json:"employeeId"`
	AssessorID  string             `db:"assessor_id" json:"assessorId"`
	PeriodStart time.Time          `db:"period_start" json:"periodStart"`
	PeriodEnd   time.Time          `db:"period_end" json:"periodEnd"`
	DueDate     time.Time          `db:"due_date" json:"dueDate"`

	SelfScore      *float64 `db:"self_score" json:"selfScore,omitempty"`
	ManagerScore   *float64 `db:"manager_score" json:"managerScore,omitempty"`
	Approver2Score *float64 `db:"approver2_score" json:"approver2Score,omitempty"`
	Approver3Score *float64 `db:"approver3_score" json:"approver3Score,omitempty"`
	GMScore        *float64 `db:"gm_score" json:"gmScore,omitempty"`
	FinalScore     *float64 `db:"final_score" json:"finalScore,omitempty"`

	// Revision guards concurrent transitions; updates compare-and-swap on it.
	Revision int64 `db:"revision" json:"revision"`

	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
	SubmittedAt *time.Time `db:"submitted_at" json:"submittedAt,omitempty"`
	ApprovedAt  *time.Time `db:"approved_at" json:"approvedAt,omitempty"`
	CompletedAt *time.Time `db:"completed_at" json:"completedAt,omitempty"`
}

// AssessmentFilter constrains listing queries.
type AssessmentFilter struct {
	EmployeeID string
	AssessorID string
	Status     []AssessmentStatus
	Category   AssessmentCategory
	Search     string
	Page       int
	PageSize   int
}

// AssessmentSummary aggregates status counts for dashboards.
type AssessmentSummary struct {
	Total        int     `json:"total"`
	Completed    int     `json:"completed"`
	Pending      int     `json:"pending"`
	Rejected     int     `json:"rejected"`
	AverageScore float64 `json:"averageScore"`
}
