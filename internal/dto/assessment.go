package dto

import "github.com/trth/performance-api/internal/models"

// CreateAssessmentRequest starts a new review cycle in DRAFT.
type CreateAssessmentRequest struct {
	Title       string                    `json:"title" validate:"required"`
	Description string                    `json:"description"`
	Category    models.AssessmentCategory `json:"category" validate:"required,oneof=Annual Mid-year Probation Special"`
	EmployeeID  string                    `json:"employeeId" validate:"required"`
	AssessorID  string                    `json:"assessorId" validate:"required"`
	PeriodStart string                    `json:"periodStart" validate:"required"`
	PeriodEnd   string                    `json:"periodEnd" validate:"required"`
	DueDate     string                    `json:"dueDate" validate:"required"`
}

// ApproveRequest carries a reviewer decision for one assessment.
type ApproveRequest struct {
	Action string              `json:"action" validate:"required,oneof=approve reject"`
	Role   models.ReviewerRole `json:"role" validate:"required"`
}

// ApproveResult reports the transition outcome and the scores computed at
// this stage.
type ApproveResult struct {
	Status     models.AssessmentStatus `json:"status"`
	Assessment *models.Assessment      `json:"assessment"`
	StageScore *float64                `json:"stageScore,omitempty"`
	FinalScore *float64                `json:"finalScore,omitempty"`
}

// SaveResponseItem is one incoming per-question answer.
type SaveResponseItem struct {
	QuestionID string   `json:"questionId" validate:"required"`
	Score      *float64 `json:"score" validate:"omitempty,gte=0,lte=5"`
	Comment    *string  `json:"comment"`
}

// SaveResponsesRequest merges a batch of answers for the acting role.
type SaveResponsesRequest struct {
	Role  models.ReviewerRole `json:"role" validate:"required"`
	Items []SaveResponseItem  `json:"items" validate:"required,min=1,dive"`
}

// SaveResponseOutcome reports the per-item merge result.
type SaveResponseOutcome struct {
	QuestionID string `json:"questionId"`
	Created    bool   `json:"created"`
	Error      string `json:"error,omitempty"`
}

// SaveResponsesResult summarises a reconciliation batch.
type SaveResponsesResult struct {
	SavedCount int                   `json:"savedCount"`
	Items      []SaveResponseOutcome `json:"items"`
}
