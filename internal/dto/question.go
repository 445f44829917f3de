package dto

// CreateQuestionRequest adds a question-bank entry.
type CreateQuestionRequest struct {
	Category        string  `json:"category" validate:"required"`
	Question        string  `json:"question" validate:"required"`
	Description     string  `json:"description"`
	Weight          float64 `json:"weight" validate:"required,gt=0"`
	ApplicableLevel string  `json:"applicableLevel"`
	IsActive        *bool   `json:"isActive"`
}

// UpdateQuestionRequest rewrites a question-bank entry. Nil fields are left
// untouched.
type UpdateQuestionRequest struct {
	Category        *string  `json:"category"`
	Question        *string  `json:"question"`
	Description     *string  `json:"description"`
	Weight          *float64 `json:"weight" validate:"omitempty,gt=0"`
	ApplicableLevel *string  `json:"applicableLevel"`
	IsActive        *bool    `json:"isActive"`
}

// ReorderQuestionsRequest assigns sort order by list position.
type ReorderQuestionsRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}
