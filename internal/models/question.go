package models

import "time"

// Question is a question-bank entry. Assessments pull the active questions
// applicable to the employee's assessment level.
type Question struct {
	ID              string    `db:"id" json:"id"`
	Category        string    `db:"category" json:"category"`
	Question        string    `db:"question" json:"question"`
	Description     *string   `db:"description" json:"description,omitempty"`
	Weight          float64   `db:"weight" json:"weight"`
	SortOrder       int       `db:"sort_order" json:"order"`
	IsActive        bool      `db:"is_active" json:"isActive"`
	ApplicableLevel string    `db:"applicable_level" json:"applicableLevel"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// AppliesTo reports whether the question is part of the given assessment
// level's question set. An empty applicable level means all levels.
func (q *Question) AppliesTo(level string) bool {
	return q.IsActive && (q.ApplicableLevel == "" || q.ApplicableLevel == level)
}

// QuestionFilter constrains question listing queries.
type QuestionFilter struct {
	Category        string
	ApplicableLevel string
	ActiveOnly      bool
}
