package models

import "time"

// Response is one question's set of per-role scores and comments within an
// assessment. At most one row exists per (assessment, question) pair; the
// reconciliation path in the response service enforces that.
type Response struct {
	ID             string  `db:"id" json:"id"`
	AssessmentID   string  `db:"assessment_id" json:"assessmentId"`
	QuestionID     string  `db:"question_id" json:"questionId"`
	QuestionTitle  string  `db:"question_title" json:"questionTitle"`
	QuestionWeight float64 `db:"question_weight" json:"questionWeight"`

	ScoreSelf  *float64 `db:"score_self" json:"scoreSelf,omitempty"`
	ScoreMgr   *float64 `db:"score_mgr" json:"scoreMgr,omitempty"`
	ScoreAppr2 *float64 `db:"score_appr2" json:"scoreAppr2,omitempty"`
	ScoreAppr3 *float64 `db:"score_appr3" json:"scoreAppr3,omitempty"`
	ScoreGM    *float64 `db:"score_gm" json:"scoreGm,omitempty"`

	CommentSelf  *string `db:"comment_self" json:"commentSelf,omitempty"`
	CommentMgr   *string `db:"comment_mgr" json:"commentMgr,omitempty"`
	CommentAppr2 *string `db:"comment_appr2" json:"commentAppr2,omitempty"`
	CommentAppr3 *string `db:"comment_appr3" json:"commentAppr3,omitempty"`
	CommentGM    *string `db:"comment_gm" json:"commentGm,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
