package models

// ReviewerRole identifies which reviewer in the approval chain is acting.
// Score and comment fields are reached through the accessor methods below
// instead of string-keyed field names.
type ReviewerRole string

const (
	RoleSelf      ReviewerRole = "self"
	RoleManager   ReviewerRole = "manager"
	RoleApprover2 ReviewerRole = "approver2"
	RoleApprover3 ReviewerRole = "approver3"
	RoleGM        ReviewerRole = "gm"
)

// RolesByAuthority lists reviewer roles from lowest to highest authority.
var RolesByAuthority = []ReviewerRole{RoleSelf, RoleManager, RoleApprover2, RoleApprover3, RoleGM}

// Valid reports whether the role is a known reviewer role.
func (r ReviewerRole) Valid() bool {
	switch r {
	case RoleSelf, RoleManager, RoleApprover2, RoleApprover3, RoleGM:
		return true
	}
	return false
}

// Authority returns the role's rank in the approval chain, RoleSelf being 0.
// Unknown roles rank below RoleSelf.
func (r ReviewerRole) Authority() int {
	for i, role := range RolesByAuthority {
		if role == r {
			return i
		}
	}
	return -1
}

// AwaitingStatus returns the assessment status in which this role is the
// expected actor.
func (r ReviewerRole) AwaitingStatus() (AssessmentStatus, bool) {
	switch r {
	case RoleSelf:
		return StatusDraft, true
	case RoleManager:
		return StatusSubmittedMgr, true
	case RoleApprover2:
		return StatusSubmittedAppr2, true
	case RoleApprover3:
		return StatusSubmittedAppr3, true
	case RoleGM:
		return StatusSubmittedGM, true
	}
	return "", false
}

// Score returns the response score recorded by this role.
func (r ReviewerRole) Score(resp *Response) *float64 {
	switch r {
	case RoleSelf:
		return resp.ScoreSelf
	case RoleManager:
		return resp.ScoreMgr
	case RoleApprover2:
		return resp.ScoreAppr2
	case RoleApprover3:
		return resp.ScoreAppr3
	case RoleGM:
		return resp.ScoreGM
	}
	return nil
}

// SetScore records a score on the response for this role.
func (r ReviewerRole) SetScore(resp *Response, score *float64) {
	switch r {
	case RoleSelf:
		resp.ScoreSelf = score
	case RoleManager:
		resp.ScoreMgr = score
	case RoleApprover2:
		resp.ScoreAppr2 = score
	case RoleApprover3:
		resp.ScoreAppr3 = score
	case RoleGM:
		resp.ScoreGM = score
	}
}

// Comment returns the response comment recorded by this role.
func (r ReviewerRole) Comment(resp *Response) *string {
	switch r {
	case RoleSelf:
		return resp.CommentSelf
	case RoleManager:
		return resp.CommentMgr
	case RoleApprover2:
		return resp.CommentAppr2
	case RoleApprover3:
		return resp.CommentAppr3
	case RoleGM:
		return resp.CommentGM
	}
	return nil
}

// SetComment records a comment on the response for this role.
func (r ReviewerRole) SetComment(resp *Response, comment *string) {
	switch r {
	case RoleSelf:
		resp.CommentSelf = comment
	case RoleManager:
		resp.CommentMgr = comment
	case RoleApprover2:
		resp.CommentAppr2 = comment
	case RoleApprover3:
		resp.CommentAppr3 = comment
	case RoleGM:
		resp.CommentGM = comment
	}
}

// StageScore returns a pointer to the assessment field holding this role's
// rollup score.
func (r ReviewerRole) StageScore(a *Assessment) **float64 {
	switch r {
	case RoleSelf:
		return &a.SelfScore
	case RoleManager:
		return &a.ManagerScore
	case RoleApprover2:
		return &a.Approver2Score
	case RoleApprover3:
		return &a.Approver3Score
	case RoleGM:
		return &a.GMScore
	}
	return nil
}
