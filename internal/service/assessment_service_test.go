package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trth/performance-api/internal/dto"
	"github.com/trth/performance-api/internal/models"
	appErrors "github.com/trth/performance-api/pkg/errors"
)

type mockAssessmentRepo struct {
	assessments map[string]*models.Assessment
	staleUpdate bool
	updated     *models.Assessment
}

func (m *mockAssessmentRepo) Create(ctx context.Context, a *models.Assessment) error {
	if m.assessments == nil {
		m.assessments = make(map[string]*models.Assessment)
	}
	a.ID = "as1"
	m.assessments[a.ID] = a
	return nil
}

func (m *mockAssessmentRepo) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	if a, ok := m.assessments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAssessmentRepo) List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, int, error) {
	var out []models.Assessment
	for _, a := range m.assessments {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (m *mockAssessmentRepo) UpdateTransition(ctx context.Context, a *models.Assessment) error {
	if m.staleUpdate {
		return sql.ErrNoRows
	}
	m.updated = a
	stored := *a
	stored.Revision = a.Revision + 1
	m.assessments[a.ID] = &stored
	a.Revision++
	return nil
}

func (m *mockAssessmentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.assessments[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.assessments, id)
	return nil
}

func (m *mockAssessmentRepo) Summary(ctx context.Context) (*models.AssessmentSummary, error) {
	return &models.AssessmentSummary{Total: len(m.assessments)}, nil
}

type mockResponseReader struct {
	responses []models.Response
}

func (m *mockResponseReader) ListByAssessment(ctx context.Context, assessmentID string) ([]models.Response, error) {
	return m.responses, nil
}

type mockEmployeeReader struct {
	employees map[string]*models.Employee
}

func (m *mockEmployeeReader) GetByCode(ctx context.Context, empCode string) (*models.Employee, error) {
	if e, ok := m.employees[empCode]; ok {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

type mockQuestionReader struct {
	questions []models.Question
}

func (m *mockQuestionReader) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	return m.questions, nil
}

type allowAllPermissions struct{}

func (allowAllPermissions) HasPermission(ctx context.Context, empCode string, permission models.DelegationPermission) bool {
	return true
}

type denyAllPermissions struct{}

func (denyAllPermissions) HasPermission(ctx context.Context, empCode string, permission models.DelegationPermission) bool {
	return false
}

type recordingAudit struct {
	logs []*models.AuditLog
}

func (m *recordingAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.logs = append(m.logs, log)
	return nil
}

func adminClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u1", EmpCode: "EMP999", Role: models.RoleAdmin, IsAdmin: true}
}

func workflowFixture(status models.AssessmentStatus, employee *models.Employee, responses []models.Response, questions []models.Question) (*AssessmentService, *mockAssessmentRepo, *recordingAudit) {
	repo := &mockAssessmentRepo{assessments: map[string]*models.Assessment{
		"as1": {ID: "as1", Status: status, EmployeeID: employee.EmpCode, Revision: 1},
	}}
	audit := &recordingAudit{}
	svc := NewAssessmentService(
		repo,
		&mockResponseReader{responses: responses},
		&mockEmployeeReader{employees: map[string]*models.Employee{employee.EmpCode: employee}},
		&mockQuestionReader{questions: questions},
		allowAllPermissions{},
		audit,
		nil, nil,
	)
	return svc, repo, audit
}

func fullChainEmployee() *models.Employee {
	return &models.Employee{
		EmpCode:         "EMP001",
		AssessmentLevel: "L1",
		Approver1ID:     "EMP010",
		Approver2ID:     "EMP020",
		Approver3ID:     "EMP030",
		GMID:            "EMP099",
	}
}

func scoredResponses(role models.ReviewerRole, scores ...float64) []models.Response {
	out := make([]models.Response, len(scores))
	for i, s := range scores {
		out[i] = models.Response{QuestionID: "q" + string(rune('1'+i)), QuestionWeight: 10}
		v := s
		role.SetScore(&out[i], &v)
	}
	return out
}

func questionsFor(responses []models.Response) []models.Question {
	out := make([]models.Question, len(responses))
	for i := range responses {
		out[i] = models.Question{ID: responses[i].QuestionID, Weight: responses[i].QuestionWeight, IsActive: true}
	}
	return out
}

func TestApproveSelfSubmitsToManager(t *testing.T) {
	responses := scoredResponses(models.RoleSelf, 4, 5)
	svc, repo, audit := workflowFixture(models.StatusDraft, fullChainEmployee(), responses, questionsFor(responses))

	result, err := svc.Approve(context.Background(), "as1", models.RoleSelf, adminClaims())
	require.NoError(t, err)

	assert.Equal(t, models.StatusSubmittedMgr, result.Status)
	require.NotNil(t, result.StageScore)
	assert.Equal(t, 4.5, *result.StageScore)
	assert.NotNil(t, repo.updated.SubmittedAt)
	assert.Len(t, audit.logs, 1)
}

func TestApproveManagerRoutesToApprover2(t *testing.T) {
	responses := scoredResponses(models.RoleManager, 4, 5)
	svc, _, _ := workflowFixture(models.StatusSubmittedMgr, fullChainEmployee(), responses, questionsFor(responses))

	result, err := svc.Approve(context.Background(), "as1", models.RoleManager, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmittedAppr2, result.Status)
}

func TestApproveManagerSkipsMissingApprover2(t *testing.T) {
	employee := fullChainEmployee()
	employee.Approver2ID = models.ApproverNone
	responses := scoredResponses(models.RoleManager, 4)
	svc, _, _ := workflowFixture(models.StatusSubmittedMgr, employee, responses, questionsFor(responses))

	result, err := svc.Approve(context.Background(), "as1", models.RoleManager, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmittedAppr3, result.Status)
}

func TestApproveManagerSkipsBothOptionalApprovers(t *testing.T) {
	employee := fullChainEmployee()
	employee.Approver2ID = models.ApproverNone
	employee.Approver3ID = ""
	responses := scoredResponses(models.RoleManager, 4)
	svc, _, _ := workflowFixture(models.StatusSubmittedMgr, employee, responses, questionsFor(responses))

	result, err := svc.Approve(context.Background(), "as1", models.RoleManager, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.StatusSubmittedGM, result.Status)
}

func TestApproveGMCompletesWithFinalScore(t *testing.T) {
	responses := scoredResponses(models.RoleGM, 4, 5)
	svc, repo, _ := workflowFixture(models.StatusSubmittedGM, fullChainEmployee(), responses, questionsFor(responses))

	result, err := svc.Approve(context.Background(), "as1", models.RoleGM, adminClaims())
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, result.Status)
	require.NotNil(t, result.FinalScore)
	assert.Equal(t, 4.5, *result.FinalScore)
	assert.NotNil(t, repo.updated.ApprovedAt)
	assert.NotNil(t, repo.updated.CompletedAt)
}

func TestApproveWrongStageRejected(t *testing.T) {
	responses := scoredResponses(models.RoleGM, 4)
	svc, _, _ := workflowFixture(models.StatusSubmittedMgr, fullChainEmployee(), responses, questionsFor(responses))

	_, err := svc.Approve(context.Background(), "as1", models.RoleGM, adminClaims())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestApproveIncompleteReviewBlocked(t *testing.T) {
	// two questions, only one carries a manager score
	responses := []models.Response{
		{QuestionID: "q1", QuestionWeight: 10, ScoreMgr: fp(4)},
		{QuestionID: "q2", QuestionWeight: 10},
	}
	svc, _, _ := workflowFixture(models.StatusSubmittedMgr, fullChainEmployee(), responses, questionsFor(responses))

	_, err := svc.Approve(context.Background(), "as1", models.RoleManager, adminClaims())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrIncompleteReview.Code, appErr.Code)
}

func TestApproveConcurrentModificationConflicts(t *testing.T) {
	responses := scoredResponses(models.RoleManager, 4)
	svc, repo, _ := workflowFixture(models.StatusSubmittedMgr, fullChainEmployee(), responses, questionsFor(responses))
	repo.staleUpdate = true

	_, err := svc.Approve(context.Background(), "as1", models.RoleManager, adminClaims())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestRejectIsTerminalAndKeepsScores(t *testing.T) {
	responses := scoredResponses(models.RoleManager, 4)
	svc, repo, audit := workflowFixture(models.StatusSubmittedMgr, fullChainEmployee(), responses, questionsFor(responses))

	result, err := svc.Reject(context.Background(), "as1", models.RoleManager, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, result.Status)
	assert.Nil(t, repo.updated.ManagerScore)
	assert.Len(t, audit.logs, 1)

	// terminal: no further transitions
	_, err = svc.Approve(context.Background(), "as1", models.RoleManager, adminClaims())
	require.Error(t, err)
}

func TestRejectDraftNotAllowed(t *testing.T) {
	responses := scoredResponses(models.RoleSelf, 4)
	svc, _, _ := workflowFixture(models.StatusDraft, fullChainEmployee(), responses, questionsFor(responses))

	_, err := svc.Reject(context.Background(), "as1", models.RoleSelf, adminClaims())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, appErr.Code)
}

func TestCreateRequiresPermission(t *testing.T) {
	employee := fullChainEmployee()
	repo := &mockAssessmentRepo{assessments: map[string]*models.Assessment{}}
	svc := NewAssessmentService(
		repo, &mockResponseReader{}, &mockEmployeeReader{employees: map[string]*models.Employee{employee.EmpCode: employee}},
		&mockQuestionReader{}, denyAllPermissions{}, &recordingAudit{}, nil, nil,
	)

	req := dto.CreateAssessmentRequest{
		Title: "Annual 2026", Category: models.CategoryAnnual,
		EmployeeID: "EMP001", AssessorID: "EMP010",
		PeriodStart: "2026-01-01", PeriodEnd: "2026-12-31", DueDate: "2026-12-15",
	}

	actor := &models.JWTClaims{UserID: "u2", EmpCode: "EMP002"}
	_, err := svc.Create(context.Background(), req, actor)
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	created, err := svc.Create(context.Background(), req, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.StatusDraft, created.Status)
	assert.Equal(t, time.December, created.DueDate.Month())
}
