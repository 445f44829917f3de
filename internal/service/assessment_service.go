package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/trth/performance-api/internal/dto"
	"github.com/trth/performance-api/internal/models"
	appErrors "github.com/trth/performance-api/pkg/errors"
)

type assessmentStore interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id string) (*models.Assessment, error)
	List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, int, error)
	UpdateTransition(ctx context.Context, assessment *models.Assessment) error
	Delete(ctx context.Context, id string) error
	Summary(ctx context.Context) (*models.AssessmentSummary, error)
}

type responseReader interface {
	ListByAssessment(ctx context.Context, assessmentID string) ([]models.Response, error)
}

type employeeReader interface {
	GetByCode(ctx context.Context, empCode string) (*models.Employee, error)
}

type questionReader interface {
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
}

type permissionChecker interface {
	HasPermission(ctx context.Context, empCode string, permission models.DelegationPermission) bool
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AssessmentService owns the review-cycle lifecycle: creation, listing, and
// the approval state machine that moves an assessment through its reviewer
// chain.
type AssessmentService struct {
	assessments assessmentStore
	responses   responseReader
	employees   employeeReader
	questions   questionReader
	permissions permissionChecker
	audit       auditLogger
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssessmentService constructs the service.
func NewAssessmentService(assessments assessmentStore, responses responseReader, employees employeeReader, questions questionReader, permissions permissionChecker, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *AssessmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssessmentService{
		assessments: assessments,
		responses:   responses,
		employees:   employees,
		questions:   questions,
		permissions: permissions,
		audit:       audit,
		validator:   validate,
		logger:      logger,
	}
}

// Create starts a new review cycle in DRAFT. Restricted to the system admin
// or holders of a MANAGE_ASSESSMENTS delegation.
func (s *AssessmentService) Create(ctx context.Context, req dto.CreateAssessmentRequest, actor *models.JWTClaims) (*models.Assessment, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.IsAdmin && !s.permissions.HasPermission(ctx, actor.EmpCode, models.PermManageAssessments) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "assessment creation requires MANAGE_ASSESSMENTS")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assessment payload")
	}
	if _, err := s.employees.GetByCode(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load employee")
	}
	periodStart, err := parseDate(req.PeriodStart)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid periodStart")
	}
	periodEnd, err := parseDate(req.PeriodEnd)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid periodEnd")
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid dueDate")
	}
	assessment := &models.Assessment{
		Title:       req.Title,
		Description: optionalString(req.Description),
		Category:    req.Category,
		Status:      models.StatusDraft,
		EmployeeID:  req.EmployeeID,
		AssessorID:  req.AssessorID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		DueDate:     dueDate,
	}
	if err := s.assessments.Create(ctx, assessment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to create assessment")
	}
	s.emitAudit(ctx, actor.UserID, models.AuditActionAssessmentCreate, assessment.ID, map[string]interface{}{
		"employeeId": assessment.EmployeeID,
		"category":   assessment.Category,
	})
	return assessment, nil
}

// List returns assessments matching the filter.
func (s *AssessmentService) List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, *models.Pagination, error) {
	assessments, total, err := s.assessments.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to list assessments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return assessments, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Get returns one assessment.
func (s *AssessmentService) Get(ctx context.Context, id string) (*models.Assessment, error) {
	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load assessment")
	}
	return assessment, nil
}

// Delete removes an assessment and its responses. Admin or delegated
// MANAGE_ASSESSMENTS only.
func (s *AssessmentService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !actor.IsAdmin && !s.permissions.HasPermission(ctx, actor.EmpCode, models.PermManageAssessments) {
		return appErrors.Clone(appErrors.ErrForbidden, "assessment deletion requires MANAGE_ASSESSMENTS")
	}
	if err := s.assessments.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to delete assessment")
	}
	return nil
}

// Summary aggregates workflow status counts.
func (s *AssessmentService) Summary(ctx context.Context) (*models.AssessmentSummary, error) {
	summary, err := s.assessments.Summary(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to summarise assessments")
	}
	return summary, nil
}

// Decide applies a reviewer action, dispatching to Approve or Reject.
func (s *AssessmentService) Decide(ctx context.Context, id string, req dto.ApproveRequest, actor *models.JWTClaims) (*dto.ApproveResult, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid approval payload")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown reviewer role")
	}
	switch req.Action {
	case "approve":
		return s.Approve(ctx, id, req.Role, actor)
	case "reject":
		return s.Reject(ctx, id, req.Role, actor)
	}
	return nil, appErrors.Clone(appErrors.ErrValidation, "action must be approve or reject")
}

// Approve advances the assessment one stage. The next stage is re-derived
// from the employee's approver chain at transition time; optional approver
// slots holding the none sentinel are skipped. The stage score is computed
// from the responses visible to the acting role, and reaching COMPLETED also
// stamps the final score.
func (s *AssessmentService) Approve(ctx context.Context, id string, role models.ReviewerRole, actor *models.JWTClaims) (*dto.ApproveResult, error) {
	assessment, employee, err := s.loadForTransition(ctx, id)
	if err != nil {
		return nil, err
	}
	expected, ok := role.AwaitingStatus()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown reviewer role")
	}
	if assessment.Status != expected {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("%s cannot approve an assessment in %s", role, assessment.Status))
	}

	responses, err := s.responses.ListByAssessment(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load responses")
	}
	missing, err := s.countMissingScores(ctx, employee, responses, role)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load questions")
	}
	if missing != 0 {
		return nil, appErrors.Clone(appErrors.ErrIncompleteReview,
			fmt.Sprintf("%d question(s) missing a %s score", missing, role))
	}

	stageScore := AggregateUpTo(responses, role)
	now := time.Now().UTC()
	*role.StageScore(assessment) = &stageScore

	result := &dto.ApproveResult{StageScore: &stageScore}
	switch role {
	case models.RoleSelf:
		assessment.Status = models.StatusSubmittedMgr
		assessment.SubmittedAt = &now
	case models.RoleManager:
		assessment.Status = nextAfterManager(employee)
	case models.RoleApprover2:
		assessment.Status = nextAfterApprover2(employee)
	case models.RoleApprover3:
		assessment.Status = models.StatusSubmittedGM
	case models.RoleGM:
		finalScore := Aggregate(responses)
		assessment.FinalScore = &finalScore
		assessment.Status = models.StatusCompleted
		assessment.ApprovedAt = &now
		assessment.CompletedAt = &now
		result.FinalScore = &finalScore
	}

	if err := s.assessments.UpdateTransition(ctx, assessment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "assessment was modified concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to persist transition")
	}

	s.emitAudit(ctx, actor.UserID, models.AuditActionAssessmentApprove, assessment.ID, map[string]interface{}{
		"role":   role,
		"status": assessment.Status,
	})
	result.Status = assessment.Status
	result.Assessment = assessment
	return result, nil
}

// Reject terminates the review. Legal only while an approval stage is
// pending; recorded scores are left as they are and the assessment does not
// return to DRAFT.
func (s *AssessmentService) Reject(ctx context.Context, id string, role models.ReviewerRole, actor *models.JWTClaims) (*dto.ApproveResult, error) {
	assessment, _, err := s.loadForTransition(ctx, id)
	if err != nil {
		return nil, err
	}
	if role == models.RoleSelf {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "a draft cannot be rejected")
	}
	expected, ok := role.AwaitingStatus()
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown reviewer role")
	}
	if assessment.Status != expected {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("%s cannot reject an assessment in %s", role, assessment.Status))
	}

	assessment.Status = models.StatusRejected
	if err := s.assessments.UpdateTransition(ctx, assessment); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "assessment was modified concurrently")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to persist rejection")
	}

	s.emitAudit(ctx, actor.UserID, models.AuditActionAssessmentReject, assessment.ID, map[string]interface{}{
		"role": role,
	})
	return &dto.ApproveResult{Status: assessment.Status, Assessment: assessment}, nil
}

func (s *AssessmentService) loadForTransition(ctx context.Context, id string) (*models.Assessment, *models.Employee, error) {
	assessment, err := s.assessments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load assessment")
	}
	employee, err := s.employees.GetByCode(ctx, assessment.EmployeeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load employee")
	}
	return assessment, employee, nil
}

// countMissingScores checks that every applicable question carries a score
// from the acting role.
func (s *AssessmentService) countMissingScores(ctx context.Context, employee *models.Employee, responses []models.Response, role models.ReviewerRole) (int, error) {
	questions, err := s.questions.List(ctx, models.QuestionFilter{
		ApplicableLevel: employee.AssessmentLevel,
		ActiveOnly:      true,
	})
	if err != nil {
		return 0, err
	}
	byQuestion := make(map[string]*models.Response, len(responses))
	for i := range responses {
		byQuestion[responses[i].QuestionID] = &responses[i]
	}
	missing := 0
	for i := range questions {
		if !questions[i].AppliesTo(employee.AssessmentLevel) {
			continue
		}
		resp, ok := byQuestion[questions[i].ID]
		if !ok || role.Score(resp) == nil {
			missing++
		}
	}
	return missing, nil
}

func nextAfterManager(employee *models.Employee) models.AssessmentStatus {
	if employee.HasApprover2() {
		return models.StatusSubmittedAppr2
	}
	return nextAfterApprover2(employee)
}

func nextAfterApprover2(employee *models.Employee) models.AssessmentStatus {
	if employee.HasApprover3() {
		return models.StatusSubmittedAppr3
	}
	return models.StatusSubmittedGM
}

func (s *AssessmentService) emitAudit(ctx context.Context, userID, action, resourceID string, values map[string]interface{}) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(values)
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "assessment",
		ResourceID: &resourceID,
		NewValues:  payload,
		IPAddress:  "system",
		UserAgent:  "assessment-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}

func parseDate(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
