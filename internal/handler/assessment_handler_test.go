package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trth/performance-api/internal/dto"
	"github.com/trth/performance-api/internal/middleware"
	"github.com/trth/performance-api/internal/models"
	"github.com/trth/performance-api/internal/service"
)

type emptyAssessmentStore struct{}

func (emptyAssessmentStore) Create(ctx context.Context, a *models.Assessment) error { return nil }
func (emptyAssessmentStore) GetByID(ctx context.Context, id string) (*models.Assessment, error) {
	return nil, sql.ErrNoRows
}
func (emptyAssessmentStore) List(ctx context.Context, filter models.AssessmentFilter) ([]models.Assessment, int, error) {
	return nil, 0, nil
}
func (emptyAssessmentStore) UpdateTransition(ctx context.Context, a *models.Assessment) error {
	return nil
}
func (emptyAssessmentStore) Delete(ctx context.Context, id string) error { return sql.ErrNoRows }
func (emptyAssessmentStore) Summary(ctx context.Context) (*models.AssessmentSummary, error) {
	return &models.AssessmentSummary{}, nil
}

type emptyResponseReader struct{}

func (emptyResponseReader) ListByAssessment(ctx context.Context, assessmentID string) ([]models.Response, error) {
	return nil, nil
}

type emptyEmployeeReader struct{}

func (emptyEmployeeReader) GetByCode(ctx context.Context, empCode string) (*models.Employee, error) {
	return nil, sql.ErrNoRows
}

type emptyQuestionReader struct{}

func (emptyQuestionReader) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	return nil, nil
}

type grantAll struct{}

func (grantAll) HasPermission(ctx context.Context, empCode string, permission models.DelegationPermission) bool {
	return true
}

type noAudit struct{}

func (noAudit) CreateAuditLog(ctx context.Context, log *models.AuditLog) error { return nil }

func newTestAssessmentHandler() *AssessmentHandler {
	assessments := service.NewAssessmentService(
		emptyAssessmentStore{}, emptyResponseReader{}, emptyEmployeeReader{},
		emptyQuestionReader{}, grantAll{}, noAudit{}, nil, nil,
	)
	responses := service.NewResponseService(nil, nil, nil, nil, nil)
	return NewAssessmentHandler(assessments, responses, nil)
}

func TestAssessmentHandlerDecideInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestAssessmentHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assessments/as1/decision", bytes.NewReader([]byte(`not json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "as1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", IsAdmin: true})

	handler.Decide(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessmentHandlerDecideUnknownAction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestAssessmentHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.ApproveRequest{Role: models.RoleManager, Action: "escalate"})
	req, _ := http.NewRequest(http.MethodPost, "/assessments/as1/decision", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "as1"}}
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", IsAdmin: true})

	handler.Decide(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssessmentHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestAssessmentHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/assessments/ghost", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "ghost"}}

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAssessmentHandlerCreateUnknownEmployee(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTestAssessmentHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateAssessmentRequest{
		Title: "Annual 2026", Category: models.CategoryAnnual,
		EmployeeID: "EMP404", AssessorID: "EMP010",
		PeriodStart: "2026-01-01", PeriodEnd: "2026-12-31", DueDate: "2026-12-15",
	})
	req, _ := http.NewRequest(http.MethodPost, "/assessments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "admin", IsAdmin: true})

	handler.Create(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
