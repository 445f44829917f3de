package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/trth/performance-api/internal/dto"
	"github.com/trth/performance-api/internal/models"
	appErrors "github.com/trth/performance-api/pkg/errors"
)

type responseStore interface {
	ListByAssessment(ctx context.Context, assessmentID string) ([]models.Response, error)
	Create(ctx context.Context, response *models.Response) error
	Update(ctx context.Context, response *models.Response) error
}

type assessmentReader interface {
	GetByID(ctx context.Context, id string) (*models.Assessment, error)
}

// ResponseService reconciles incoming per-question answers against stored
// response rows. Each batch only touches the columns belonging to the acting
// role; scores and comments recorded by other reviewers are preserved.
type ResponseService struct {
	responses   responseStore
	assessments assessmentReader
	questions   questionReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewResponseService constructs the service.
func NewResponseService(responses responseStore, assessments assessmentReader, questions questionReader, validate *validator.Validate, logger *zap.Logger) *ResponseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResponseService{
		responses:   responses,
		assessments: assessments,
		questions:   questions,
		validator:   validate,
		logger:      logger,
	}
}

// List returns all response rows for an assessment.
func (s *ResponseService) List(ctx context.Context, assessmentID string) ([]models.Response, error) {
	if _, err := s.assessments.GetByID(ctx, assessmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load assessment")
	}
	responses, err := s.responses.ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to list responses")
	}
	return responses, nil
}

// Save merges a batch of answers into the assessment's response rows. Rows
// that already exist for a question are updated in the acting role's columns;
// missing rows are created. Items referencing unknown questions are reported
// per-item without failing the batch, and a terminal assessment rejects the
// whole batch.
func (s *ResponseService) Save(ctx context.Context, assessmentID string, req dto.SaveResponsesRequest) (*dto.SaveResponsesResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid response payload")
	}
	if !req.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown reviewer role")
	}

	assessment, err := s.assessments.GetByID(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assessment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load assessment")
	}
	if assessment.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("responses cannot be saved on a %s assessment", assessment.Status))
	}

	existing, err := s.responses.ListByAssessment(ctx, assessmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to list responses")
	}
	byQuestion := make(map[string]*models.Response, len(existing))
	for i := range existing {
		byQuestion[existing[i].QuestionID] = &existing[i]
	}

	questions, err := s.questions.List(ctx, models.QuestionFilter{})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load questions")
	}
	knownQuestions := make(map[string]*models.Question, len(questions))
	for i := range questions {
		knownQuestions[questions[i].ID] = &questions[i]
	}

	result := &dto.SaveResponsesResult{Items: make([]dto.SaveResponseOutcome, 0, len(req.Items))}
	for _, item := range req.Items {
		outcome := dto.SaveResponseOutcome{QuestionID: item.QuestionID}
		question, ok := knownQuestions[item.QuestionID]
		if !ok {
			outcome.Error = "unknown question"
			result.Items = append(result.Items, outcome)
			continue
		}

		if resp, ok := byQuestion[item.QuestionID]; ok {
			if item.Score != nil {
				req.Role.SetScore(resp, item.Score)
			}
			if item.Comment != nil {
				req.Role.SetComment(resp, item.Comment)
			}
			if err := s.responses.Update(ctx, resp); err != nil {
				outcome.Error = "failed to update response"
				s.logger.Warn("response update failed",
					zap.String("assessmentId", assessmentID),
					zap.String("questionId", item.QuestionID),
					zap.Error(err))
				result.Items = append(result.Items, outcome)
				continue
			}
		} else {
			// new rows snapshot the question's title and weight so later
			// question edits do not rewrite recorded reviews
			resp := &models.Response{
				AssessmentID:   assessmentID,
				QuestionID:     item.QuestionID,
				QuestionTitle:  question.Question,
				QuestionWeight: question.Weight,
			}
			req.Role.SetScore(resp, item.Score)
			req.Role.SetComment(resp, item.Comment)
			if err := s.responses.Create(ctx, resp); err != nil {
				outcome.Error = "failed to create response"
				s.logger.Warn("response create failed",
					zap.String("assessmentId", assessmentID),
					zap.String("questionId", item.QuestionID),
					zap.Error(err))
				result.Items = append(result.Items, outcome)
				continue
			}
			byQuestion[item.QuestionID] = resp
			outcome.Created = true
		}

		result.SavedCount++
		result.Items = append(result.Items, outcome)
	}
	return result, nil
}
