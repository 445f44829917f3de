package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/trth/performance-api/internal/dto"
	"github.com/trth/performance-api/internal/models"
	appErrors "github.com/trth/performance-api/pkg/errors"
)

type questionStore interface {
	Create(ctx context.Context, question *models.Question) error
	GetByID(ctx context.Context, id string) (*models.Question, error)
	List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error)
	Update(ctx context.Context, question *models.Question) error
	Delete(ctx context.Context, id string) error
	Reorder(ctx context.Context, ids []string) error
}

// QuestionService manages the question bank.
type QuestionService struct {
	questions   questionStore
	permissions permissionChecker
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewQuestionService constructs the service.
func NewQuestionService(questions questionStore, permissions permissionChecker, validate *validator.Validate, logger *zap.Logger) *QuestionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionService{
		questions:   questions,
		permissions: permissions,
		validator:   validate,
		logger:      logger,
	}
}

func (s *QuestionService) requireManage(ctx context.Context, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.IsAdmin || s.permissions.HasPermission(ctx, actor.EmpCode, models.PermManageQuestions) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "question management requires MANAGE_QUESTIONS")
}

// Create adds a question-bank entry. New questions default to active.
func (s *QuestionService) Create(ctx context.Context, req dto.CreateQuestionRequest, actor *models.JWTClaims) (*models.Question, error) {
	if err := s.requireManage(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	question := &models.Question{
		Category:        req.Category,
		Question:        req.Question,
		Description:     optionalString(req.Description),
		Weight:          req.Weight,
		IsActive:        active,
		ApplicableLevel: req.ApplicableLevel,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to create question")
	}
	return question, nil
}

// Get returns one question.
func (s *QuestionService) Get(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load question")
	}
	return question, nil
}

// List returns questions matching the filter, in sort order.
func (s *QuestionService) List(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	questions, err := s.questions.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to list questions")
	}
	return questions, nil
}

// Update applies the provided fields to a question.
func (s *QuestionService) Update(ctx context.Context, id string, req dto.UpdateQuestionRequest, actor *models.JWTClaims) (*models.Question, error) {
	if err := s.requireManage(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	question, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Category != nil {
		question.Category = *req.Category
	}
	if req.Question != nil {
		question.Question = *req.Question
	}
	if req.Description != nil {
		question.Description = optionalString(*req.Description)
	}
	if req.Weight != nil {
		question.Weight = *req.Weight
	}
	if req.ApplicableLevel != nil {
		question.ApplicableLevel = *req.ApplicableLevel
	}
	if req.IsActive != nil {
		question.IsActive = *req.IsActive
	}
	if err := s.questions.Update(ctx, question); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to update question")
	}
	return question, nil
}

// Delete removes a question from the bank. Existing responses keep their
// snapshot of the question title and weight.
func (s *QuestionService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if err := s.requireManage(ctx, actor); err != nil {
		return err
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to delete question")
	}
	return nil
}

// Reorder rewrites sort order to follow the given id sequence.
func (s *QuestionService) Reorder(ctx context.Context, req dto.ReorderQuestionsRequest, actor *models.JWTClaims) error {
	if err := s.requireManage(ctx, actor); err != nil {
		return err
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reorder payload")
	}
	if err := s.questions.Reorder(ctx, req.IDs); err != nil {
		return appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to reorder questions")
	}
	return nil
}
