package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/trth/performance-api/internal/dto"
	"github.com/trth/performance-api/internal/models"
	appErrors "github.com/trth/performance-api/pkg/errors"
)

type employeeStore interface {
	Create(ctx context.Context, employee *models.Employee) error
	GetByCode(ctx context.Context, empCode string) (*models.Employee, error)
	List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, int, error)
	Update(ctx context.Context, employee *models.Employee) error
	Delete(ctx context.Context, empCode string) error
	Stats(ctx context.Context) (*models.EmployeeStats, error)
}

// EmployeeService manages organizational records and their approver chains.
type EmployeeService struct {
	employees   employeeStore
	permissions permissionChecker
	audit       auditLogger
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEmployeeService constructs the service.
func NewEmployeeService(employees employeeStore, permissions permissionChecker, audit auditLogger, validate *validator.Validate, logger *zap.Logger) *EmployeeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{
		employees:   employees,
		permissions: permissions,
		audit:       audit,
		validator:   validate,
		logger:      logger,
	}
}

func (s *EmployeeService) requireManage(ctx context.Context, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.IsAdmin || s.permissions.HasPermission(ctx, actor.EmpCode, models.PermManageEmployees) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "employee management requires MANAGE_EMPLOYEES")
}

// Create registers a new employee. Empty optional approver slots are stored
// as the none sentinel so the routing code can skip those stages.
func (s *EmployeeService) Create(ctx context.Context, req dto.CreateEmployeeRequest, actor *models.JWTClaims) (*models.Employee, error) {
	if err := s.requireManage(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}
	if _, err := s.employees.GetByCode(ctx, req.EmpCode); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "employee code already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to check employee code")
	}
	joinDate, err := parseDate(req.JoinDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid joinDate")
	}

	employee := &models.Employee{
		EmpCode:         req.EmpCode,
		EmpNameEng:      req.EmpNameEng,
		EmpNameThai:     optionalString(req.EmpNameThai),
		Email:           optionalString(req.Email),
		PhoneNumber:     optionalString(req.PhoneNumber),
		Position:        req.Position,
		Group:           req.Group,
		Team:            optionalString(req.Team),
		AssessmentLevel: req.AssessmentLevel,
		EmployeeType:    models.EmployeeType(req.EmployeeType),
		Approver1ID:     req.Approver1ID,
		Approver2ID:     req.Approver2ID,
		Approver3ID:     req.Approver3ID,
		GMID:            req.GMID,
		JoinDate:        joinDate,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to create employee")
	}
	s.emitEmployeeAudit(ctx, actor.UserID, models.AuditActionEmployeeCreate, employee)
	return employee, nil
}

// Get returns one employee by code.
func (s *EmployeeService) Get(ctx context.Context, empCode string) (*models.Employee, error) {
	employee, err := s.employees.GetByCode(ctx, empCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load employee")
	}
	return employee, nil
}

// List returns employees matching the filter with pagination metadata.
func (s *EmployeeService) List(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, *models.Pagination, error) {
	employees, total, err := s.employees.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to list employees")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return employees, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// Update applies the provided fields to an existing employee.
func (s *EmployeeService) Update(ctx context.Context, empCode string, req dto.UpdateEmployeeRequest, actor *models.JWTClaims) (*models.Employee, error) {
	if err := s.requireManage(ctx, actor); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid employee payload")
	}
	employee, err := s.Get(ctx, empCode)
	if err != nil {
		return nil, err
	}

	if req.EmpNameEng != nil {
		employee.EmpNameEng = *req.EmpNameEng
	}
	if req.EmpNameThai != nil {
		employee.EmpNameThai = optionalString(*req.EmpNameThai)
	}
	if req.Email != nil {
		employee.Email = optionalString(*req.Email)
	}
	if req.PhoneNumber != nil {
		employee.PhoneNumber = optionalString(*req.PhoneNumber)
	}
	if req.Position != nil {
		employee.Position = *req.Position
	}
	if req.Group != nil {
		employee.Group = *req.Group
	}
	if req.Team != nil {
		employee.Team = optionalString(*req.Team)
	}
	if req.AssessmentLevel != nil {
		employee.AssessmentLevel = *req.AssessmentLevel
	}
	if req.EmployeeType != nil {
		employee.EmployeeType = models.EmployeeType(*req.EmployeeType)
	}
	if req.Approver1ID != nil {
		employee.Approver1ID = *req.Approver1ID
	}
	if req.Approver2ID != nil {
		employee.Approver2ID = *req.Approver2ID
	}
	if req.Approver3ID != nil {
		employee.Approver3ID = *req.Approver3ID
	}
	if req.GMID != nil {
		employee.GMID = *req.GMID
	}
	if req.WarningCount != nil {
		employee.WarningCount = *req.WarningCount
	}

	if err := s.employees.Update(ctx, employee); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to update employee")
	}
	s.emitEmployeeAudit(ctx, actor.UserID, models.AuditActionEmployeeUpdate, employee)
	return employee, nil
}

// Delete removes an employee record.
func (s *EmployeeService) Delete(ctx context.Context, empCode string, actor *models.JWTClaims) error {
	if err := s.requireManage(ctx, actor); err != nil {
		return err
	}
	if err := s.employees.Delete(ctx, empCode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "employee not found")
		}
		return appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to delete employee")
	}
	s.emitAuditRaw(ctx, actor.UserID, models.AuditActionEmployeeDelete, empCode, nil)
	return nil
}

// Stats summarises headcount by contract type.
func (s *EmployeeService) Stats(ctx context.Context) (*models.EmployeeStats, error) {
	stats, err := s.employees.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load employee stats")
	}
	return stats, nil
}

func (s *EmployeeService) emitEmployeeAudit(ctx context.Context, userID, action string, employee *models.Employee) {
	payload, _ := json.Marshal(map[string]interface{}{
		"empCode":  employee.EmpCode,
		"position": employee.Position,
		"group":    employee.Group,
	})
	s.emitAuditRaw(ctx, userID, action, employee.EmpCode, payload)
}

func (s *EmployeeService) emitAuditRaw(ctx context.Context, userID, action, resourceID string, payload []byte) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "employee",
		ResourceID: &resourceID,
		NewValues:  payload,
		IPAddress:  "system",
		UserAgent:  "employee-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}
