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
	"github.com/trth/performance-api/internal/repository"
	appErrors "github.com/trth/performance-api/pkg/errors"
)

type delegationStore interface {
	Create(ctx context.Context, delegation *models.Delegation) error
	GetByID(ctx context.Context, id string) (*models.Delegation, error)
	List(ctx context.Context, filter models.DelegationFilter) ([]models.Delegation, error)
	FindActive(ctx context.Context, delegateeID string, permission models.DelegationPermission, now time.Time) (*models.Delegation, error)
	Update(ctx context.Context, params repository.UpdateDelegationParams) error
	Revoke(ctx context.Context, id, revokedBy string, revokedAt time.Time) error
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

// PermissionCache is the Redis-backed store for permission check results.
type PermissionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type employeeExists interface {
	GetByCode(ctx context.Context, empCode string) (*models.Employee, error)
}

// DelegationService manages time-bounded permission grants and answers
// permission checks for the rest of the system.
type DelegationService struct {
	delegations delegationStore
	employees   employeeExists
	cache       PermissionCache
	audit       auditLogger
	validator   *validator.Validate
	logger      *zap.Logger

	adminEmpCode string
	cacheTTL     time.Duration
	now          func() time.Time
}

// NewDelegationService constructs the service. adminEmpCode identifies the
// account that holds every permission implicitly; cache may be nil to skip
// caching.
func NewDelegationService(delegations delegationStore, employees employeeExists, cache PermissionCache, audit auditLogger, adminEmpCode string, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *DelegationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &DelegationService{
		delegations:  delegations,
		employees:    employees,
		cache:        cache,
		audit:        audit,
		validator:    validate,
		logger:       logger,
		adminEmpCode: adminEmpCode,
		cacheTTL:     cacheTTL,
		now:          time.Now,
	}
}

func permissionCacheKey(empCode string, permission models.DelegationPermission) string {
	return fmt.Sprintf("perm:%s:%s", empCode, permission)
}

// HasPermission reports whether empCode may exercise the permission right
// now. The admin account always passes; everyone else needs an active
// delegation whose window covers the current instant. Lookup failures deny.
func (s *DelegationService) HasPermission(ctx context.Context, empCode string, permission models.DelegationPermission) bool {
	if empCode == "" || !permission.Valid() {
		return false
	}
	if empCode == s.adminEmpCode {
		return true
	}

	key := permissionCacheKey(empCode, permission)
	if s.cache != nil {
		var granted bool
		if err := s.cache.Get(ctx, key, &granted); err == nil {
			return granted
		}
	}

	granted := false
	now := s.now().UTC()
	delegation, err := s.delegations.FindActive(ctx, empCode, permission, now)
	switch {
	case err == nil:
		granted = delegation.InWindow(now)
	case errors.Is(err, sql.ErrNoRows):
		// no grant
	default:
		s.logger.Warn("permission lookup failed, denying",
			zap.String("empCode", empCode),
			zap.String("permission", string(permission)),
			zap.Error(err))
		return false
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, granted, s.cacheTTL); err != nil {
			s.logger.Debug("permission cache write failed", zap.Error(err))
		}
	}
	return granted
}

// Create grants a permission to an employee for a date window. Admin only.
func (s *DelegationService) Create(ctx context.Context, req dto.CreateDelegationRequest, actor *models.JWTClaims) (*models.Delegation, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.IsAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the administrator can grant delegations")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid delegation payload")
	}
	if !req.Permission.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown permission")
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid startDate")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid endDate")
	}
	if !endDate.After(startDate) {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "endDate must be after startDate")
	}
	if req.DelegateeID == s.adminEmpCode {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the administrator already holds every permission")
	}
	if _, err := s.employees.GetByCode(ctx, req.DelegateeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "delegatee not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load delegatee")
	}

	delegation := &models.Delegation{
		DelegatorID: actor.EmpCode,
		DelegateeID: req.DelegateeID,
		Permission:  req.Permission,
		StartDate:   startDate,
		EndDate:     endDate,
		Reason:      optionalString(req.Reason),
		IsActive:    true,
	}
	if err := s.delegations.Create(ctx, delegation); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to create delegation")
	}

	s.invalidate(ctx, delegation.DelegateeID)
	s.emitDelegationAudit(ctx, actor.UserID, models.AuditActionDelegationCreate, delegation)
	return delegation, nil
}

// List returns delegations matching the filter.
func (s *DelegationService) List(ctx context.Context, filter models.DelegationFilter) ([]models.Delegation, error) {
	delegations, err := s.delegations.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to list delegations")
	}
	return delegations, nil
}

// Get returns one delegation.
func (s *DelegationService) Get(ctx context.Context, id string) (*models.Delegation, error) {
	delegation, err := s.delegations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "delegation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load delegation")
	}
	return delegation, nil
}

// Update adjusts an existing grant's window, reason, or active flag. Admin
// only.
func (s *DelegationService) Update(ctx context.Context, id string, req dto.UpdateDelegationRequest, actor *models.JWTClaims) (*models.Delegation, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.IsAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the administrator can modify delegations")
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	params := repository.UpdateDelegationParams{ID: id, Reason: req.Reason, IsActive: req.IsActive}
	startDate := existing.StartDate
	endDate := existing.EndDate
	if req.StartDate != nil {
		parsed, err := parseDate(*req.StartDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid startDate")
		}
		params.StartDate = &parsed
		startDate = parsed
	}
	if req.EndDate != nil {
		parsed, err := parseDate(*req.EndDate)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid endDate")
		}
		params.EndDate = &parsed
		endDate = parsed
	}
	if !endDate.After(startDate) {
		return nil, appErrors.Clone(appErrors.ErrInvalidRange, "endDate must be after startDate")
	}

	if err := s.delegations.Update(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "delegation not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to update delegation")
	}

	s.invalidate(ctx, existing.DelegateeID)
	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.emitDelegationAudit(ctx, actor.UserID, models.AuditActionDelegationUpdate, updated)
	return updated, nil
}

// Revoke deactivates a grant immediately. Admin only; revoking an already
// revoked grant is a conflict.
func (s *DelegationService) Revoke(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !actor.IsAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "only the administrator can revoke delegations")
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.delegations.Revoke(ctx, id, actor.EmpCode, s.now().UTC()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrConflict, "delegation is not active")
		}
		return appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to revoke delegation")
	}

	s.invalidate(ctx, existing.DelegateeID)
	s.emitDelegationAudit(ctx, actor.UserID, models.AuditActionDelegationRevoke, existing)
	return nil
}

// DeactivateExpired sweeps grants whose window has passed. Invoked by the
// background job queue on a timer; safe to run concurrently.
func (s *DelegationService) DeactivateExpired(ctx context.Context) (int64, error) {
	count, err := s.delegations.DeactivateExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to deactivate expired delegations")
	}
	if count > 0 {
		s.logger.Info("deactivated expired delegations", zap.Int64("count", count))
		if s.cache != nil {
			if err := s.cache.DeleteByPattern(ctx, "perm:*"); err != nil {
				s.logger.Debug("permission cache flush failed", zap.Error(err))
			}
		}
	}
	return count, nil
}

func (s *DelegationService) invalidate(ctx context.Context, empCode string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("perm:%s:*", empCode)); err != nil {
		s.logger.Debug("permission cache invalidation failed", zap.Error(err))
	}
}

func (s *DelegationService) emitDelegationAudit(ctx context.Context, userID, action string, delegation *models.Delegation) {
	if s.audit == nil {
		return
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"delegateeId": delegation.DelegateeID,
		"permission":  delegation.Permission,
		"startDate":   delegation.StartDate,
		"endDate":     delegation.EndDate,
	})
	log := &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "delegation",
		ResourceID: &delegation.ID,
		NewValues:  payload,
		IPAddress:  "system",
		UserAgent:  "delegation-service",
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to persist audit log", zap.Error(err))
	}
}
