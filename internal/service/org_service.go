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

type orgStore interface {
	ListByKind(ctx context.Context, kind models.OrgUnitKind) ([]models.OrgUnit, error)
	GetByID(ctx context.Context, id string) (*models.OrgUnit, error)
	Create(ctx context.Context, unit *models.OrgUnit) error
	Update(ctx context.Context, unit *models.OrgUnit) error
	Delete(ctx context.Context, id string) error
}

// OrgService maintains the groups, positions, and teams settings lists. All
// mutations are admin-only.
type OrgService struct {
	units     orgStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOrgService constructs the service.
func NewOrgService(units orgStore, validate *validator.Validate, logger *zap.Logger) *OrgService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrgService{units: units, validator: validate, logger: logger}
}

// List returns one settings list in sort order.
func (s *OrgService) List(ctx context.Context, kind models.OrgUnitKind) ([]models.OrgUnit, error) {
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown organizational list")
	}
	units, err := s.units.ListByKind(ctx, kind)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to list organizational units")
	}
	return units, nil
}

// Create adds one entry to a settings list.
func (s *OrgService) Create(ctx context.Context, kind models.OrgUnitKind, req dto.CreateOrgUnitRequest, actor *models.JWTClaims) (*models.OrgUnit, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.IsAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "organizational settings are admin-only")
	}
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown organizational list")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid organizational unit payload")
	}
	unit := &models.OrgUnit{Kind: kind, Name: req.Name, SortOrder: req.SortOrder}
	if err := s.units.Create(ctx, unit); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to create organizational unit")
	}
	return unit, nil
}

// Update renames or reorders a settings entry.
func (s *OrgService) Update(ctx context.Context, id string, req dto.UpdateOrgUnitRequest, actor *models.JWTClaims) (*models.OrgUnit, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if !actor.IsAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "organizational settings are admin-only")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid organizational unit payload")
	}
	unit, err := s.units.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "organizational unit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to load organizational unit")
	}
	if req.Name != nil {
		unit.Name = *req.Name
	}
	if req.SortOrder != nil {
		unit.SortOrder = *req.SortOrder
	}
	if err := s.units.Update(ctx, unit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "organizational unit not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to update organizational unit")
	}
	return unit, nil
}

// Delete removes a settings entry. Employee records referencing the name are
// untouched.
func (s *OrgService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if !actor.IsAdmin {
		return appErrors.Clone(appErrors.ErrForbidden, "organizational settings are admin-only")
	}
	if err := s.units.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "organizational unit not found")
		}
		return appErrors.Wrap(err, appErrors.ErrDataStore.Code, appErrors.ErrDataStore.Status, "failed to delete organizational unit")
	}
	return nil
}
