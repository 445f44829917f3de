package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trth/performance-api/internal/dto"
	"github.com/trth/performance-api/internal/models"
	"github.com/trth/performance-api/internal/repository"
	appErrors "github.com/trth/performance-api/pkg/errors"
)

type mockDelegationRepo struct {
	delegations map[string]*models.Delegation
	active      *models.Delegation
	findErr     error
	findCalls   int
	revoked     []string
	swept       int64
}

func (m *mockDelegationRepo) Create(ctx context.Context, delegation *models.Delegation) error {
	if m.delegations == nil {
		m.delegations = make(map[string]*models.Delegation)
	}
	delegation.ID = "d1"
	m.delegations[delegation.ID] = delegation
	return nil
}

func (m *mockDelegationRepo) GetByID(ctx context.Context, id string) (*models.Delegation, error) {
	if d, ok := m.delegations[id]; ok {
		return d, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDelegationRepo) List(ctx context.Context, filter models.DelegationFilter) ([]models.Delegation, error) {
	var out []models.Delegation
	for _, d := range m.delegations {
		out = append(out, *d)
	}
	return out, nil
}

func (m *mockDelegationRepo) FindActive(ctx context.Context, delegateeID string, permission models.DelegationPermission, now time.Time) (*models.Delegation, error) {
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	if m.active != nil && m.active.DelegateeID == delegateeID && m.active.Permission == permission {
		return m.active, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockDelegationRepo) Update(ctx context.Context, params repository.UpdateDelegationParams) error {
	d, ok := m.delegations[params.ID]
	if !ok {
		return sql.ErrNoRows
	}
	if params.StartDate != nil {
		d.StartDate = *params.StartDate
	}
	if params.EndDate != nil {
		d.EndDate = *params.EndDate
	}
	if params.Reason != nil {
		d.Reason = params.Reason
	}
	if params.IsActive != nil {
		d.IsActive = *params.IsActive
	}
	return nil
}

func (m *mockDelegationRepo) Revoke(ctx context.Context, id, revokedBy string, revokedAt time.Time) error {
	d, ok := m.delegations[id]
	if !ok || !d.IsActive {
		return sql.ErrNoRows
	}
	d.IsActive = false
	d.RevokedBy = &revokedBy
	d.RevokedAt = &revokedAt
	m.revoked = append(m.revoked, id)
	return nil
}

func (m *mockDelegationRepo) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	return m.swept, nil
}

type mapPermissionCache struct {
	values   map[string]bool
	deletes  []string
	setCount int
}

func (m *mapPermissionCache) Get(ctx context.Context, key string, dest interface{}) error {
	v, ok := m.values[key]
	if !ok {
		return errors.New("cache miss")
	}
	*(dest.(*bool)) = v
	return nil
}

func (m *mapPermissionCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.values == nil {
		m.values = make(map[string]bool)
	}
	m.values[key] = value.(bool)
	m.setCount++
	return nil
}

func (m *mapPermissionCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletes = append(m.deletes, pattern)
	m.values = nil
	return nil
}

func delegationFixture(t *testing.T, repo *mockDelegationRepo, cache PermissionCache) *DelegationService {
	t.Helper()
	employees := &mockEmployeeReader{employees: map[string]*models.Employee{
		"EMP001": {EmpCode: "EMP001"},
	}}
	svc := NewDelegationService(repo, employees, cache, &recordingAudit{}, "EMP999", time.Minute, nil, nil)
	svc.now = func() time.Time { return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func activeGrant() *models.Delegation {
	return &models.Delegation{
		ID:          "d1",
		DelegatorID: "EMP999",
		DelegateeID: "EMP001",
		Permission:  models.PermManageEmployees,
		StartDate:   time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC),
		IsActive:    true,
	}
}

func TestHasPermissionAdminAlwaysGranted(t *testing.T) {
	repo := &mockDelegationRepo{}
	svc := delegationFixture(t, repo, nil)

	assert.True(t, svc.HasPermission(context.Background(), "EMP999", models.PermManageEmployees))
	assert.Zero(t, repo.findCalls)
}

func TestHasPermissionActiveWindowGrants(t *testing.T) {
	repo := &mockDelegationRepo{active: activeGrant()}
	svc := delegationFixture(t, repo, nil)

	assert.True(t, svc.HasPermission(context.Background(), "EMP001", models.PermManageEmployees))
	assert.False(t, svc.HasPermission(context.Background(), "EMP001", models.PermViewReports))
	assert.False(t, svc.HasPermission(context.Background(), "EMP002", models.PermManageEmployees))
}

func TestHasPermissionExpiredWindowDenied(t *testing.T) {
	grant := activeGrant()
	grant.EndDate = time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	repo := &mockDelegationRepo{active: grant}
	svc := delegationFixture(t, repo, nil)

	assert.False(t, svc.HasPermission(context.Background(), "EMP001", models.PermManageEmployees))
}

func TestHasPermissionFailsClosed(t *testing.T) {
	repo := &mockDelegationRepo{findErr: errors.New("connection refused")}
	svc := delegationFixture(t, repo, nil)

	assert.False(t, svc.HasPermission(context.Background(), "EMP001", models.PermManageEmployees))
}

func TestHasPermissionInvalidInputDenied(t *testing.T) {
	svc := delegationFixture(t, &mockDelegationRepo{}, nil)

	assert.False(t, svc.HasPermission(context.Background(), "", models.PermManageEmployees))
	assert.False(t, svc.HasPermission(context.Background(), "EMP001", models.DelegationPermission("DROP_TABLES")))
}

func TestHasPermissionCachesResult(t *testing.T) {
	repo := &mockDelegationRepo{active: activeGrant()}
	cache := &mapPermissionCache{}
	svc := delegationFixture(t, repo, cache)

	assert.True(t, svc.HasPermission(context.Background(), "EMP001", models.PermManageEmployees))
	assert.True(t, svc.HasPermission(context.Background(), "EMP001", models.PermManageEmployees))
	assert.Equal(t, 1, repo.findCalls)
	assert.Equal(t, 1, cache.setCount)
}

func TestCreateDelegationLifecycle(t *testing.T) {
	repo := &mockDelegationRepo{}
	cache := &mapPermissionCache{}
	svc := delegationFixture(t, repo, cache)

	created, err := svc.Create(context.Background(), dto.CreateDelegationRequest{
		DelegateeID: "EMP001",
		Permission:  models.PermManageEmployees,
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-30",
		Reason:      "vacation cover",
	}, adminClaims())
	require.NoError(t, err)
	assert.True(t, created.IsActive)
	assert.Equal(t, "EMP999", created.DelegatorID)
	assert.Contains(t, cache.deletes, "perm:EMP001:*")

	repo.active = created
	assert.True(t, svc.HasPermission(context.Background(), "EMP001", models.PermManageEmployees))

	require.NoError(t, svc.Revoke(context.Background(), created.ID, adminClaims()))
	assert.False(t, repo.delegations[created.ID].IsActive)

	// a second revoke conflicts
	err = svc.Revoke(context.Background(), created.ID, adminClaims())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCreateDelegationNonAdminForbidden(t *testing.T) {
	svc := delegationFixture(t, &mockDelegationRepo{}, nil)

	_, err := svc.Create(context.Background(), dto.CreateDelegationRequest{
		DelegateeID: "EMP001",
		Permission:  models.PermManageEmployees,
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-30",
	}, &models.JWTClaims{UserID: "u2", EmpCode: "EMP002"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestCreateDelegationInvertedWindowRejected(t *testing.T) {
	svc := delegationFixture(t, &mockDelegationRepo{}, nil)

	_, err := svc.Create(context.Background(), dto.CreateDelegationRequest{
		DelegateeID: "EMP001",
		Permission:  models.PermManageEmployees,
		StartDate:   "2026-06-30",
		EndDate:     "2026-06-01",
	}, adminClaims())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErr.Code)
}

func TestCreateDelegationEqualDatesRejected(t *testing.T) {
	svc := delegationFixture(t, &mockDelegationRepo{}, nil)

	// a window must be longer than zero days
	_, err := svc.Create(context.Background(), dto.CreateDelegationRequest{
		DelegateeID: "EMP001",
		Permission:  models.PermManageEmployees,
		StartDate:   "2026-09-01",
		EndDate:     "2026-09-01",
	}, adminClaims())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErr.Code)
}

func TestUpdateDelegationCollapsedWindowRejected(t *testing.T) {
	repo := &mockDelegationRepo{delegations: map[string]*models.Delegation{"d1": activeGrant()}}
	svc := delegationFixture(t, repo, nil)

	collapsed := "2026-06-01"
	_, err := svc.Update(context.Background(), "d1", dto.UpdateDelegationRequest{EndDate: &collapsed}, adminClaims())
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidRange.Code, appErr.Code)
}

func TestCreateDelegationToAdminRejected(t *testing.T) {
	svc := delegationFixture(t, &mockDelegationRepo{}, nil)

	_, err := svc.Create(context.Background(), dto.CreateDelegationRequest{
		DelegateeID: "EMP999",
		Permission:  models.PermManageEmployees,
		StartDate:   "2026-06-01",
		EndDate:     "2026-06-30",
	}, adminClaims())
	require.Error(t, err)
}

func TestUpdateDelegationMergesWindow(t *testing.T) {
	repo := &mockDelegationRepo{delegations: map[string]*models.Delegation{"d1": activeGrant()}}
	cache := &mapPermissionCache{}
	svc := delegationFixture(t, repo, cache)

	newEnd := "2026-07-31"
	updated, err := svc.Update(context.Background(), "d1", dto.UpdateDelegationRequest{EndDate: &newEnd}, adminClaims())
	require.NoError(t, err)

	assert.Equal(t, time.July, updated.EndDate.Month())
	assert.Equal(t, time.June, updated.StartDate.Month())
	assert.Contains(t, cache.deletes, "perm:EMP001:*")
}

func TestDeactivateExpiredFlushesCache(t *testing.T) {
	repo := &mockDelegationRepo{swept: 3}
	cache := &mapPermissionCache{values: map[string]bool{"perm:EMP001:MANAGE_EMPLOYEES": true}}
	svc := delegationFixture(t, repo, cache)

	count, err := svc.DeactivateExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
	assert.Contains(t, cache.deletes, "perm:*")
}

func TestDeactivateExpiredNoWorkNoFlush(t *testing.T) {
	repo := &mockDelegationRepo{swept: 0}
	cache := &mapPermissionCache{}
	svc := delegationFixture(t, repo, cache)

	count, err := svc.DeactivateExpired(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, cache.deletes)
}
