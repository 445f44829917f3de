package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/trth/performance-api/internal/models"
	"github.com/trth/performance-api/pkg/config"
	appErrors "github.com/trth/performance-api/pkg/errors"
)

type mockUserAuthStore struct {
	users      map[string]*models.User
	lastLogins []string
	audit      []*models.AuditLog
}

func (m *mockUserAuthStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserAuthStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserAuthStore) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	m.lastLogins = append(m.lastLogins, id)
	return nil
}

func (m *mockUserAuthStore) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	m.audit = append(m.audit, log)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "performance-api"}
}

func authFixture(t *testing.T) (*AuthService, *mockUserAuthStore) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	store := &mockUserAuthStore{users: map[string]*models.User{
		"u1": {
			ID:           "u1",
			Email:        "jordan@example.com",
			PasswordHash: string(hash),
			FullName:     "Jordan Lee",
			EmpCode:      "EMP001",
			Role:         models.RoleEmployee,
			Active:       true,
		},
	}}
	return NewAuthService(store, testJWTConfig(), "EMP999", nil, nil), store
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc, store := authFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "jordan@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "EMP001", resp.User.EmpCode)
	assert.Equal(t, []string{"u1"}, store.lastLogins)
	require.Len(t, store.audit, 1)
	assert.Equal(t, models.AuditActionLogin, store.audit[0].Action)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "EMP001", claims.EmpCode)
	assert.False(t, claims.IsAdmin)
}

func TestLoginAdminEmpCodeSetsAdminFlag(t *testing.T) {
	svc, store := authFixture(t)
	store.users["u1"].EmpCode = "EMP999"

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "jordan@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestLoginWrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _ := authFixture(t)

	_, badPass := svc.Login(context.Background(), models.LoginRequest{
		Email:    "jordan@example.com",
		Password: "wrong",
	})
	_, noUser := svc.Login(context.Background(), models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "wrong",
	})

	require.Error(t, badPass)
	require.Error(t, noUser)
	assert.Equal(t, badPass.Error(), noUser.Error())
}

func TestLoginInactiveAccountRejected(t *testing.T) {
	svc, store := authFixture(t)
	store.users["u1"].Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "jordan@example.com",
		Password: "s3cret-pass",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	svc, _ := authFixture(t)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "jordan@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken + "x")
	require.Error(t, err)

	_, err = svc.ValidateToken("not-a-token")
	require.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	svc, _ := authFixture(t)
	svc.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "jordan@example.com",
		Password: "s3cret-pass",
	})
	require.NoError(t, err)

	_, err = svc.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}

func TestMeReturnsAccount(t *testing.T) {
	svc, _ := authFixture(t)

	info, err := svc.Me(context.Background(), &models.JWTClaims{UserID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, "jordan@example.com", info.Email)

	_, err = svc.Me(context.Background(), &models.JWTClaims{UserID: "ghost"})
	require.Error(t, err)

	_, err = svc.Me(context.Background(), nil)
	require.Error(t, err)
}
