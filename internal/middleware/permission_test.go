package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/trth/performance-api/internal/models"
)

type staticChecker struct {
	granted map[string]bool
}

func (s staticChecker) HasPermission(ctx context.Context, empCode string, permission models.DelegationPermission) bool {
	return s.granted[empCode+":"+string(permission)]
}

func permissionRouter(checker PermissionChecker, claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
	})
	router.GET("/guarded", RequirePermission(checker, models.PermManageEmployees), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.GET("/admin", RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRequirePermissionAdminBypasses(t *testing.T) {
	router := permissionRouter(staticChecker{}, &models.JWTClaims{EmpCode: "EMP999", IsAdmin: true})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestRequirePermissionDelegatedGrant(t *testing.T) {
	checker := staticChecker{granted: map[string]bool{"EMP001:MANAGE_EMPLOYEES": true}}
	router := permissionRouter(checker, &models.JWTClaims{EmpCode: "EMP001"})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestRequirePermissionDenied(t *testing.T) {
	router := permissionRouter(staticChecker{}, &models.JWTClaims{EmpCode: "EMP002"})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestRequirePermissionMissingClaims(t *testing.T) {
	router := permissionRouter(staticChecker{}, nil)

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestRequireAdminBlocksNonAdmin(t *testing.T) {
	router := permissionRouter(staticChecker{}, &models.JWTClaims{EmpCode: "EMP001"})

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/admin", nil))
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}
