package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newProtectedRouter(t *testing.T, service *Service, adminOnly bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	group := router.Group("/")
	group.Use(Middleware(service))
	if adminOnly {
		group.Use(RequireAdmin())
	}
	group.GET("/protected", func(c *gin.Context) {
		user, _ := CurrentUser(c)
		c.JSON(http.StatusOK, gin.H{"email": user.Email})
	})
	return router
}

func registerTestUser(t *testing.T, service *Service, role Role) AuthResult {
	t.Helper()
	result, err := service.Register(context.Background(), RegisterInput{
		Email:    string(role) + "@example.sn",
		Password: "StrongPass1!",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return result
}

func TestMiddlewareAllowsValidToken(t *testing.T) {
	service := NewService(newMemoryStore(), testAuthConfig())
	registered := registerTestUser(t, service, RoleClient)
	router := newProtectedRouter(t, service, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Tokens.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200; got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMiddlewareRejectsMissingHeader(t *testing.T) {
	service := NewService(newMemoryStore(), testAuthConfig())
	router := newProtectedRouter(t, service, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401; got %d", rec.Code)
	}
}

func TestMiddlewareRejectsGarbageToken(t *testing.T) {
	service := NewService(newMemoryStore(), testAuthConfig())
	router := newProtectedRouter(t, service, false)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401; got %d", rec.Code)
	}
}

func TestRequireAdminBlocksClients(t *testing.T) {
	service := NewService(newMemoryStore(), testAuthConfig())
	registered := registerTestUser(t, service, RoleClient)
	router := newProtectedRouter(t, service, true)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Tokens.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for client on admin route; got %d", rec.Code)
	}
}

func TestRequireAdminAllowsAdmins(t *testing.T) {
	service := NewService(newMemoryStore(), testAuthConfig())
	registered := registerTestUser(t, service, RoleAdmin)
	router := newProtectedRouter(t, service, true)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+registered.Tokens.AccessToken)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin; got %d", rec.Code)
	}
}
