package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "segredo-de-teste"

func signToken(t *testing.T, role string) string {
	t.Helper()
	claims := &JWTCustomClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin@loja",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func newAdminEcho(t *testing.T) *echo.Echo {
	t.Helper()
	cfg, stop, err := JWTConfig(testSecret, "")
	require.NoError(t, err)
	t.Cleanup(stop)

	e := echo.New()
	admin := e.Group("/api/admin", AdminAuth(cfg)...)
	admin.Use(AuditRequest())
	admin.DELETE("/ping/:codpro", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	return e
}

func TestAdminAuth(t *testing.T) {
	e := newAdminEcho(t)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer nope", http.StatusUnauthorized},
		{"customer role", "Bearer " + signToken(t, "customer"), http.StatusForbidden},
		{"admin role", "Bearer " + signToken(t, "admin"), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/admin/ping/1001", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestJWTConfig_RequiresKeyMaterial(t *testing.T) {
	_, _, err := JWTConfig("", "")
	assert.Error(t, err)
}

func TestVersionHeader(t *testing.T) {
	vm := NewVersionMiddleware("v1")
	e := echo.New()
	e.Use(vm.VersionHeader())
	e.GET("/x", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "v1", rec.Header().Get("X-API-Version"))
	assert.Empty(t, rec.Header().Get("X-API-Deprecated"))

	vm.Deprecate("use v2", time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC))
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, "true", rec.Header().Get("X-API-Deprecated"))
	assert.Equal(t, "2027-01-01T00:00:00Z", rec.Header().Get("X-API-Sunset"))
}
