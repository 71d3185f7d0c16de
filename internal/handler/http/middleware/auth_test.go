package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fieldops-hq/hrops-backend/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(ja *jwtauth.JWTAuth) http.Handler {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return jwtauth.Verifier(ja)(AuthRequired(ja)(next))
}

func TestAuthRequired_AcceptsAccessToken(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", "1h")
	token, _, err := svc.GenerateAccessToken("emp-1", "staff")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(svc.JWTAuth()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthRequired_MissingToken(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", "1h")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	protected(svc.JWTAuth()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequired_RejectsNonAccessToken(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", "1h")
	_, token, err := svc.JWTAuth().Encode(map[string]interface{}{
		"employee_id": "emp-1",
		"type":        "refresh",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(svc.JWTAuth()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRequired_RejectsTokenWithoutEmployeeID(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", "1h")
	_, token, err := svc.JWTAuth().Encode(map[string]interface{}{
		"type": "access",
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(svc.JWTAuth()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
