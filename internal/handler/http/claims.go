package http

import (
	"net/http"

	"github.com/fieldops-hq/hrops-backend/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
)

// callerID extracts the authenticated employee ID from the verified token.
// AuthRequired has already guaranteed the claim exists; an empty return
// means the middleware chain was bypassed and the handler must 401.
func callerID(r *http.Request) string {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return ""
	}
	employeeID, _ := claims["employee_id"].(string)
	return employeeID
}

// pathID returns the "id" route parameter. All row IDs are UUIDv7, so a
// malformed value can never match a stored row; callers treat false as
// not-found without touching the store.
func pathID(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	return id, validator.IsValidUUID(id)
}
