package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/campus-events/server/internal/api/middleware"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}

// requesterID returns the authenticated account ID from the bearer token,
// or "" when the request is unauthenticated.
func requesterID(r *http.Request) string {
	claims, ok := middleware.ClaimsFrom(r.Context())
	if !ok {
		return ""
	}
	return claims.Subject
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
