package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/auth"
	"github.com/campus-events/server/internal/domain/accounts"
	"github.com/campus-events/server/internal/metrics"
)

type AccountsHandler struct {
	Service *accounts.Service
	JWT     *auth.JWTManager
	Env     string
}

func NewAccountsHandler(service *accounts.Service, jwtManager *auth.JWTManager, env string) *AccountsHandler {
	return &AccountsHandler{Service: service, JWT: jwtManager, Env: env}
}

type registerRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	Role      string `json:"role" validate:"required,oneof=Student Faculty"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
}

func (h *AccountsHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	_, err := h.Service.Register(r.Context(), accounts.RegisterParams{
		AccountID: req.AccountID,
		Role:      req.Role,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		h.writeAccountError(w, r, err)
		return
	}

	// The verification code travels by email only, never in the response.
	writeJSON(w, http.StatusCreated, map[string]any{
		"account_id": req.AccountID,
		"verified":   false,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AccountsHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	accountID, err := h.Service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeAccountError(w, r, err)
		return
	}

	account, err := h.Service.GetByID(r.Context(), accountID)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://campus.events/problems/server-error", "Server error", err, h.Env)
		return
	}

	token, err := h.JWT.Generate(accountID, account.Role)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://campus.events/problems/server-error", "Server error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"account_id": accountID,
		"role":       account.Role,
		"token":      token,
	})
}

type verifyRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

func (h *AccountsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	accountID := pathParam(r, "id")

	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	if err := h.Service.ConfirmVerification(r.Context(), accountID, req.Code); err != nil {
		metrics.VerificationsTotal.WithLabelValues(verifyOutcome(err)).Inc()
		h.writeAccountError(w, r, err)
		return
	}

	metrics.VerificationsTotal.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, map[string]any{
		"account_id": accountID,
		"verified":   true,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

func (h *AccountsHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	accountID := pathParam(r, "id")
	if requesterID(r) != accountID {
		problem.Write(w, r, http.StatusForbidden, "https://campus.events/problems/forbidden", "Forbidden", nil, h.Env)
		return
	}

	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	if err := h.Service.ChangePassword(r.Context(), accountID, req.CurrentPassword, req.NewPassword); err != nil {
		h.writeAccountError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	accountID := pathParam(r, "id")
	if requesterID(r) != accountID {
		problem.Write(w, r, http.StatusForbidden, "https://campus.events/problems/forbidden", "Forbidden", nil, h.Env)
		return
	}

	if err := h.Service.Remove(r.Context(), accountID); err != nil {
		h.writeAccountError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountsHandler) writeAccountError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr accounts.ValidationError
	switch {
	case errors.As(err, &validationErr):
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
	case errors.Is(err, accounts.ErrConflict):
		problem.Write(w, r, http.StatusConflict, "https://campus.events/problems/conflict", "Conflict", err, h.Env)
	case errors.Is(err, accounts.ErrAccountHasEvents):
		problem.Write(w, r, http.StatusConflict, "https://campus.events/problems/conflict", "Account still owns events", err, h.Env)
	case errors.Is(err, accounts.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "https://campus.events/problems/not-found", "Not found", err, h.Env)
	case errors.Is(err, accounts.ErrInvalidCredentials), errors.Is(err, accounts.ErrInvalidCode):
		problem.Write(w, r, http.StatusUnauthorized, "https://campus.events/problems/unauthorized", "Unauthorized", err, h.Env)
	case errors.Is(err, accounts.ErrUnverified):
		problem.Write(w, r, http.StatusForbidden, "https://campus.events/problems/unverified", "Account not verified", err, h.Env)
	case errors.Is(err, accounts.ErrCodeExpired):
		problem.Write(w, r, http.StatusGone, "https://campus.events/problems/code-expired", "Verification code expired", err, h.Env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, "https://campus.events/problems/server-error", "Server error", err, h.Env)
	}
}

func verifyOutcome(err error) string {
	switch {
	case errors.Is(err, accounts.ErrCodeExpired):
		return "expired"
	case errors.Is(err, accounts.ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, accounts.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
