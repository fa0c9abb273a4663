package handlers

import (
	"errors"
	"net/http"

	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/domain/engagement"
	"github.com/campus-events/server/internal/domain/events"
)

type EngagementHandler struct {
	Service *engagement.Service
	Events  *events.Service
	Env     string
}

func NewEngagementHandler(service *engagement.Service, eventsService *events.Service, env string) *EngagementHandler {
	return &EngagementHandler{Service: service, Events: eventsService, Env: env}
}

// Toggle flips the requester's link on the event: add when absent, remove
// when present. Mirrors the RSVP/Like button.
func (h *EngagementHandler) Toggle(log engagement.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := pathParam(r, "id")

		// Only visible events accept engagement.
		if _, err := h.Events.GetByID(r.Context(), eventID, false); err != nil {
			h.writeError(w, r, err)
			return
		}

		added, err := h.Service.Toggle(r.Context(), log, requesterID(r), eventID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"event_id": eventID,
			"active":   added,
		})
	}
}

// ListByEvent returns the account IDs linked to the event.
func (h *EngagementHandler) ListByEvent(log engagement.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		eventID := pathParam(r, "id")
		ids, err := h.Service.ListByEvent(r.Context(), log, eventID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"event_id":    eventID,
			"account_ids": orEmpty(ids),
		})
	}
}

// ListByAccount returns the event IDs the account is linked to.
func (h *EngagementHandler) ListByAccount(log engagement.Log) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		accountID := pathParam(r, "id")
		ids, err := h.Service.ListByAccount(r.Context(), log, accountID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"account_id": accountID,
			"event_ids":  orEmpty(ids),
		})
	}
}

func (h *EngagementHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, events.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "https://campus.events/problems/not-found", "Not found", err, h.Env)
	case errors.Is(err, engagement.ErrUnknownLog):
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, "https://campus.events/problems/server-error", "Server error", err, h.Env)
	}
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
