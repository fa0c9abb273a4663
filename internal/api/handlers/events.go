package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/domain/events"
)

type EventsHandler struct {
	Service *events.Service
	Env     string
}

func NewEventsHandler(service *events.Service, env string) *EventsHandler {
	return &EventsHandler{Service: service, Env: env}
}

type createEventRequest struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description"`
	Category     string   `json:"category" validate:"required"`
	Location     string   `json:"location"`
	Images       *string  `json:"images"`
	Visibility   string   `json:"visibility" validate:"required"`
	StartTime    string   `json:"start_time" validate:"required"`
	EndTime      string   `json:"end_time" validate:"required"`
	RSVPRequired bool     `json:"rsvp_required"`
	Priced       bool     `json:"priced"`
	Cost         *float64 `json:"cost"`
}

func (h *EventsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	startTime, err := parseTimestamp("start_time", req.StartTime)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}
	endTime, err := parseTimestamp("end_time", req.EndTime)
	if err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	event, err := h.Service.Create(r.Context(), events.CreateParams{
		CreatorID:    requesterID(r),
		Name:         req.Name,
		Description:  req.Description,
		Category:     req.Category,
		Location:     req.Location,
		Images:       req.Images,
		Visibility:   req.Visibility,
		StartTime:    startTime,
		EndTime:      endTime,
		RSVPRequired: req.RSVPRequired,
		Priced:       req.Priced,
		Cost:         req.Cost,
	})
	if err != nil {
		h.writeEventError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, eventPayload(*event))
}

func (h *EventsHandler) List(w http.ResponseWriter, r *http.Request) {
	opts := events.ListOptions{
		IncludeInactive: queryBool(r, "include_inactive", false),
		Chronological:   queryBool(r, "chronological", true),
	}

	items, err := h.Service.List(r.Context(), opts)
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://campus.events/problems/server-error", "Server error", err, h.Env)
		return
	}

	payload := make([]map[string]any, 0, len(items))
	for _, event := range items {
		payload = append(payload, eventPayload(event))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": payload})
}

func (h *EventsHandler) Get(w http.ResponseWriter, r *http.Request) {
	eventID := pathParam(r, "id")
	event, err := h.Service.GetByID(r.Context(), eventID, queryBool(r, "include_inactive", false))
	if err != nil {
		h.writeEventError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, eventPayload(*event))
}

type updateEventRequest struct {
	Name         *string  `json:"name"`
	Description  *string  `json:"description"`
	Location     *string  `json:"location"`
	Images       *string  `json:"images"`
	Category     *string  `json:"category"`
	Visibility   *string  `json:"visibility"`
	StartTime    *string  `json:"start_time"`
	EndTime      *string  `json:"end_time"`
	RSVPRequired *bool    `json:"rsvp_required"`
	Priced       *bool    `json:"priced"`
	Cost         *float64 `json:"cost"`
}

func (h *EventsHandler) Update(w http.ResponseWriter, r *http.Request) {
	eventID := pathParam(r, "id")

	var req updateEventRequest
	decoder := json.NewDecoder(r.Body)
	// Unknown keys would silently fall outside the update whitelist; reject
	// them instead.
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
		return
	}

	params := events.UpdateParams{
		Name:         req.Name,
		Description:  req.Description,
		Location:     req.Location,
		Images:       req.Images,
		Category:     req.Category,
		Visibility:   req.Visibility,
		RSVPRequired: req.RSVPRequired,
		Priced:       req.Priced,
		Cost:         req.Cost,
	}
	if req.StartTime != nil {
		startTime, err := parseTimestamp("start_time", *req.StartTime)
		if err != nil {
			problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
			return
		}
		params.StartTime = &startTime
	}
	if req.EndTime != nil {
		endTime, err := parseTimestamp("end_time", *req.EndTime)
		if err != nil {
			problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
			return
		}
		params.EndTime = &endTime
	}

	if err := h.Service.Update(r.Context(), eventID, requesterID(r), params); err != nil {
		h.writeEventError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete soft-deletes by default; ?hard=true removes the row and every
// dependent row.
func (h *EventsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := pathParam(r, "id")

	var err error
	if queryBool(r, "hard", false) {
		err = h.Service.HardDelete(r.Context(), eventID, requesterID(r))
	} else {
		err = h.Service.SoftDelete(r.Context(), eventID, requesterID(r))
	}
	if err != nil {
		h.writeEventError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *EventsHandler) writeEventError(w http.ResponseWriter, r *http.Request, err error) {
	var fieldErr events.FieldError
	switch {
	case errors.As(err, &fieldErr):
		problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request", err, h.Env)
	case errors.Is(err, events.ErrNotFound):
		problem.Write(w, r, http.StatusNotFound, "https://campus.events/problems/not-found", "Not found", err, h.Env)
	case errors.Is(err, events.ErrForbidden):
		problem.Write(w, r, http.StatusForbidden, "https://campus.events/problems/forbidden", "Forbidden", err, h.Env)
	default:
		problem.Write(w, r, http.StatusInternalServerError, "https://campus.events/problems/server-error", "Server error", err, h.Env)
	}
}

func eventPayload(event events.Event) map[string]any {
	payload := map[string]any{
		"event_id":      event.EventID,
		"creator_id":    event.CreatorID,
		"name":          event.Name,
		"description":   event.Description,
		"category":      event.Category,
		"location":      event.Location,
		"visibility":    event.Visibility,
		"start_time":    event.StartTime.Format(time.RFC3339),
		"end_time":      event.EndTime.Format(time.RFC3339),
		"like_count":    event.LikeCount,
		"rsvp_required": event.RSVPRequired,
		"priced":        event.Priced,
	}
	if event.Images != nil {
		payload["images"] = *event.Images
	}
	if event.Cost != nil {
		payload["cost"] = *event.Cost
	}
	return payload
}

func parseTimestamp(field, value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, events.FieldError{Field: field, Message: "must be an RFC 3339 timestamp"}
	}
	return parsed, nil
}

func queryBool(r *http.Request, name string, fallback bool) bool {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
