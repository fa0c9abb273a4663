package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/campus-events/server/internal/api/problem"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/campus-events/server/internal/domain/search"
)

type SearchHandler struct {
	Events *events.Service
	Env    string
}

func NewSearchHandler(eventsService *events.Service, env string) *SearchHandler {
	return &SearchHandler{Events: eventsService, Env: env}
}

// Search lists visible events and narrows them in memory with the pure
// filter predicates. Filters compose: every supplied parameter must match.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	items, err := h.Events.List(r.Context(), events.ListOptions{Chronological: true})
	if err != nil {
		problem.Write(w, r, http.StatusInternalServerError, "https://campus.events/problems/server-error", "Server error", err, h.Env)
		return
	}

	query := r.URL.Query()
	if title := query.Get("q"); title != "" {
		items = search.ByTitle(items, title)
	}
	if keyword := query.Get("description"); keyword != "" {
		items = search.ByDescription(items, keyword)
	}
	if raw := query.Get("categories"); raw != "" {
		items = search.ByCategory(items, splitList(raw))
	}

	startRaw, endRaw := query.Get("start"), query.Get("end")
	if startRaw != "" || endRaw != "" {
		if startRaw == "" || endRaw == "" {
			problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request",
				events.FieldError{Field: "start/end", Message: "both bounds are required"}, h.Env)
			return
		}
		start, err := time.Parse("2006-01-02", startRaw)
		if err != nil {
			problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request",
				events.FieldError{Field: "start", Message: "must be a YYYY-MM-DD date"}, h.Env)
			return
		}
		end, err := time.Parse("2006-01-02", endRaw)
		if err != nil {
			problem.Write(w, r, http.StatusBadRequest, "https://campus.events/problems/validation-error", "Invalid request",
				events.FieldError{Field: "end", Message: "must be a YYYY-MM-DD date"}, h.Env)
			return
		}
		items = search.ByDateRange(items, start, end)
	}

	payload := make([]map[string]any, 0, len(items))
	for _, event := range items {
		payload = append(payload, eventPayload(event))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": payload})
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	return out
}
