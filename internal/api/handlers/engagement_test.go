package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campus-events/server/internal/domain/engagement"
	"github.com/campus-events/server/internal/domain/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newEngagementMux(env *testEnv) *http.ServeMux {
	service := engagement.NewService(env.engagementRepo, zerolog.Nop())
	handler := NewEngagementHandler(service, env.eventsService, "test")

	mux := http.NewServeMux()
	mux.Handle("POST /api/v1/events/{id}/like", env.authed(handler.Toggle(engagement.LogLike)))
	mux.Handle("POST /api/v1/events/{id}/rsvp", env.authed(handler.Toggle(engagement.LogRSVP)))
	mux.Handle("GET /api/v1/events/{id}/rsvp", handler.ListByEvent(engagement.LogRSVP))
	mux.Handle("GET /api/v1/accounts/{id}/likes", handler.ListByAccount(engagement.LogLike))
	return mux
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv()
	mux := newEngagementMux(env)
	seedEvent(env, "e1", "student-1")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/e1/like", nil)
	req.Header.Set("Authorization", bearer(t, env, "student-2", "Student"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, true, payload["active"])

	// Second toggle removes the link.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/events/e1/like", nil)
	req.Header.Set("Authorization", bearer(t, env, "student-2", "Student"))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, false, payload["active"])
	require.Empty(t, env.engagementRepo.links[engagement.LogLike])
}

func TestToggleOnInactiveEventNotFound(t *testing.T) {
	env := newTestEnv()
	mux := newEngagementMux(env)
	seedEvent(env, "e1", "student-1")
	env.eventRepo.events["e1"].Visibility = events.VisibilityInactive

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/e1/rsvp", nil)
	req.Header.Set("Authorization", bearer(t, env, "student-2", "Student"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Empty(t, env.engagementRepo.links[engagement.LogRSVP])
}

func TestToggleOnMissingEventNotFound(t *testing.T) {
	env := newTestEnv()
	mux := newEngagementMux(env)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/missing/rsvp", nil)
	req.Header.Set("Authorization", bearer(t, env, "student-2", "Student"))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRSVPsByEvent(t *testing.T) {
	env := newTestEnv()
	mux := newEngagementMux(env)
	seedEvent(env, "e1", "student-1")
	env.engagementRepo.links[engagement.LogRSVP][pair{"student-1", "e1"}] = struct{}{}
	env.engagementRepo.links[engagement.LogRSVP][pair{"student-2", "e1"}] = struct{}{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/e1/rsvp", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var payload struct {
		AccountIDs []string `json:"account_ids"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.ElementsMatch(t, []string{"student-1", "student-2"}, payload.AccountIDs)
}

func TestListLikesByAccountEmpty(t *testing.T) {
	env := newTestEnv()
	mux := newEngagementMux(env)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/student-1/likes", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"event_ids":[]`)
}
