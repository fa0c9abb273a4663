package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campus-events/server/internal/domain/events"
	"github.com/stretchr/testify/require"
)

func newSearchMux(env *testEnv) *http.ServeMux {
	handler := NewSearchHandler(env.eventsService, "test")
	mux := http.NewServeMux()
	mux.Handle("GET /api/v1/events/search", http.HandlerFunc(handler.Search))
	return mux
}

func seedSearchEvents(env *testEnv) {
	seedEvent(env, "e1", "student-1")
	env.eventRepo.events["e2"] = &events.Event{
		EventID:     "e2",
		CreatorID:   "student-1",
		Name:        "Jazz Night",
		Description: "Live performance at the student union",
		Category:    "Performance",
		Visibility:  events.VisibilityPublic,
		StartTime:   time.Date(2026, 4, 12, 20, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, 4, 12, 23, 0, 0, 0, time.UTC),
	}
}

func searchIDs(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var payload struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	out := make([]string, 0, len(payload.Items))
	for _, item := range payload.Items {
		out = append(out, item["event_id"].(string))
	}
	return out
}

func TestSearchByTitle(t *testing.T) {
	env := newTestEnv()
	mux := newSearchMux(env)
	seedSearchEvents(env)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/search?q=jazz", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"e2"}, searchIDs(t, rec))
}

func TestSearchFiltersCompose(t *testing.T) {
	env := newTestEnv()
	mux := newSearchMux(env)
	seedSearchEvents(env)

	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/events/search?categories=Performance,Math&start=2026-04-12&end=2026-04-12", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"e2"}, searchIDs(t, rec))
}

func TestSearchRequiresBothDateBounds(t *testing.T) {
	env := newTestEnv()
	mux := newSearchMux(env)
	seedSearchEvents(env)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/search?start=2026-04-12", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchRejectsBadDate(t *testing.T) {
	env := newTestEnv()
	mux := newSearchMux(env)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/search?start=April&end=2026-04-12", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchExcludesInactiveEvents(t *testing.T) {
	env := newTestEnv()
	mux := newSearchMux(env)
	seedSearchEvents(env)
	env.eventRepo.events["e2"].Visibility = events.VisibilityInactive

	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/search", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"e1"}, searchIDs(t, rec))
}
