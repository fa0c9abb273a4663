package problem

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) ProblemDetails {
	t.Helper()
	var p ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	return p
}

func TestWriteSetsContentTypeAndStatus(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events/abc", nil)

	Write(rec, req, http.StatusNotFound, "not-found", "Event not found", errors.New("no such row"), "development")

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	p := decode(t, rec)
	require.Equal(t, "not-found", p.Type)
	require.Equal(t, "Event not found", p.Title)
	require.Equal(t, http.StatusNotFound, p.Status)
	require.Equal(t, "/api/v1/events/abc", p.Instance)
}

func TestWriteExposesDetailInDevelopment(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	Write(rec, req, http.StatusBadRequest, "validation", "Invalid input", errors.New("name must not be empty"), "development")

	p := decode(t, rec)
	require.Equal(t, "name must not be empty", p.Detail)
}

func TestWriteRedactsDetailInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	Write(rec, req, http.StatusInternalServerError, "internal", "Internal error", errors.New("pq: connection refused"), "production")

	p := decode(t, rec)
	require.Equal(t, http.StatusText(http.StatusInternalServerError), p.Detail)
	require.NotContains(t, rec.Body.String(), "connection refused")
}

func TestWriteNoErrorOmitsDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)

	Write(rec, req, http.StatusConflict, "conflict", "Already exists", nil, "development")

	p := decode(t, rec)
	require.Empty(t, p.Detail)
}
