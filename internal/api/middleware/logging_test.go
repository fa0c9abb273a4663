package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func loggedStatus(t *testing.T, buf *bytes.Buffer) int {
	t.Helper()

	var entry struct {
		Status int `json:"status"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry.Status
}

func TestRequestLoggingSilentHandlerLogsOK(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := RequestLogging(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		// Writes neither header nor body.
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, loggedStatus(t, &buf))
}

func TestRequestLoggingBodyOnlyHandlerLogsOK(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := RequestLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, loggedStatus(t, &buf))
}

func TestRequestLoggingRecordsExplicitStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := RequestLogging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Equal(t, http.StatusNotFound, loggedStatus(t, &buf))
}
