package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jschof1/val-des-roses/pkg/logger"
)

func TestSession_UsesHeaderWhenPresent(t *testing.T) {
	var gotSessionID string
	handler := Session()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSessionID = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(SessionHeader, "sess-abc")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "sess-abc", gotSessionID)
	assert.Equal(t, "sess-abc", rec.Header().Get(SessionHeader))
}

func TestSession_GeneratesIDWhenMissing(t *testing.T) {
	var gotSessionID string
	handler := Session()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSessionID = SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	require.NotEmpty(t, gotSessionID)
	_, err := uuid.Parse(gotSessionID)
	assert.NoError(t, err, "generated session ID should be a valid UUID")
	assert.Equal(t, gotSessionID, rec.Header().Get(SessionHeader))
}

func TestSession_SetsLoggerSessionID(t *testing.T) {
	var logSessionID string
	handler := Session()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logSessionID = logger.SessionIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.Header.Set(SessionHeader, "sess-log")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "sess-log", logSessionID)
}

func TestSessionIDFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, SessionIDFromContext(req.Context()))
}
