package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jschof1/val-des-roses/pkg/logger"
)

type contextKeyType string

const sessionIDKey contextKeyType = "session_id"

// SessionHeader is the HTTP header carrying the storefront session ID.
const SessionHeader = "X-Session-ID"

// Session middleware resolves the cart session for a request. It reads the
// session ID from the X-Session-ID header, generating a fresh one when the
// header is absent, and echoes it back in the response so the client can
// persist it. The ID is stored in context for handlers and log enrichment.
func Session() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := r.Header.Get(SessionHeader)
			if sessionID == "" {
				sessionID = uuid.New().String()
			}

			w.Header().Set(SessionHeader, sessionID)

			ctx := context.WithValue(r.Context(), sessionIDKey, sessionID)
			ctx = logger.WithSessionID(ctx, sessionID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionIDFromContext returns the session ID stored by the Session middleware.
func SessionIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}
