package httphandler

import (
	"context"
	"mime"
	"net/http"

	"github.com/niksmo/storefront/internal/core/port"
)

const SessionHeader = "X-Session-ID"

func AllowJSON(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength == 0 {
			next.ServeHTTP(w, r)
			return
		}

		mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "application/json" {
			http.Error(w, "invalid media type", http.StatusUnsupportedMediaType)
			return
		}

		next.ServeHTTP(w, r)
	}
	return http.HandlerFunc(hf)
}

type ctxKey int

const (
	userIDKey ctxKey = iota
	sessionIDKey
)

// Shopper puts the session id header and the Basic auth user name into
// the request context. Credentials are verified upstream.
func Shopper(next http.Handler) http.Handler {
	hf := func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if user, _, ok := r.BasicAuth(); ok && user != "" {
			ctx = context.WithValue(ctx, userIDKey, user)
		}
		if id := r.Header.Get(SessionHeader); id != "" {
			ctx = context.WithValue(ctx, sessionIDKey, id)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	}
	return http.HandlerFunc(hf)
}

var _ port.SessionProvider = Identity{}

// Identity reads the user placed into the context by Shopper.
type Identity struct{}

func (Identity) CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

func sessionIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}
