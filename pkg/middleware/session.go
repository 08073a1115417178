package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/utafrali/patatpalace/pkg/logger"
)

type sessionKeyType string

const (
	sessionKey       sessionKeyType = "session_id"
	sessionIssuedKey sessionKeyType = "session_issued"
)

// SessionConfig controls the browser session cookie.
type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// DefaultSessionConfig returns the cookie settings used by the storefront.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		CookieName: "patat_session",
		MaxAge:     7 * 24 * time.Hour,
	}
}

// Session reads the session cookie, issuing a fresh UUID when it is missing
// or malformed, and stores the session ID in the request context. The cookie
// is refreshed on every response. A freshly issued ID is flagged in the
// context; see SessionIssued.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionConfig().CookieName
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if c, err := r.Cookie(cfg.CookieName); err == nil {
				if id, err := uuid.Parse(c.Value); err == nil {
					sessionID = id.String()
				}
			}
			issued := sessionID == ""
			if issued {
				sessionID = uuid.New().String()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     cfg.CookieName,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(cfg.MaxAge.Seconds()),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithSessionID(r.Context(), sessionID)
			if issued {
				ctx = context.WithValue(ctx, sessionIssuedKey, true)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// WithSessionID stores the session ID in ctx for handlers and for logging.
func WithSessionID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, sessionKey, id)
	return logger.WithSessionID(ctx, id)
}

// SessionIDFromContext returns the session ID set by the Session middleware.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionKey).(string)
	return id, ok && id != ""
}

// SessionIssued reports whether the session ID in ctx was minted for this
// request because it carried no valid session cookie.
func SessionIssued(ctx context.Context) bool {
	issued, _ := ctx.Value(sessionIssuedKey).(bool)
	return issued
}
