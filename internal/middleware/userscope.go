package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nzoschke/organizer/internal/ctxkeys"
	"github.com/nzoschke/organizer/internal/service"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderTimezone = "X-Timezone"
)

// UserScope resolves the user every API call is scoped to, in order:
// a bearer token when JWT auth is enabled, the X-User-ID header when it is
// not, then the demo user when allowDemo is set. A request with none of
// these is rejected. X-Timezone, when present, sets the caller's calendar.
func UserScope(auth *service.AuthService, demoUserID string, allowDemo bool) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, ok := resolveUser(w, r, auth, demoUserID, allowDemo)
			if !ok {
				return
			}

			ctx := ctxkeys.WithUserID(r.Context(), userID)

			if tz := strings.TrimSpace(r.Header.Get(HeaderTimezone)); tz != "" {
				loc, err := time.LoadLocation(tz)
				if err != nil {
					writeError(w, http.StatusBadRequest, "X-Timezone: unknown time zone "+tz)
					return
				}
				ctx = ctxkeys.WithLocation(ctx, loc)
			}

			if rw, ok := w.(*responseWriter); ok {
				rw.userID = userID
			}

			next(w, r.WithContext(ctx))
		}
	}
}

func resolveUser(w http.ResponseWriter, r *http.Request, auth *service.AuthService, demoUserID string, allowDemo bool) (string, bool) {
	if header := r.Header.Get("Authorization"); header != "" {
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || !auth.Enabled() {
			writeError(w, http.StatusUnauthorized, "unsupported authorization")
			return "", false
		}

		userID, err := auth.VerifyJWT(strings.TrimSpace(token))
		if err != nil {
			slog.Warn("rejected bearer token", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "invalid token")
			return "", false
		}
		return userID, true
	}

	if !auth.Enabled() {
		if userID := strings.TrimSpace(r.Header.Get(HeaderUserID)); userID != "" {
			return userID, true
		}
	}

	if allowDemo && demoUserID != "" {
		return demoUserID, true
	}

	writeError(w, http.StatusUnauthorized, "user scope required")
	return "", false
}
