package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/tournament-engine/services"
)

type contextKey string

const claimsContextKey contextKey = "organizer"

// Authenticate rejects requests without a valid organizer bearer token and
// stores the verified claims in the request context.
func Authenticate(auth services.AuthService, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				unauthorized(w)
				return
			}

			claims, err := auth.Verify(strings.TrimSpace(token))
			if err != nil {
				logger.Debug("token rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
				unauthorized(w)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="tournament-engine"`)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"authentication required"}` + "\n"))
}
