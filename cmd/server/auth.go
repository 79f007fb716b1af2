package main

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey string

const userIDKey contextKey = "userId"

// extractUserMiddleware pulls the authenticated user from the headers a
// fronting proxy (e.g. Traefik BasicAuth) sets. With devFallback on,
// unauthenticated requests run as "dev-user" for local work.
func extractUserMiddleware(logger *slog.Logger, devFallback bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := r.Header.Get("X-Auth-User")
			if userID == "" {
				userID = r.Header.Get("X-Forwarded-User")
			}
			if userID == "" {
				userID = r.Header.Get("Remote-User")
			}

			if userID == "" && devFallback {
				userID = "dev-user"
				logger.Warn("no auth header, using dev-user")
			}

			if userID == "" {
				logger.Info("authentication failed: no user header")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getUserID(r *http.Request) string {
	userID, ok := r.Context().Value(userIDKey).(string)
	if !ok {
		return ""
	}
	return userID
}
