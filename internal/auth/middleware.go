package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/clmgranada/intensivo-be/internal/models"
	"github.com/clmgranada/intensivo-be/internal/services"
	"github.com/rs/zerolog/log"
)

type contextKey string

// UserKey is the context key under which the gate stores the
// authenticated, sanitized user.
const UserKey = contextKey("authUser")

// UserFromContext returns the user attached by the gate, if any.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserKey).(models.User)
	return user, ok
}

// Middleware returns the authentication gate applied to protected routes:
// extract the bearer token, verify it, load the user, check the active
// flag, and attach the sanitized user to the request context.
func Middleware(tokens *TokenService, users services.UserServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				rejectJSON(w, http.StatusUnauthorized, "Not authorized. Please log in.")
				return
			}

			userID, err := tokens.Verify(tokenStr)
			if err != nil {
				rejectJSON(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.GetUserByID(userID)
			if err != nil {
				rejectJSON(w, http.StatusUnauthorized, "User not found")
				return
			}

			if !user.IsActive {
				rejectJSON(w, http.StatusForbidden, "Account deactivated")
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, user.Sanitize())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole restricts a route to users holding one of the given roles.
// It must run after Middleware.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, role := range roles {
		allowed[role] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				rejectJSON(w, http.StatusUnauthorized, "Not authorized")
				return
			}
			if !allowed[user.Role] {
				rejectJSON(w, http.StatusForbidden,
					fmt.Sprintf("Role '%s' is not allowed to access this resource", user.Role))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken extracts the token from the Authorization header. The gate
// accepts header tokens only.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(authHeader, "Bearer ")
}

func rejectJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"success": false,
		"message": message,
	}); err != nil {
		log.Error().Err(err).Msg("Failed to write auth rejection")
	}
}
