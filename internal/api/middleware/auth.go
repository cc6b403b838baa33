package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/dom/account-store/internal/service"
	"github.com/google/uuid"
)

type contextKey string

const (
	OperatorIDKey    contextKey = "operatorID"
	OperatorEmailKey contextKey = "operatorEmail"
)

// Auth guards the admin surface. A request passes with a valid bearer token
// whose operator still holds a live session, so logging out revokes access
// tokens issued before it.
func Auth(authService *service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" {
				log.Printf("ERROR [middleware.Auth] path=%s: missing bearer token", r.URL.Path)
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			claims, err := authService.ValidateToken(token)
			if err != nil {
				log.Printf("ERROR [middleware.Auth] path=%s token validation failed: %v", r.URL.Path, err)
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			sub, _ := (*claims)["sub"].(string)
			operatorID, err := uuid.Parse(sub)
			if err != nil {
				log.Printf("ERROR [middleware.Auth] path=%s bad 'sub' claim: %v", r.URL.Path, err)
				http.Error(w, "Invalid token claims", http.StatusUnauthorized)
				return
			}
			email, _ := (*claims)["email"].(string)

			if err := authService.RequireSession(r.Context(), operatorID); err != nil {
				if errors.Is(err, service.ErrSessionEnded) {
					log.Printf("ERROR [middleware.Auth] operatorID=%s email=%s: %v", operatorID, email, err)
					http.Error(w, "Session ended", http.StatusUnauthorized)
					return
				}
				log.Printf("ERROR [middleware.Auth] operatorID=%s email=%s session lookup: %v", operatorID, email, err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			ctx := context.WithValue(r.Context(), OperatorIDKey, operatorID)
			ctx = context.WithValue(ctx, OperatorEmailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetOperatorID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(OperatorIDKey).(uuid.UUID)
	return id, ok
}

// GetOperatorEmail returns the email claim of the authenticated operator, or
// "" outside the admin surface.
func GetOperatorEmail(ctx context.Context) string {
	email, _ := ctx.Value(OperatorEmailKey).(string)
	return email
}
