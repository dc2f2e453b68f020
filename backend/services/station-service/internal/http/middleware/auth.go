package middleware

import (
	"context"
	"net/http"
	"strings"

	"chargehub/backend/services/station-service/internal/service"
)

type contextKey string

const claimsKey contextKey = "claims"

// TokenValidator decodes session tokens.
type TokenValidator interface {
	ValidateToken(token string) (*service.Claims, error)
}

// AuthMiddleware validates the session JWT from the Authorization header or the session cookie.
func AuthMiddleware(tokens TokenValidator, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := tokenFromRequest(r, cookieName)
			if tokenStr == "" {
				writeMessage(w, http.StatusUnauthorized, "Not authorized, no token")
				return
			}

			claims, err := tokens.ValidateToken(tokenStr)
			if err != nil {
				writeMessage(w, http.StatusForbidden, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request, cookieName string) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookieName == "" {
		return ""
	}
	if cookie, err := r.Cookie(cookieName); err == nil {
		return strings.TrimSpace(cookie.Value)
	}
	return ""
}

// WithClaims stores claims on ctx the way AuthMiddleware does.
func WithClaims(ctx context.Context, claims *service.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// UserIDFromContext retrieves the authenticated user id from request context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	claims, ok := ctx.Value(claimsKey).(*service.Claims)
	if !ok || claims == nil || claims.UserID == "" {
		return "", false
	}
	return claims.UserID, true
}
