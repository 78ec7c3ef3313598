package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/raushankrgupta/stylemate-backend/utils"
)

type contextKey string

const userIDKey contextKey = "userID"

// OptionalAuth attaches the authenticated user ID to the request context
// when a valid bearer token is present. Requests without one proceed
// anonymously; no wardrobe endpoint requires login.
func OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if token, err := utils.ValidateToken(tokenString); err == nil && token.Valid {
				if claims, ok := token.Claims.(jwt.MapClaims); ok {
					if userID, ok := claims["user_id"].(string); ok {
						r = r.WithContext(context.WithValue(r.Context(), userIDKey, userID))
					}
				}
			}
		}
		next(w, r)
	}
}

// GetUserIDFromContext returns the authenticated user ID, if any.
func GetUserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("no user in context")
	}
	return userID, nil
}
