package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const studentIDKey contextKey = "student_id"

// jwtSecret verifies tokens issued by the auth service. Shared via env in
// deployment; the fallback only exists for local development.
var jwtSecret = []byte(getEnv("JWT_SECRET", "neet-prep-staging-signing-key-2026"))

// OptionalAuth attaches the student id when a valid token is present and
// passes anonymous requests through untouched. Anonymous draws simply get no
// personalization.
func OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if studentID, err := studentIDFromHeader(r); err == nil {
			r = r.WithContext(context.WithValue(r.Context(), studentIDKey, studentID))
		}
		next.ServeHTTP(w, r)
	})
}

// StudentIDFromContext returns the authenticated student id, or "" for
// anonymous requests.
func StudentIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(studentIDKey).(string); ok {
		return id
	}
	return ""
}

func studentIDFromHeader(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", fmt.Errorf("missing bearer token")
	}
	tokenStr := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid claims")
	}
	studentID, ok := claims["student_id"].(string)
	if !ok || studentID == "" {
		return "", fmt.Errorf("missing student_id claim")
	}
	return studentID, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
