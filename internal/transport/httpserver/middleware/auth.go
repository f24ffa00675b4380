package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"splitledger/internal/auth"
	"splitledger/pkg/logger"
)

type contextKey int

const (
	userIDKey contextKey = iota
	userEmailKey
)

// JWTAuth authenticates requests by validating the bearer token and
// placing the user identity on the request context.
type JWTAuth struct {
	tokens *auth.TokenManager
	log    logger.Logger
}

func NewJWTAuth(tokens *auth.TokenManager, log logger.Logger) *JWTAuth {
	return &JWTAuth{tokens: tokens, log: log}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			writeError(w, http.StatusUnauthorized, "missing_token", "authorization token required")
			return
		}

		claims, err := a.tokens.Validate(token)
		if err != nil {
			a.log.BusinessError("auth: token rejected", err)
			writeError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
			return
		}

		ctx := WithUser(r.Context(), claims.UserID, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func WithUser(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, userEmailKey, email)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func UserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(userEmailKey).(string)
	if !ok || email == "" {
		return "", false
	}
	return email, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
