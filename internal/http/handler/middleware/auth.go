package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	tokenIssuer "quizzer/pkg/jwt"

	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"
)

// UserIDKey holds the authenticated user id attached by Protect.
const UserIDKey contextKey = "user_id"

type TokenVerifier interface {
	Validate(token string) (jwt.MapClaims, error)
}

type AuthMiddleware struct {
	logs     *zap.SugaredLogger
	verifier TokenVerifier
}

func NewAuthMiddleware(logger *zap.SugaredLogger, verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{
		logs:     logger,
		verifier: verifier,
	}
}

// Protect guards a route with the bearer token flow: read the Authorization
// header, strip a literal "Bearer " prefix when present (a bare token is
// accepted verbatim), verify signature and expiry, then attach the embedded
// user id to the request context.
func (m *AuthMiddleware) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			m.reject(w, "No token, authorization denied")
			return
		}

		claims, err := m.verifier.Validate(tokenIssuer.TrimBearerPrefix(header))
		if err != nil {
			m.logs.Infow("token rejected by middleware", "error", err, "path", r.URL.Path)
			m.reject(w, "Token is not valid")
			return
		}

		userID, err := tokenIssuer.UserIDClaim(claims)
		if err != nil {
			m.logs.Infow("token missing userId claim", "path", r.URL.Path)
			m.reject(w, "Token is not valid")
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(map[string]string{"message": message}); err != nil {
		m.logs.Errorw("failed to encode middleware response", "error", err)
	}
}
