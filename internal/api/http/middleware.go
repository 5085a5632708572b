package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"locnos-backend/internal/domain"
	"locnos-backend/internal/logger"
	"locnos-backend/internal/security"
)

type contextKey string

const claimsKey contextKey = "claims"

// ClaimsFromContext returns the authenticated user's claims. The second
// return is false on routes that skipped the auth middleware.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(claimsKey).(*security.UserClaims)
	return claims, ok
}

type authMiddleware struct {
	tokens security.TokenManager
}

func newAuthMiddleware(tokens security.TokenManager) *authMiddleware {
	return &authMiddleware{tokens: tokens}
}

// Authenticate validates the bearer token and injects the claims into the
// request context. Refresh tokens are rejected here; they are only good for
// the refresh endpoint.
func (m *authMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			writeError(r.Context(), w, err)
			return
		}
		if claims.Type != security.TokenTypeAccess {
			writeError(r.Context(), w, security.ErrWrongTokenType)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a handler to the given roles. Admin always passes.
func RequireRole(roles ...domain.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				writeError(r.Context(), w, security.ErrInvalidToken)
				return
			}
			if domain.UserRole(claims.Role) == domain.UserRoleAdmin {
				next.ServeHTTP(w, r)
				return
			}
			for _, role := range roles {
				if domain.UserRole(claims.Role) == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "insufficient permissions"})
		})
	}
}

func extractBearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", security.ErrInvalidToken
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:], nil
	}
	return header, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.InfoContext(r.Context(), "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}
