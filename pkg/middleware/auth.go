package middleware

import (
	"context"
	"net/http"
	"strings"

	"arenabook/pkg/auth"
	apperrors "arenabook/pkg/errors"
	httputil "arenabook/pkg/http"
	"arenabook/pkg/logger"
)

const callerKey contextKey = "caller_claims"

// BearerAuth verifies the Authorization header and attaches the verified
// claims to the request context. The core still re-resolves the caller
// against the user directory; this only establishes who is calling.
func BearerAuth(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				_ = httputil.WriteError(w, apperrors.Unauthenticated("Access token is missing"))
				return
			}

			claims, err := auth.ParseValidate(secret, token)
			if err != nil {
				log.Warn("Token verification failed",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
				)
				_ = httputil.WriteError(w, apperrors.Unauthenticated("Invalid or expired token"))
				return
			}

			ctx := context.WithValue(r.Context(), callerKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Caller returns the verified claims for the request, or nil when the
// request did not pass through BearerAuth.
func Caller(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(callerKey).(*auth.Claims)
	return claims
}

// CallerID returns the authenticated subject, empty when unauthenticated.
func CallerID(ctx context.Context) string {
	if claims := Caller(ctx); claims != nil {
		return claims.UserID()
	}
	return ""
}
