package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"example.com/golfbuddy/internal/auth"
	"example.com/golfbuddy/internal/logger"
	"github.com/golang-jwt/jwt/v5"
)

var logg = logger.New("middleware")

type contextKey string

const ClaimsCtxKey = contextKey("claims")

const (
	MsgMissingHeader = "Missing Authorization Header"
	MsgBadHeader     = "Bad Authorization header. Expected 'Authorization: Bearer <JWT>'"
	MsgExpired       = "Token has expired"
	MsgBadSignature  = "Signature verification failed"
	MsgRevoked       = "Token has been revoked"
	MsgInvalidToken  = "Invalid token"
)

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"msg": msg})
}

// JWTAuth admits requests carrying a valid bearer token whose id is not on
// the blocklist.
func JWTAuth(tokens *auth.TokenService, blocklist auth.Blocklist) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				unauthorized(w, MsgMissingHeader)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
				unauthorized(w, MsgBadHeader)
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					unauthorized(w, MsgExpired)
				case errors.Is(err, jwt.ErrTokenSignatureInvalid):
					unauthorized(w, MsgBadSignature)
				default:
					unauthorized(w, MsgInvalidToken)
				}
				return
			}

			revoked, err := blocklist.IsRevoked(r.Context(), claims.ID)
			if err != nil {
				logg.Error("Failed to check token blocklist", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode("Internal server error")
				return
			}
			if revoked {
				unauthorized(w, MsgRevoked)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsCtxKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the claims JWTAuth stored for the request.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(ClaimsCtxKey).(*auth.Claims)
	return c, ok
}
