package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/voyage/server/internal/auth"
	"github.com/voyage/server/internal/repo"
)

// TokenHeader is the fixed header protected requests carry their token in.
const TokenHeader = "x-auth-token"

type contextKey string

const claimsKey contextKey = "claims"

// Authenticate validates the session token on every protected request and
// attaches the principal claims to the context.
//
// Non-admin principals get a best-effort block check: a found-and-blocked
// account is rejected with 403, but a failed lookup lets the request proceed
// on the token's claims alone. That tolerates the window between token
// issuance and account-state changes; a deleted account's token keeps
// working until it expires.
func Authenticate(jwtService *auth.JWTService, clients repo.ClientRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get(TokenHeader))
			if token == "" {
				respondWithError(w, http.StatusUnauthorized, "No token, authorization denied")
				return
			}

			claims, err := jwtService.VerifyToken(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					log.Printf("auth: expired token rejected")
				}
				respondWithError(w, http.StatusUnauthorized, "Token is not valid")
				return
			}

			if !claims.IsAdmin() {
				client, err := clients.GetByID(r.Context(), claims.UserID)
				if err == nil && client.IsBlocked {
					respondWithError(w, http.StatusForbidden, "Access denied. Your account has been blocked.")
					return
				}
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects non-admin principals. Must run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := GetClaims(r.Context())
		if !ok || !claims.IsAdmin() {
			respondWithError(w, http.StatusForbidden, "Access denied.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetClaims returns the principal claims attached by Authenticate.
func GetClaims(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// respondWithError sends a JSON error response.
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"msg": message})
}
