package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-todo-service/internal/model"
)

type tokenVerifier interface {
	Verify(token string) (model.Identity, error)
}

type contextKey string

const identityContextKey contextKey = "identity"

type AuthMiddleware struct {
	verifier tokenVerifier
}

func NewAuthMiddleware(verifier tokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth authenticates the bearer token and stores the resulting
// identity in the request context. Every failure answers 401 with a Bearer
// challenge.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeChallenge(w, "Not authenticated")
			return
		}

		token := strings.TrimSpace(header[len("bearer "):])
		identity, err := m.verifier.Verify(token)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrTokenExpired):
				writeChallenge(w, "Token has expired")
			case errors.Is(err, model.ErrTokenInvalid):
				writeChallenge(w, "Invalid token")
			default:
				writeChallenge(w, "Could not validate credentials: "+err.Error())
			}
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole gates a route behind a minimum role. The gate compares
// privilege levels only and never reveals which role would have sufficed.
// Must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(required model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeChallenge(w, "Not authenticated")
				return
			}

			role, err := model.ResolveRole(identity.Role)
			if err != nil {
				// Can only happen on a misconfigured credential seed; the
				// caller still just sees a denial.
				slog.Error("authenticated identity carries unknown role",
					"username", identity.Username, "role", identity.Role)
				writeForbidden(w)
				return
			}

			if !role.Satisfies(required) {
				writeForbidden(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}

func writeChallenge(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: &model.APIError{Code: "UNAUTHORIZED", Message: message},
	})
}

func writeForbidden(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{
		Error: &model.APIError{Code: "FORBIDDEN", Message: "Not authorized!"},
	})
}
