package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/glowcart/api/internal/platform/httpx"
)

// Authenticator wires bearer-token verification into HTTP middleware.
type Authenticator struct {
	verifier TokenVerifier
}

// NewAuthenticator constructs an Authenticator for middleware composition.
func NewAuthenticator(verifier TokenVerifier) *Authenticator {
	return &Authenticator{verifier: verifier}
}

// RequireAuth enforces a valid bearer token and stores the identity in context.
func (a *Authenticator) RequireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := a.authenticate(r)
			if err != nil {
				writeAuthError(w, r, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RequireRole enforces a valid bearer token carrying at least one of the roles.
func (a *Authenticator) RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := a.authenticate(r)
			if err != nil {
				writeAuthError(w, r, err)
				return
			}
			if !identity.HasAnyRole(roles...) {
				httpx.WriteError(r.Context(), w, httpx.NewError("forbidden", "insufficient role", http.StatusForbidden))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

func (a *Authenticator) authenticate(r *http.Request) (*Identity, error) {
	if a == nil || a.verifier == nil {
		return nil, ErrTokenInvalid
	}
	token, err := bearerToken(r)
	if err != nil {
		return nil, err
	}
	return a.verifier.VerifyToken(r.Context(), token)
}

func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", errors.New("auth: authorization header required")
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", errors.New("auth: authorization header must use the Bearer scheme")
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", errors.New("auth: bearer token is empty")
	}
	return token, nil
}

func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	message := "authentication required"
	if errors.Is(err, ErrTokenExpired) {
		message = "token expired"
	}
	httpx.WriteError(r.Context(), w, httpx.NewError("unauthenticated", message, http.StatusUnauthorized))
}
