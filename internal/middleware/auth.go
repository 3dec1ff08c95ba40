// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/carterperez-dev/eatme/internal/config"
	"github.com/carterperez-dev/eatme/internal/core"
)

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

type AuthMethod string

const (
	MethodToken   AuthMethod = "token"
	MethodBasic   AuthMethod = "basic"
	MethodSession AuthMethod = "session"
)

// Identity is the authenticated caller. Credential holds the raw token or
// session id it was resolved from, empty for Basic auth.
type Identity struct {
	UserID     int64
	Email      string
	Roles      []string
	Method     AuthMethod
	Credential string
}

func (i *Identity) HasRole(role string) bool {
	return i != nil && slices.Contains(i.Roles, role)
}

func (i *Identity) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if i.HasRole(role) {
			return true
		}
	}
	return false
}

// CanAccess reports whether the caller owns userID's resources or holds
// one of the overriding roles.
func (i *Identity) CanAccess(userID int64, overriding ...string) bool {
	if i == nil {
		return false
	}
	return i.UserID == userID || i.HasAnyRole(overriding...)
}

type IdentityResolver interface {
	ResolveToken(ctx context.Context, token string) (*Identity, error)
	ResolveBasic(ctx context.Context, email, password string) (*Identity, error)
	ResolveSession(ctx context.Context, sessionID string) (*Identity, error)
}

// Authenticator resolves the caller from, in order, a bearer token, HTTP
// Basic credentials or the session cookie. The first credential present
// decides the outcome; a rejected credential never falls through.
func Authenticator(
	resolver IdentityResolver,
	cfg config.AuthConfig,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := resolve(r, resolver, cfg)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func resolve(
	r *http.Request,
	resolver IdentityResolver,
	cfg config.AuthConfig,
) (*Identity, error) {
	ctx := r.Context()

	if token := ExtractToken(r, cfg); token != "" {
		return resolver.ResolveToken(ctx, token)
	}

	if email, password, ok := r.BasicAuth(); ok {
		return resolver.ResolveBasic(ctx, email, password)
	}

	if cfg.SessionCookie != "" {
		if cookie, err := r.Cookie(cfg.SessionCookie); err == nil &&
			cookie.Value != "" {
			return resolver.ResolveSession(ctx, cookie.Value)
		}
	}

	return nil, core.UnauthorizedError("")
}

// ExtractToken reads the token header, where a "Bearer " prefix is
// optional, and then the token query parameter.
func ExtractToken(r *http.Request, cfg config.AuthConfig) string {
	header := cfg.TokenHeader
	if header == "" {
		header = "Authorization"
	}

	if value := strings.TrimSpace(r.Header.Get(header)); value != "" {
		scheme, rest, found := strings.Cut(value, " ")
		switch {
		case !found:
			return value
		case strings.EqualFold(scheme, "bearer"):
			return strings.TrimSpace(rest)
		}
	}

	if cfg.TokenQueryKey != "" {
		return r.URL.Query().Get(cfg.TokenQueryKey)
	}
	return ""
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if identity == nil {
				core.JSONError(w, core.UnauthorizedError(""))
				return
			}

			if !identity.HasAnyRole(roles...) {
				core.JSONError(w, core.ForbiddenError("insufficient permissions"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(RoleAdmin)(next)
}

func handleAuthError(w http.ResponseWriter, err error) {
	if core.IsAppError(err) {
		core.JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	case errors.Is(err, core.ErrTokenRevoked):
		core.JSONError(w, core.TokenRevokedError())
	case errors.Is(err, core.ErrTokenInvalid):
		core.JSONError(w, core.TokenInvalidError())
	case errors.Is(err, core.ErrUnauthorized):
		core.JSONError(w, core.UnauthorizedError(""))
	default:
		core.JSONError(w, err)
	}
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

// WithIdentity is used by callers that authenticate outside Authenticator.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}
