package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/angelmondragon/rentalfleet-backend/api/responses"
	pkgAuth "github.com/angelmondragon/rentalfleet-backend/pkg/auth"
	"github.com/angelmondragon/rentalfleet-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
)

var errNoCredentials = errors.New("missing credentials")

// Auth requires a valid access token and puts the caller's user and tenant on
// the request context. Failures answer 401 with a WWW-Authenticate challenge.
func Auth(cfg config.JWTConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			claims, err := authenticate(cfg, r.Header.Get("Authorization"))
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="rentalfleet"`)
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, rejection(err)))
				return
			}

			userID, tenantID := claims.UserID.String(), claims.TenantID.String()
			ctx = WithTenantID(WithUserID(ctx, userID), tenantID)
			if logg != nil {
				ctx = logg.WithActor(ctx, userID, tenantID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(cfg config.JWTConfig, header string) (*pkgAuth.AccessTokenClaims, error) {
	token := strings.TrimSpace(header)
	if strings.EqualFold(token, "bearer") {
		return nil, errNoCredentials
	}
	if scheme, rest, ok := strings.Cut(token, " "); ok && strings.EqualFold(scheme, "bearer") {
		token = strings.TrimSpace(rest)
	}
	if token == "" {
		return nil, errNoCredentials
	}
	return pkgAuth.ParseAccessToken(cfg, token)
}

func rejection(err error) string {
	switch {
	case errors.Is(err, errNoCredentials):
		return "missing credentials"
	case errors.Is(err, pkgAuth.ErrTokenExpired):
		return "token expired"
	case errors.Is(err, pkgAuth.ErrMissingTenant):
		return "token is not scoped to a tenant"
	default:
		return "invalid token"
	}
}
