package middleware

import (
	"log/slog"
	"strings"

	delivctx "lookmarket/internal/delivery/context"
	"lookmarket/internal/domain/entity"
	domainerrors "lookmarket/internal/domain/errors"
	"lookmarket/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware is the request gate. Authenticate never rejects a request
// by itself: a missing, malformed, expired or wrongly-typed bearer token
// simply leaves the request unauthenticated, and the Require* guards on the
// protected routes decide whether that matters.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, logger: logger}
}

// Authenticate resolves the bearer token into a Principal on the request
// context when, and only when, a valid access token is presented.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return next(c)
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return next(c)
		}

		if !m.tokenSvc.Validate(tokenString) {
			// The token service already logged the rejection reason.
			return next(c)
		}

		claims, err := m.tokenSvc.Claims(tokenString)
		if err != nil {
			m.logger.Warn("failed to read claims from validated token", slog.Any("error", err))

			return next(c)
		}

		if claims.Type != service.TokenTypeAccess {
			// Refresh tokens only buy new tokens, never resource access.
			m.logger.Warn("non-access token presented as bearer credential",
				slog.String("token_type", claims.Type),
			)

			return next(c)
		}

		principal := &delivctx.Principal{
			AccountID: claims.AccountID,
			Email:     claims.Email,
			Role:      claims.Role,
			Authority: entity.Role(claims.Role).Authority(),
		}

		c.Set(string(delivctx.KeyPrincipal), principal)
		c.SetRequest(c.Request().WithContext(
			delivctx.WithPrincipal(c.Request().Context(), principal),
		))

		return next(c)
	}
}

// RequireAuthenticated rejects requests that carry no authenticated principal.
func (m *AuthMiddleware) RequireAuthenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if _, ok := delivctx.GetPrincipal(c.Request().Context()); !ok {
			return domainerrors.ErrUnauthorized
		}

		return next(c)
	}
}

// RequireAuthority is a middleware factory gating a route on a granted
// authority such as "ROLE_ADMIN". It must run after Authenticate.
func (m *AuthMiddleware) RequireAuthority(authority string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := delivctx.GetPrincipal(c.Request().Context())
			if !ok {
				return domainerrors.ErrUnauthorized
			}

			if principal.Authority != authority {
				return domainerrors.ErrForbidden
			}

			return next(c)
		}
	}
}
