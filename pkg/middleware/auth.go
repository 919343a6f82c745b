package middleware

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nutripae-rh/internal/authz"
	apperrors "nutripae-rh/pkg/errors"
	"nutripae-rh/pkg/utils"
)

// Checker decides whether a bearer token may perform perm on method+path.
type Checker interface {
	Check(ctx context.Context, perm authz.Permission, method, path, token string) (*authz.Identity, error)
}

type AuthMiddleware struct {
	checker Checker
	logger  *zap.Logger
}

func NewAuthMiddleware(checker Checker, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		checker: checker,
		logger:  logger,
	}
}

// Require guards a route with a single permission. The identity returned by the auth service
// is stored in the request context for handlers further down.
func (m *AuthMiddleware) Require(perm authz.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				m.logger.Warn("AuthMiddleware: rejected request without usable bearer token",
					zap.String("path", c.Request().URL.Path), zap.Error(err))
				return utils.ErrorResponse(c, err, m.logger)
			}

			req := c.Request()
			identity, err := m.checker.Check(req.Context(), perm, req.Method, req.URL.Path, token)
			if err != nil {
				return utils.ErrorResponse(c, err, m.logger)
			}

			c.SetRequest(req.WithContext(authz.WithIdentity(req.Context(), identity)))

			m.logger.Debug("AuthMiddleware: request authorized",
				zap.String("user_id", identity.UserID),
				zap.String("permission", perm.String()),
				zap.String("path", req.URL.Path),
			)

			return next(c)
		}
	}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", apperrors.ErrEmptyAuthHeader
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", apperrors.ErrInvalidAuthHeader
	}
	return strings.TrimSpace(parts[1]), nil
}
