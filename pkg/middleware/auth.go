package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"itdesk/pkg/contextkeys"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/service"
	"itdesk/pkg/utils"
)

type AuthMiddleware struct {
	sessions   service.SessionService
	cookieName string
	logger     *zap.Logger
}

func NewAuthMiddleware(sessions service.SessionService, cookieName string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions:   sessions,
		cookieName: cookieName,
		logger:     logger,
	}
}

func (m *AuthMiddleware) resolve(c echo.Context) (*service.SessionClaims, error) {
	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, apperrors.ErrUnauthorized
	}
	return m.sessions.Resolve(c.Request().Context(), cookie.Value)
}

func (m *AuthMiddleware) attach(c echo.Context, claims *service.SessionClaims) {
	ctx := context.WithValue(c.Request().Context(), contextkeys.UserIDKey, claims.AdminID)
	ctx = context.WithValue(ctx, contextkeys.SessionIDKey, claims.ID)
	c.SetRequest(c.Request().WithContext(ctx))
}

// Auth пропускает запрос только с действующей сессией, иначе 401.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := m.resolve(c)
		if err != nil {
			m.logger.Debug("AuthMiddleware: сессия не подтверждена", zap.String("uri", c.Request().RequestURI), zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		m.attach(c, claims)
		return next(c)
	}
}

// Identify кладёт пользователя в контекст, если сессия есть, и никогда не отказывает.
func (m *AuthMiddleware) Identify(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if claims, err := m.resolve(c); err == nil {
			m.attach(c, claims)
		}
		return next(c)
	}
}
