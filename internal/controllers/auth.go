package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"itdesk/internal/dto"
	"itdesk/internal/services"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/service"
	"itdesk/pkg/utils"
)

// SessionCookie - параметры cookie сессии.
type SessionCookie struct {
	Name   string
	Secure bool
}

type AuthController struct {
	authService services.AuthServiceInterface
	sessions    service.SessionService
	cookie      SessionCookie
	logger      *zap.Logger
}

func NewAuthController(
	authService services.AuthServiceInterface,
	sessions service.SessionService,
	cookie SessionCookie,
	logger *zap.Logger,
) *AuthController {
	return &AuthController{
		authService: authService,
		sessions:    sessions,
		cookie:      cookie,
		logger:      logger,
	}
}

func (ctrl *AuthController) errorResponse(c echo.Context, err error) error {
	return utils.ErrorResponse(c, err, ctrl.logger)
}

func (ctrl *AuthController) sessionCookie(value string, maxAge int, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     ctrl.cookie.Name,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   ctrl.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	}
}

func (ctrl *AuthController) Login(c echo.Context) error {
	var payload dto.LoginDTO
	if err := c.Bind(&payload); err != nil {
		ctrl.logger.Error("Login: ошибка привязки данных", zap.Error(err))
		return ctrl.errorResponse(c, apperrors.NewBadRequestError("Неверный формат данных для входа"))
	}
	if err := c.Validate(&payload); err != nil {
		return ctrl.errorResponse(c, err)
	}

	admin, err := ctrl.authService.Login(c.Request().Context(), payload)
	if err != nil {
		return ctrl.errorResponse(c, err)
	}

	token, err := ctrl.sessions.Create(c.Request().Context(), admin.ID)
	if err != nil {
		ctrl.logger.Error("Login: не удалось создать сессию", zap.Uint64("adminID", admin.ID), zap.Error(err))
		return ctrl.errorResponse(c, err)
	}

	ttl := ctrl.sessions.TTL()
	c.SetCookie(ctrl.sessionCookie(token, int(ttl.Seconds()), time.Now().Add(ttl)))
	return utils.SuccessResponse(c, admin.Short(), "Авторизация прошла успешно", http.StatusOK)
}

func (ctrl *AuthController) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(ctrl.cookie.Name); err == nil && cookie.Value != "" {
		if err := ctrl.sessions.Revoke(c.Request().Context(), cookie.Value); err != nil {
			ctrl.logger.Error("Logout: не удалось удалить сессию", zap.Error(err))
		}
	}
	c.SetCookie(ctrl.sessionCookie("", -1, time.Unix(0, 0)))
	return utils.SuccessResponse(c, nil, "Вы успешно вышли из системы.", http.StatusOK)
}

// Me отдаёт текущего сотрудника или null, если сессии нет. 401 здесь не бывает.
func (ctrl *AuthController) Me(c echo.Context) error {
	adminID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.SuccessResponse(c, nil, "Сессия отсутствует", http.StatusOK)
	}
	admin, err := ctrl.authService.GetAdminByID(c.Request().Context(), adminID)
	if err != nil {
		return utils.SuccessResponse(c, nil, "Сессия отсутствует", http.StatusOK)
	}
	return utils.SuccessResponse(c, admin.Short(), "Профиль сотрудника успешно получен", http.StatusOK)
}
