package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"itdesk/internal/services"
	"itdesk/pkg/utils"
)

type AdminController struct {
	adminService services.AdminServiceInterface
	logger       *zap.Logger
}

func NewAdminController(adminService services.AdminServiceInterface, logger *zap.Logger) *AdminController {
	return &AdminController{adminService: adminService, logger: logger}
}

func (c *AdminController) GetAdmins(ctx echo.Context) error {
	res, err := c.adminService.GetAdmins(ctx.Request().Context())
	if err != nil {
		c.logger.Error("GetAdmins: ошибка при получении списка сотрудников", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Список сотрудников успешно получен", http.StatusOK)
}
