package controllers

import (
	"fmt"
	"net/http"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/internal/services"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/utils"
)

type TimeLogController struct {
	timeLogService services.TimeLogServiceInterface
	authService    services.AuthServiceInterface
	logger         *zap.Logger
}

func NewTimeLogController(
	timeLogService services.TimeLogServiceInterface,
	authService services.AuthServiceInterface,
	logger *zap.Logger,
) *TimeLogController {
	return &TimeLogController{
		timeLogService: timeLogService,
		authService:    authService,
		logger:         logger,
	}
}

// GetTimeLogs: adminId (или technicianId), from и to (включительно, ГГГГ-ММ-ДД).
func (c *TimeLogController) GetTimeLogs(ctx echo.Context) error {
	loc := c.timeLogService.Location()
	var filter entities.TimeLogFilter

	adminID, err := parseOptionalID(ctx, "adminId", "technicianId")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if adminID > 0 {
		filter.AdminID = null.Uint64From(adminID)
	}

	from, ok, err := parseOptionalDate(ctx, "from", loc)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if ok {
		filter.From = null.TimeFrom(from)
	}
	to, ok, err := parseOptionalDate(ctx, "to", loc)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if ok {
		filter.To = null.TimeFrom(to)
	}
	if filter.From.Valid && filter.To.Valid && filter.To.Time.Before(filter.From.Time) {
		return utils.ErrorResponse(ctx, apperrors.NewBadRequestError("Параметр to раньше параметра from"), c.logger)
	}

	res, err := c.timeLogService.GetTimeLogs(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetTimeLogs: ошибка при получении табеля", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Табель успешно получен", http.StatusOK)
}

// CreateTimeLog: с полем action это отметка часов, без него ручной ввод смены.
func (c *TimeLogController) CreateTimeLog(ctx echo.Context) error {
	var payload dto.CreateTimeLogDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateTimeLog: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	reqCtx := ctx.Request().Context()
	if payload.Action != "" {
		res, err := c.timeLogService.RecordAction(reqCtx, payload.Action)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		code := http.StatusOK
		if payload.Action == constants.ClockActionIn {
			code = http.StatusCreated
		}
		return utils.SuccessResponse(ctx, res, "Отметка сохранена", code)
	}

	res, err := c.timeLogService.CreateTimeLog(reqCtx, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Смена успешно добавлена", http.StatusCreated)
}

func (c *TimeLogController) UpdateTimeLog(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateTimeLogDTO
	sent, err := utils.BindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	payload.Sent = sent
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.timeLogService.UpdateTimeLog(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Смена успешно обновлена", http.StatusOK)
}

func (c *TimeLogController) DeleteTimeLog(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	if err := c.timeLogService.DeleteTimeLog(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Смена успешно удалена", http.StatusOK)
}

func (c *TimeLogController) summary(ctx echo.Context) (*dto.PayPeriodSummaryDTO, error) {
	adminID, err := parseOptionalID(ctx, "adminId", "technicianId")
	if err != nil {
		return nil, err
	}
	date, _, err := parseOptionalDate(ctx, "date", c.timeLogService.Location())
	if err != nil {
		return nil, err
	}
	return c.timeLogService.GetPayPeriodSummary(ctx.Request().Context(), adminID, date)
}

// GetSummary - табель за расчётный период (1-15 или 16-конец месяца), в который попадает date.
func (c *TimeLogController) GetSummary(ctx echo.Context) error {
	res, err := c.summary(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Табель за период успешно получен", http.StatusOK)
}

func (c *TimeLogController) ExportSummary(ctx echo.Context) error {
	res, err := c.summary(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	admin, err := c.authService.GetAdminByID(ctx.Request().Context(), res.AdminID)
	if err != nil {
		return utils.ErrorResponse(ctx, apperrors.NewNotFoundError("Сотрудник не найден"), c.logger)
	}

	f, err := buildTimesheetWorkbook(res, admin.Name, c.timeLogService.Location())
	if err != nil {
		c.logger.Error("ExportSummary: не удалось сформировать файл", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	fileName := fmt.Sprintf("timesheet_%s_%s_%s.xlsx", admin.Username, res.PeriodStart, res.PeriodEnd)
	return respondWithXLSX(ctx, f, fileName)
}
