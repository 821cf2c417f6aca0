package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/internal/repositories"
	"itdesk/internal/services"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/types"
	"itdesk/pkg/utils"
)

type TicketController struct {
	ticketService services.TicketServiceInterface
	loc           *time.Location
	logger        *zap.Logger
	now           func() time.Time
}

func NewTicketController(ticketService services.TicketServiceInterface, loc *time.Location, logger *zap.Logger) *TicketController {
	if loc == nil {
		loc = time.Local
	}
	return &TicketController{
		ticketService: ticketService,
		loc:           loc,
		logger:        logger,
		now:           time.Now,
	}
}

// parseTicketFilter разбирает page, limit, search, status, adminId, date, sortBy и sort.
func (c *TicketController) parseTicketFilter(ctx echo.Context) (entities.TicketListFilter, utils.PageRequest, error) {
	query := ctx.Request().URL.Query()
	page := utils.ParsePageRequest(query)

	filter := entities.TicketListFilter{
		Search:         strings.TrimSpace(query.Get("search")),
		SortBy:         repositories.DefaultTicketSort,
		Limit:          page.Limit,
		Offset:         page.Offset(),
		WithPagination: true,
	}

	if status := query.Get("status"); status != "" && status != constants.TicketStatusAll {
		if !constants.IsTicketStatus(status) {
			return filter, page, apperrors.NewBadRequestError("Неизвестный статус: " + status)
		}
		filter.Status = status
	}

	adminID, err := parseOptionalID(ctx, "adminId")
	if err != nil {
		return filter, page, err
	}
	if adminID > 0 {
		filter.AdminID = null.Uint64From(adminID)
	}

	switch date := query.Get("date"); date {
	case "":
	case "today":
		from, to := utils.DayWindow(c.now(), c.loc)
		filter.From, filter.To = null.TimeFrom(from), null.TimeFrom(to)
	default:
		day, _, err := parseOptionalDate(ctx, "date", c.loc)
		if err != nil {
			return filter, page, err
		}
		from, to := utils.DayWindow(day, c.loc)
		filter.From, filter.To = null.TimeFrom(from), null.TimeFrom(to)
	}

	if sortBy := query.Get("sortBy"); sortBy != "" {
		filter.SortBy = sortBy
	}
	switch strings.ToLower(query.Get("sort")) {
	case "", "desc":
	case "asc":
		filter.SortAsc = true
	default:
		return filter, page, apperrors.NewBadRequestError("Параметр sort должен быть asc или desc")
	}

	return filter, page, nil
}

func (c *TicketController) GetTickets(ctx echo.Context) error {
	filter, page, err := c.parseTicketFilter(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	exportXLSX := strings.ToLower(ctx.QueryParam("format")) == "xlsx"
	if exportXLSX {
		filter.WithPagination = false
	}

	tickets, total, err := c.ticketService.GetTickets(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetTickets: ошибка при получении списка тикетов", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if exportXLSX {
		f, err := buildTicketsWorkbook(tickets, c.loc)
		if err != nil {
			return utils.ErrorResponse(ctx, err, c.logger)
		}
		return respondWithXLSX(ctx, f, fmt.Sprintf("tickets_%s.xlsx", c.now().In(c.loc).Format(constants.DateLayout)))
	}

	return utils.SuccessResponse(ctx, tickets, "Список тикетов успешно получен", http.StatusOK,
		types.NewPagination(total, int(page.Page), int(page.Limit)))
}

func (c *TicketController) FindTicket(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.ticketService.FindTicket(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Тикет успешно найден", http.StatusOK)
}

func (c *TicketController) CreateTicket(ctx echo.Context) error {
	var payload dto.CreateTicketDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateTicket: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(
			ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger,
		)
	}
	if err := ctx.Validate(&payload); err != nil {
		c.logger.Warn("CreateTicket: ошибка валидации данных", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.ticketService.CreateTicket(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Тикет успешно создан", http.StatusCreated)
}

func (c *TicketController) UpdateTicket(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.UpdateTicketDTO
	sent, err := utils.BindPatch(ctx, &payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	payload.Sent = sent

	if err := ctx.Validate(&payload); err != nil {
		c.logger.Warn("UpdateTicket: ошибка валидации данных", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.ticketService.UpdateTicket(ctx.Request().Context(), id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, res, "Тикет успешно обновлён", http.StatusOK)
}

func (c *TicketController) DeleteTicket(ctx echo.Context) error {
	id, err := parseIDParam(ctx, "id")
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.ticketService.DeleteTicket(ctx.Request().Context(), id); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Тикет успешно удалён", http.StatusOK)
}
