package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"

	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func parseIDParam(ctx echo.Context, name string) (uint64, error) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewHttpError(
			http.StatusBadRequest,
			"Неверный формат ID",
			err,
			map[string]interface{}{"param": raw},
		)
	}
	return id, nil
}

// parseOptionalID разбирает необязательный числовой query-параметр; 0 - параметра нет.
func parseOptionalID(ctx echo.Context, names ...string) (uint64, error) {
	for _, name := range names {
		raw := ctx.QueryParam(name)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return 0, apperrors.NewBadRequestError("Неверное значение параметра " + name)
		}
		return id, nil
	}
	return 0, nil
}

// parseOptionalDate разбирает дату ГГГГ-ММ-ДД в заданном часовом поясе.
func parseOptionalDate(ctx echo.Context, name string, loc *time.Location) (time.Time, bool, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return time.Time{}, false, nil
	}
	t, err := time.ParseInLocation(constants.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, false, apperrors.NewBadRequestError("Параметр " + name + " должен быть в формате ГГГГ-ММ-ДД")
	}
	return t, true, nil
}

func respondWithXLSX(ctx echo.Context, f *excelize.File, fileName string) error {
	defer f.Close()
	ctx.Response().Header().Set(echo.HeaderContentType, xlsxContentType)
	ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
