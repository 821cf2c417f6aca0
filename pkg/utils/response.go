package utils

import (
	"github.com/labstack/echo/v4"

	"itdesk/pkg/types"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body"`
	Message string      `json:"message"`
}

type ListBody struct {
	List     interface{}      `json:"list"`
	Metadata types.Pagination `json:"metadata"`
}

// SuccessResponse отдаёт body как есть, а при переданной пагинации
// заворачивает его в {list, metadata}.
func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, pagination ...types.Pagination) error {
	response := &HTTPResponse{Status: true, Message: message, Body: body}
	if len(pagination) > 0 {
		response.Body = ListBody{List: body, Metadata: pagination[0]}
	}
	return ctx.JSON(code, response)
}
