// Файл: utils/patcher.go
package utils

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/labstack/echo/v4"

	apperrors "itdesk/pkg/errors"
)

// SentFields - множество JSON-ключей, реально присланных клиентом.
// Позволяет отличить "поле не прислано" от "поле прислано как null".
type SentFields map[string]bool

func (s SentFields) Has(field string) bool { return s[field] }

func ParseSentFields(rawRequestBody []byte) (SentFields, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(rawRequestBody, &raw); err != nil {
		return nil, err
	}
	sent := make(SentFields, len(raw))
	for k := range raw {
		sent[k] = true
	}
	return sent, nil
}

// BindPatch читает тело запроса в dst и возвращает набор присланных полей.
func BindPatch(c echo.Context, dst interface{}) (SentFields, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Не удалось прочитать тело запроса")
	}
	sent, err := ParseSentFields(body)
	if err != nil {
		return nil, apperrors.NewBadRequestError("Неверный формат данных")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return nil, apperrors.NewBadRequestError(fmt.Sprintf("Неверный формат данных: %v", err))
	}
	return sent, nil
}
