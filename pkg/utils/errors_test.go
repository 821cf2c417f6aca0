package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "itdesk/pkg/errors"
)

func respond(t *testing.T, err error) (int, HTTPResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, ErrorResponse(echo.New().NewContext(req, rec), err, zap.NewNop()))

	var body HTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Status)
	return rec.Code, body
}

func TestErrorResponse_StatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"http error", apperrors.NewForbiddenError("чужой тикет"), http.StatusForbidden},
		{"обёрнутый not found", fmt.Errorf("repo: %w", apperrors.ErrNotFound), http.StatusNotFound},
		{"неверный вход", apperrors.ErrInvalidCredentials, http.StatusUnauthorized},
		{"нет сессии", apperrors.ErrSessionNotFound, http.StatusUnauthorized},
		{"блокировка", apperrors.ErrAccountLocked, http.StatusTooManyRequests},
		{"конфликт", apperrors.ErrConflict, http.StatusConflict},
		{"некорректный ввод", apperrors.NewInvalidInputError("плохая дата %q", "x"), http.StatusBadRequest},
		{"неизвестная", fmt.Errorf("dial tcp: refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, _ := respond(t, tc.err)
			assert.Equal(t, tc.code, code)
		})
	}
}

func TestErrorResponse_Messages(t *testing.T) {
	_, body := respond(t, apperrors.NewBadRequestError("Поле 'issue' обязательно"))
	assert.Equal(t, "Поле 'issue' обязательно", body.Message)

	// внутренние подробности наружу не уходят
	_, body = respond(t, fmt.Errorf("pq: password authentication failed"))
	assert.Equal(t, internalErrorMessage, body.Message)
}

func TestErrorResponse_ValidationErrors(t *testing.T) {
	type payload struct {
		Company string `validate:"required"`
	}
	err := validator.New().Struct(payload{})
	require.Error(t, err)

	code, body := respond(t, err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body.Message, "Company")
	assert.Contains(t, body.Message, "required")
}
