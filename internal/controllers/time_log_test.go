package controllers

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
)

func newTimeLogCtrl() (*TimeLogController, *mockTimeLogService, *mockAuthService) {
	logs := new(mockTimeLogService)
	auth := new(mockAuthService)
	return NewTimeLogController(logs, auth, zap.NewNop()), logs, auth
}

func TestTimeLogController_ClockActions(t *testing.T) {
	cases := []struct {
		action string
		code   int
	}{
		{constants.ClockActionIn, http.StatusCreated},
		{constants.ClockActionLunchStart, http.StatusOK},
		{constants.ClockActionLunchEnd, http.StatusOK},
		{constants.ClockActionOut, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.action, func(t *testing.T) {
			ctrl, logs, _ := newTimeLogCtrl()
			logs.On("RecordAction", mock.Anything, tc.action).Return(&dto.TimeLogDTO{ID: 1}, nil)

			c, rec := newTestContext(http.MethodPost, "/api/time-logs", strings.NewReader(`{"action":"`+tc.action+`"}`))
			require.NoError(t, ctrl.CreateTimeLog(c))

			assert.Equal(t, tc.code, rec.Code)
			logs.AssertNotCalled(t, "CreateTimeLog", mock.Anything, mock.Anything)
		})
	}
}

func TestTimeLogController_ClockAction_Errors(t *testing.T) {
	ctrl, logs, _ := newTimeLogCtrl()

	c, rec := newTestContext(http.MethodPost, "/api/time-logs", strings.NewReader(`{"action":"nap"}`))
	require.NoError(t, ctrl.CreateTimeLog(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	logs.On("RecordAction", mock.Anything, constants.ClockActionIn).
		Return(nil, apperrors.NewConflictError("Смена уже открыта", nil))
	c, rec = newTestContext(http.MethodPost, "/api/time-logs", strings.NewReader(`{"action":"clock-in"}`))
	require.NoError(t, ctrl.CreateTimeLog(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTimeLogController_ManualEntry(t *testing.T) {
	ctrl, logs, _ := newTimeLogCtrl()
	logs.On("CreateTimeLog", mock.Anything, mock.MatchedBy(func(p dto.CreateTimeLogDTO) bool {
		return p.Date == "2025-03-10" && p.TimeIn.Valid && p.Mileage.Float64 == 12.5
	})).Return(&dto.TimeLogDTO{ID: 3}, nil)

	c, rec := newTestContext(http.MethodPost, "/api/time-logs", strings.NewReader(
		`{"date":"2025-03-10","time_in":"2025-03-10T08:00:00Z","mileage":12.5}`))
	require.NoError(t, ctrl.CreateTimeLog(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	logs.AssertExpectations(t)
}

func TestTimeLogController_GetTimeLogs(t *testing.T) {
	ctrl, logs, _ := newTimeLogCtrl()
	logs.On("GetTimeLogs", mock.Anything, entities.TimeLogFilter{
		AdminID: null.Uint64From(2),
		From:    null.TimeFrom(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)),
		To:      null.TimeFrom(time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)),
	}).Return([]dto.TimeLogDTO{}, nil)

	c, rec := newTestContext(http.MethodGet, "/api/time-logs?technicianId=2&from=2025-03-01&to=2025-03-15", nil)
	require.NoError(t, ctrl.GetTimeLogs(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	logs.AssertExpectations(t)

	c, rec = newTestContext(http.MethodGet, "/api/time-logs?from=2025-03-15&to=2025-03-01", nil)
	require.NoError(t, ctrl.GetTimeLogs(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimeLogController_ExportSummary(t *testing.T) {
	ctrl, logs, auth := newTimeLogCtrl()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	logs.On("GetPayPeriodSummary", mock.Anything, uint64(0), date).Return(&dto.PayPeriodSummaryDTO{
		AdminID: 1, PeriodStart: "2025-03-01", PeriodEnd: "2025-03-15",
		Days: []dto.PayPeriodDayDTO{{Date: "2025-03-01"}},
	}, nil)
	auth.On("GetAdminByID", mock.Anything, uint64(1)).Return(&entities.Admin{ID: 1, Username: "tech1", Name: "Technician One"}, nil)

	c, rec := newTestContext(http.MethodGet, "/api/time-logs/export?date=2025-03-10", nil)
	require.NoError(t, ctrl.ExportSummary(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "timesheet_tech1_2025-03-01_2025-03-15.xlsx")
	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	title, err := f.GetCellValue("Табель", "A1")
	require.NoError(t, err)
	assert.Contains(t, title, "Technician One")
}
