package controllers

import (
	"testing"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
)

func TestBuildTimesheetWorkbook(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2025, 3, 2, h, m, 0, 0, time.UTC) }
	summary := &dto.PayPeriodSummaryDTO{
		PeriodStart: "2025-03-01",
		PeriodEnd:   "2025-03-15",
		Days: []dto.PayPeriodDayDTO{
			{Date: "2025-03-01"},
			{Date: "2025-03-02", Logs: []dto.TimeLogDTO{
				{TimeIn: at(8, 0), LunchStart: null.TimeFrom(at(12, 0)), LunchEnd: null.TimeFrom(at(12, 30)),
					TimeOut: null.TimeFrom(at(16, 0)), WorkedHours: 7.5, Mileage: 10},
				{TimeIn: at(18, 0), WorkedHours: 0},
			}},
		},
		TotalHours:   7.5,
		TotalMileage: 10,
	}

	f, err := buildTimesheetWorkbook(summary, "Technician One", time.UTC)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Табель")
	require.NoError(t, err)

	assert.Equal(t, "Табель: Technician One, 2025-03-01 - 2025-03-15", rows[0][0])
	assert.Equal(t, timesheetHeaders, rows[2])
	assert.Equal(t, []string{"2025-03-01", "", "", "", "", "0", "0"}, rows[3])
	assert.Equal(t, []string{"2025-03-02", "08:00", "12:00", "12:30", "16:00", "7.5", "10"}, rows[4])
	assert.Equal(t, []string{"2025-03-02", "18:00", "", "", "", "0", "0"}, rows[5])
	assert.Equal(t, []string{"Итого", "", "", "", "", "7.5", "10"}, rows[7])
}

func TestBuildTimesheetWorkbook_RendersOfficeZone(t *testing.T) {
	office := time.FixedZone("UTC+5", 5*60*60)
	in := time.Date(2025, 3, 2, 3, 0, 0, 0, time.UTC)
	summary := &dto.PayPeriodSummaryDTO{
		PeriodStart: "2025-03-01",
		PeriodEnd:   "2025-03-15",
		Days: []dto.PayPeriodDayDTO{
			{Date: "2025-03-02", Logs: []dto.TimeLogDTO{
				{TimeIn: in, LunchStart: null.TimeFrom(in.Add(4 * time.Hour)), LunchEnd: null.TimeFrom(in.Add(4*time.Hour + 30*time.Minute)),
					TimeOut: null.TimeFrom(in.Add(8 * time.Hour)), WorkedHours: 7.5},
			}},
		},
		TotalHours: 7.5,
	}

	f, err := buildTimesheetWorkbook(summary, "Technician One", office)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Табель")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-03-02", "08:00", "12:00", "12:30", "16:00", "7.5", "0"}, rows[3])
}

func TestTicketToRow_RendersOfficeZone(t *testing.T) {
	office := time.FixedZone("UTC+5", 5*60*60)
	started := time.Date(2025, 3, 10, 22, 15, 0, 0, time.UTC)
	row := ticketToRow(entities.Ticket{
		ID: 4, Company: "Acme", StartedTime: started, TimeEnd: null.TimeFrom(started.Add(time.Hour)),
	}, office)

	assert.Equal(t, "11.03.2025 03:15", row[7])
	assert.Equal(t, "11.03.2025 04:15", row[8])
}
