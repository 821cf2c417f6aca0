package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"itdesk/internal/entities"
	"itdesk/pkg/constants"
	"itdesk/pkg/utils"
)

// CreateTimeLogDTO обслуживает оба режима POST /time-logs:
// действие часов (action) или ручной ввод смены (date + time_in).
type CreateTimeLogDTO struct {
	Action     string       `json:"action"      validate:"omitempty,clock_action"`
	AdminID    null.Uint64  `json:"admin_id"    validate:"omitempty,gt=0"`
	Date       string       `json:"date"        validate:"omitempty,datetime=2006-01-02"`
	TimeIn     null.Time    `json:"time_in"`
	TimeOut    null.Time    `json:"time_out"`
	LunchStart null.Time    `json:"lunch_start"`
	LunchEnd   null.Time    `json:"lunch_end"`
	Mileage    null.Float64 `json:"mileage"     validate:"omitempty,gte=0"`
}

type UpdateTimeLogDTO struct {
	Date       null.String  `json:"date"        validate:"omitempty,datetime=2006-01-02"`
	TimeIn     null.Time    `json:"time_in"`
	TimeOut    null.Time    `json:"time_out"`
	LunchStart null.Time    `json:"lunch_start"`
	LunchEnd   null.Time    `json:"lunch_end"`
	Mileage    null.Float64 `json:"mileage"     validate:"omitempty,gte=0"`

	Sent utils.SentFields `json:"-"`
}

type TimeLogDTO struct {
	ID          uint64               `json:"id"`
	AdminID     uint64               `json:"admin_id"`
	Date        string               `json:"date"`
	TimeIn      time.Time            `json:"time_in"`
	TimeOut     null.Time            `json:"time_out"`
	LunchStart  null.Time            `json:"lunch_start"`
	LunchEnd    null.Time            `json:"lunch_end"`
	Mileage     float64              `json:"mileage"`
	WorkedHours float64              `json:"worked_hours"`
	Admin       *entities.AdminShort `json:"admin,omitempty"`
}

// PayPeriodDayDTO - один календарный день периода; за день может быть несколько смен.
type PayPeriodDayDTO struct {
	Date        string       `json:"date"`
	Logs        []TimeLogDTO `json:"logs"`
	WorkedHours float64      `json:"worked_hours"`
	Mileage     float64      `json:"mileage"`
}

type PayPeriodSummaryDTO struct {
	AdminID      uint64            `json:"admin_id"`
	PeriodStart  string            `json:"period_start"`
	PeriodEnd    string            `json:"period_end"`
	Days         []PayPeriodDayDTO `json:"days"`
	TotalHours   float64           `json:"total_hours"`
	TotalMileage float64           `json:"total_mileage"`
}

func FormatDate(t time.Time) string {
	return t.Format(constants.DateLayout)
}
