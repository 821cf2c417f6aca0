package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type TimeLog struct {
	ID         uint64    `json:"id"`
	AdminID    uint64    `json:"admin_id"`
	Date       time.Time `json:"date"`
	TimeIn     time.Time `json:"time_in"`
	TimeOut    null.Time `json:"time_out"`
	LunchStart null.Time `json:"lunch_start"`
	LunchEnd   null.Time `json:"lunch_end"`
	Mileage    float64   `json:"mileage"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Admin *AdminShort `json:"admin,omitempty"`
}

type TimeLogFilter struct {
	AdminID null.Uint64
	// Включительные границы по дате.
	From null.Time
	To   null.Time
}
