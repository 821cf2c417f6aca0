package dto

import (
	"time"

	"github.com/aarondl/null/v8"

	"itdesk/pkg/utils"
)

// Статус при создании не принимается: он выводится из admin_id.
type CreateTicketDTO struct {
	Company     string      `json:"company"      validate:"required,max=255"`
	Person      string      `json:"person"       validate:"required,max=255"`
	Location    null.String `json:"location"     validate:"omitempty,max=255"`
	Issue       string      `json:"issue"        validate:"required"`
	AdminID     null.Uint64 `json:"admin_id"     validate:"omitempty,gt=0"`
	AssetID     null.Uint64 `json:"asset_id"     validate:"omitempty,gt=0"`
	StartedTime time.Time   `json:"started_time" validate:"required"`
	TimeEnd     null.Time   `json:"time_end"`
	Resolution  null.String `json:"resolution"`
	Comments    null.String `json:"comments"`
}

// UpdateTicketDTO - частичное обновление. Для каждого поля различаем
// "не прислано" (нет в Sent) и "прислано как null" (есть в Sent, Valid=false).
type UpdateTicketDTO struct {
	Company     null.String `json:"company"      validate:"omitempty,max=255"`
	Person      null.String `json:"person"       validate:"omitempty,max=255"`
	Location    null.String `json:"location"     validate:"omitempty,max=255"`
	Issue       null.String `json:"issue"`
	Status      null.String `json:"status"       validate:"omitempty,ticket_status"`
	AdminID     null.Uint64 `json:"admin_id"     validate:"omitempty,gt=0"`
	AssetID     null.Uint64 `json:"asset_id"     validate:"omitempty,gt=0"`
	StartedTime null.Time   `json:"started_time"`
	TimeEnd     null.Time   `json:"time_end"`
	Resolution  null.String `json:"resolution"`
	Comments    null.String `json:"comments"`

	Sent utils.SentFields `json:"-"`
}
