package dto

import (
	"github.com/aarondl/null/v8"

	"itdesk/pkg/utils"
)

type CreateAssetDTO struct {
	SerialNumber string      `json:"serial_number" validate:"required,max=255"`
	Name         string      `json:"name"          validate:"required,max=255"`
	Type         string      `json:"type"          validate:"required,asset_type"`
	Description  null.String `json:"description"`
	Status       string      `json:"status"        validate:"omitempty,asset_status"`
	PurchaseDate null.Time   `json:"purchase_date"`
	ClientID     null.Uint64 `json:"client_id"     validate:"omitempty,gt=0"`
}

type UpdateAssetDTO struct {
	SerialNumber null.String `json:"serial_number" validate:"omitempty,max=255"`
	Name         null.String `json:"name"          validate:"omitempty,max=255"`
	Type         null.String `json:"type"          validate:"omitempty,asset_type"`
	Description  null.String `json:"description"`
	Status       null.String `json:"status"        validate:"omitempty,asset_status"`
	PurchaseDate null.Time   `json:"purchase_date"`
	ClientID     null.Uint64 `json:"client_id"     validate:"omitempty,gt=0"`

	Sent utils.SentFields `json:"-"`
}

type AssetImportResultDTO struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}
