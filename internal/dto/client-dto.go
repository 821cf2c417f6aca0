package dto

import (
	"github.com/aarondl/null/v8"

	"itdesk/pkg/utils"
)

type CreateClientDTO struct {
	Name        string      `json:"name"         validate:"required,max=255"`
	ContactInfo null.String `json:"contact_info"`
	Phone       null.String `json:"phone"        validate:"omitempty,max=50"`
	Address     null.String `json:"address"`
}

type UpdateClientDTO struct {
	Name        null.String `json:"name"         validate:"omitempty,max=255"`
	ContactInfo null.String `json:"contact_info"`
	Phone       null.String `json:"phone"        validate:"omitempty,max=50"`
	Address     null.String `json:"address"`

	Sent utils.SentFields `json:"-"`
}
