package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Asset struct {
	ID           uint64      `json:"id"`
	SerialNumber string      `json:"serial_number"`
	Name         string      `json:"name"`
	Type         string      `json:"type"`
	Description  null.String `json:"description"`
	Status       string      `json:"status"`
	PurchaseDate null.Time   `json:"purchase_date"`
	ClientID     null.Uint64 `json:"client_id"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`

	// Поля для связанных данных (не колонки в таблице)
	Client  *ClientShort `json:"client"`
	Tickets []Ticket     `json:"tickets,omitempty"`
}
