package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Client struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	ContactInfo null.String `json:"contact_info"`
	Phone       null.String `json:"phone"`
	Address     null.String `json:"address"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type ClientShort struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}
