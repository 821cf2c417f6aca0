package entities

import (
	"time"

	"github.com/aarondl/null/v8"
)

type Ticket struct {
	ID          uint64       `json:"id"`
	Company     string       `json:"company"`
	Person      string       `json:"person"`
	Location    null.String  `json:"location"`
	Issue       string       `json:"issue"`
	Status      string       `json:"status"`
	AdminID     null.Uint64  `json:"admin_id"`
	AssetID     null.Uint64  `json:"asset_id"`
	StartedTime time.Time    `json:"started_time"`
	TimeEnd     null.Time    `json:"time_end"`
	TotalTime   null.Float64 `json:"total_time"`
	Resolution  null.String  `json:"resolution"`
	Comments    null.String  `json:"comments"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`

	// Связанные данные (не колонки в таблице)
	Admin *AdminShort `json:"admin"`
}

// TicketListFilter - разобранные параметры списка тикетов.
type TicketListFilter struct {
	Search  string
	Status  string
	AdminID null.Uint64
	// Полуинтервал по started_time; пустой, если фильтра по дате нет.
	From null.Time
	To   null.Time

	SortBy  string
	SortAsc bool

	Limit  uint64
	Offset uint64
	// false - выгрузка целиком (экспорт)
	WithPagination bool
}
