package entities

import "time"

type Admin struct {
	ID        uint64    `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdminShort - то, что видно о сотруднике в чужих списках.
type AdminShort struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

func (a Admin) Short() AdminShort {
	return AdminShort{ID: a.ID, Name: a.Name, Username: a.Username}
}
