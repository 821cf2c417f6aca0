package services

import (
	"strings"
	"time"

	"github.com/aarondl/null/v8"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/utils"
)

// TicketTotalTime - длительность работы по тикету в часах с точностью до сотых.
func TicketTotalTime(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, apperrors.NewBadRequestError("Время окончания не может быть раньше времени начала")
	}
	return utils.HoursBetween(start, end), nil
}

// InitialTicketStatus: при создании статус выводится только из наличия исполнителя.
func InitialTicketStatus(adminID null.Uint64) string {
	if adminID.Valid {
		return constants.TicketStatusAssigned
	}
	return constants.TicketStatusUnassigned
}

// ResolveTicketStatus приводит статус в соответствие с исполнителем.
// current - сохранённый статус, submitted - присланный (если был), admin - итоговый исполнитель.
func ResolveTicketStatus(current string, submitted null.String, admin null.Uint64) (string, error) {
	status := current
	if submitted.Valid {
		status = submitted.String
	}

	if admin.Valid {
		if status != constants.TicketStatusUnassigned {
			return status, nil
		}
		if submitted.Valid {
			return "", apperrors.NewBadRequestError("Тикет с исполнителем не может быть в статусе Unassigned")
		}
		return constants.TicketStatusAssigned, nil
	}

	switch status {
	case constants.TicketStatusAssigned, constants.TicketStatusUnassigned:
		return constants.TicketStatusUnassigned, nil
	default:
		return "", apperrors.NewBadRequestError("Для статуса \"" + status + "\" нужен исполнитель")
	}
}

func requiredText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", apperrors.NewBadRequestError("Поле " + field + " не может быть пустым")
	}
	return value, nil
}

// applyTicketPatch переносит присланные поля на копию сохранённого тикета
// и пересчитывает производные поля (статус, total_time).
func applyTicketPatch(stored entities.Ticket, p dto.UpdateTicketDTO) (entities.Ticket, error) {
	t := stored
	var err error

	if p.Sent.Has("company") {
		if t.Company, err = requiredText("company", p.Company.String); err != nil {
			return t, err
		}
	}
	if p.Sent.Has("person") {
		if t.Person, err = requiredText("person", p.Person.String); err != nil {
			return t, err
		}
	}
	if p.Sent.Has("issue") {
		if t.Issue, err = requiredText("issue", p.Issue.String); err != nil {
			return t, err
		}
	}
	if p.Sent.Has("location") {
		t.Location = p.Location
	}
	if p.Sent.Has("resolution") {
		t.Resolution = p.Resolution
	}
	if p.Sent.Has("comments") {
		t.Comments = p.Comments
	}
	if p.Sent.Has("asset_id") {
		t.AssetID = p.AssetID
	}
	if p.Sent.Has("admin_id") {
		t.AdminID = p.AdminID
	}
	if p.Sent.Has("started_time") {
		if !p.StartedTime.Valid {
			return t, apperrors.NewBadRequestError("Поле started_time не может быть пустым")
		}
		t.StartedTime = p.StartedTime.Time
	}
	if p.Sent.Has("time_end") {
		t.TimeEnd = p.TimeEnd
	}

	submitted := null.String{}
	if p.Sent.Has("status") {
		if !p.Status.Valid {
			return t, apperrors.NewBadRequestError("Поле status не может быть пустым")
		}
		submitted = p.Status
	}
	if t.Status, err = ResolveTicketStatus(stored.Status, submitted, t.AdminID); err != nil {
		return t, err
	}

	if err := refreshTotalTime(&t); err != nil {
		return t, err
	}
	return t, nil
}

func refreshTotalTime(t *entities.Ticket) error {
	if !t.TimeEnd.Valid {
		t.TotalTime = null.Float64{}
		return nil
	}
	total, err := TicketTotalTime(t.StartedTime, t.TimeEnd.Time)
	if err != nil {
		return err
	}
	t.TotalTime = null.Float64From(total)
	return nil
}
