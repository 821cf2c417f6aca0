package authz

import (
	"itdesk/internal/entities"
)

// Gatekeeper - проверки прав на уровне записей. Ролей в системе нет:
// любой вошедший сотрудник видит всё, а менять может только "свое".
type Gatekeeper struct{}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{}
}

// CanEditTicket: тикет без исполнителя может править кто угодно,
// назначенный - только его исполнитель. Проверяется по сохранённой записи.
func (g *Gatekeeper) CanEditTicket(actorID uint64, ticket *entities.Ticket) bool {
	if ticket == nil || actorID == 0 {
		return false
	}
	if !ticket.AdminID.Valid {
		return true
	}
	return ticket.AdminID.Uint64 == actorID
}

// CanModifyTimeLog: записи табеля меняет только владелец.
func (g *Gatekeeper) CanModifyTimeLog(actorID uint64, log *entities.TimeLog) bool {
	return log != nil && actorID != 0 && log.AdminID == actorID
}
