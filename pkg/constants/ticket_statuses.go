package constants

// --- СТАТУСЫ ТИКЕТОВ (совпадают со значениями в БД) ---
const (
	TicketStatusUnassigned = "Unassigned"
	TicketStatusAssigned   = "Assigned"
	TicketStatusInProgress = "In Progress"
	TicketStatusCompleted  = "Completed"

	// Значение фильтра списка, означающее "без фильтра по статусу".
	TicketStatusAll = "All"
)

var TicketStatuses = []string{
	TicketStatusUnassigned,
	TicketStatusAssigned,
	TicketStatusInProgress,
	TicketStatusCompleted,
}

func IsTicketStatus(s string) bool {
	return contains(TicketStatuses, s)
}

// Статусы, для которых исполнитель обязателен.
func RequiresAssignee(s string) bool {
	return s == TicketStatusInProgress || s == TicketStatusCompleted
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
