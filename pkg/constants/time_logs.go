package constants

// Действия табеля
const (
	ClockActionIn         = "clock-in"
	ClockActionOut        = "clock-out"
	ClockActionLunchStart = "lunch-start"
	ClockActionLunchEnd   = "lunch-end"
)

var ClockActions = []string{ClockActionIn, ClockActionOut, ClockActionLunchStart, ClockActionLunchEnd}

func IsClockAction(s string) bool { return contains(ClockActions, s) }

// Формат даты в запросах и ответах табеля.
const DateLayout = "2006-01-02"
