package services

import (
	"math"
	"net/http"
	"time"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
	"itdesk/pkg/constants"
	apperrors "itdesk/pkg/errors"
	"itdesk/pkg/utils"
)

// WorkedHours = (time_out - time_in) - обед, не меньше нуля.
// Обед вычитается, только если известны оба его конца.
func WorkedHours(l entities.TimeLog) float64 {
	if l.TimeIn.IsZero() || !l.TimeOut.Valid {
		return 0
	}
	worked := l.TimeOut.Time.Sub(l.TimeIn)
	if l.LunchStart.Valid && l.LunchEnd.Valid {
		worked -= l.LunchEnd.Time.Sub(l.LunchStart.Time)
	}
	return utils.RoundHours(math.Max(worked.Hours(), 0))
}

// PayPeriod возвращает границы полумесячного расчётного периода (включительно):
// с 1 по 15 число либо с 16 по последний день месяца.
func PayPeriod(date time.Time) (time.Time, time.Time) {
	y, m, d := date.Date()
	loc := date.Location()
	if d <= 15 {
		return time.Date(y, m, 1, 0, 0, 0, 0, loc), time.Date(y, m, 15, 0, 0, 0, 0, loc)
	}
	// нулевой день следующего месяца - последний день текущего
	return time.Date(y, m, 16, 0, 0, 0, 0, loc), time.Date(y, m+1, 0, 0, 0, 0, 0, loc)
}

// ValidateTimeLog проверяет порядок отметок внутри одной смены.
func ValidateTimeLog(l entities.TimeLog) error {
	if l.TimeIn.IsZero() {
		return apperrors.NewBadRequestError("Поле time_in обязательно")
	}
	if l.TimeOut.Valid && l.TimeOut.Time.Before(l.TimeIn) {
		return apperrors.NewBadRequestError("Время ухода не может быть раньше времени прихода")
	}
	if l.LunchEnd.Valid && !l.LunchStart.Valid {
		return apperrors.NewBadRequestError("Нельзя указать конец обеда без его начала")
	}
	if l.LunchStart.Valid && l.LunchEnd.Valid && l.LunchEnd.Time.Before(l.LunchStart.Time) {
		return apperrors.NewBadRequestError("Конец обеда не может быть раньше его начала")
	}
	if l.Mileage < 0 {
		return apperrors.NewBadRequestError("Пробег не может быть отрицательным")
	}
	return nil
}

func lunchInProgress(l *entities.TimeLog) bool {
	return l.LunchStart.Valid && !l.LunchEnd.Valid
}

// applyClockAction применяет действие к открытой смене. clock-in сюда не попадает:
// он создаёт новую запись.
func applyClockAction(l *entities.TimeLog, action string, now time.Time) error {
	switch action {
	case constants.ClockActionOut:
		if lunchInProgress(l) {
			return apperrors.NewHttpError(http.StatusConflict, "Сначала завершите обед", apperrors.ErrConflict, nil)
		}
		l.TimeOut.SetValid(now)
	case constants.ClockActionLunchStart:
		if l.LunchStart.Valid {
			return apperrors.NewHttpError(http.StatusConflict, "Обед уже начат", apperrors.ErrConflict, nil)
		}
		l.LunchStart.SetValid(now)
	case constants.ClockActionLunchEnd:
		if !l.LunchStart.Valid {
			return apperrors.NewBadRequestError("Обед не был начат")
		}
		if l.LunchEnd.Valid {
			return apperrors.NewHttpError(http.StatusConflict, "Обед уже завершён", apperrors.ErrConflict, nil)
		}
		l.LunchEnd.SetValid(now)
	default:
		return apperrors.NewBadRequestError("Неизвестное действие: " + action)
	}
	return nil
}

func toTimeLogDTO(l entities.TimeLog) dto.TimeLogDTO {
	return dto.TimeLogDTO{
		ID:          l.ID,
		AdminID:     l.AdminID,
		Date:        dto.FormatDate(l.Date),
		TimeIn:      l.TimeIn,
		TimeOut:     l.TimeOut,
		LunchStart:  l.LunchStart,
		LunchEnd:    l.LunchEnd,
		Mileage:     l.Mileage,
		WorkedHours: WorkedHours(l),
		Admin:       l.Admin,
	}
}

// buildPayPeriodSummary раскладывает смены по дням периода [start, end].
func buildPayPeriodSummary(adminID uint64, start, end time.Time, logs []entities.TimeLog) *dto.PayPeriodSummaryDTO {
	byDate := make(map[string][]entities.TimeLog, len(logs))
	for _, l := range logs {
		key := dto.FormatDate(l.Date)
		byDate[key] = append(byDate[key], l)
	}

	summary := &dto.PayPeriodSummaryDTO{
		AdminID:     adminID,
		PeriodStart: dto.FormatDate(start),
		PeriodEnd:   dto.FormatDate(end),
		Days:        make([]dto.PayPeriodDayDTO, 0, 16),
	}
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		key := dto.FormatDate(day)
		entry := dto.PayPeriodDayDTO{Date: key, Logs: []dto.TimeLogDTO{}}
		dayLogs := byDate[key]
		// в репозитории порядок по убыванию, в табеле - по времени прихода
		for i := len(dayLogs) - 1; i >= 0; i-- {
			d := toTimeLogDTO(dayLogs[i])
			entry.Logs = append(entry.Logs, d)
			entry.WorkedHours += d.WorkedHours
			entry.Mileage += d.Mileage
		}
		entry.WorkedHours = utils.RoundHours(entry.WorkedHours)
		summary.TotalHours += entry.WorkedHours
		summary.TotalMileage += entry.Mileage
		summary.Days = append(summary.Days, entry)
	}
	summary.TotalHours = utils.RoundHours(summary.TotalHours)
	summary.TotalMileage = utils.RoundHours(summary.TotalMileage)
	return summary
}
