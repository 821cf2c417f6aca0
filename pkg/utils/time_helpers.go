package utils

import (
	"math"
	"time"
)

// RoundHours округляет часы до сотых.
func RoundHours(h float64) float64 {
	return math.Round(h*100) / 100
}

// HoursBetween возвращает длительность между моментами в часах, округлённую до сотых.
func HoursBetween(start, end time.Time) float64 {
	return RoundHours(end.Sub(start).Hours())
}

// StartOfDay возвращает полночь дня t в часовом поясе loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// DayWindow - полуинтервал [начало дня, начало следующего дня).
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(t, loc)
	return start, start.AddDate(0, 0, 1)
}
