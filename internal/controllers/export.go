package controllers

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"itdesk/internal/dto"
	"itdesk/internal/entities"
)

const (
	exportDateFmt     = "02.01.2006"
	exportDateTimeFmt = "02.01.2006 15:04"
	exportTimeFmt     = "15:04"
)

var ticketExportHeaders = []string{
	"№", "Компания", "Контакт", "Адрес", "Проблема", "Статус", "Исполнитель",
	"Начало", "Окончание", "Часы", "Решение", "Комментарий",
}

// ticketToRow переводит время в часовой пояс офиса: в БД оно хранится в UTC.
func ticketToRow(t entities.Ticket, loc *time.Location) []interface{} {
	var assignee, timeEnd, total string
	if t.Admin != nil {
		assignee = t.Admin.Name
	}
	if t.TimeEnd.Valid {
		timeEnd = t.TimeEnd.Time.In(loc).Format(exportDateTimeFmt)
	}
	if t.TotalTime.Valid {
		total = fmt.Sprintf("%.2f", t.TotalTime.Float64)
	}
	return []interface{}{
		t.ID, t.Company, t.Person, t.Location.String, t.Issue, t.Status, assignee,
		t.StartedTime.In(loc).Format(exportDateTimeFmt), timeEnd, total, t.Resolution.String, t.Comments.String,
	}
}

func buildTicketsWorkbook(tickets []entities.Ticket, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Тикеты"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &ticketExportHeaders); err != nil {
		return nil, err
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheet, "A1", "L1", style)

	for i, t := range tickets {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := ticketToRow(t, loc)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	_ = f.SetColWidth(sheet, "B", "D", 25)
	_ = f.SetColWidth(sheet, "E", "E", 40)
	_ = f.SetColWidth(sheet, "G", "I", 20)
	_ = f.SetColWidth(sheet, "K", "L", 40)
	return f, nil
}

var timesheetHeaders = []string{"Дата", "Приход", "Обед с", "Обед до", "Уход", "Часы", "Пробег"}

func clockCell(t time.Time, valid bool, loc *time.Location) string {
	if !valid {
		return ""
	}
	return t.In(loc).Format(exportTimeFmt)
}

// buildTimesheetWorkbook - табель за расчётный период: строка на каждую смену,
// пустая строка для дней без смен, итог внизу.
func buildTimesheetWorkbook(summary *dto.PayPeriodSummaryDTO, adminName string, loc *time.Location) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Табель"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Табель: %s, %s - %s", adminName, summary.PeriodStart, summary.PeriodEnd)
	if err := f.SetCellValue(sheet, "A1", title); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A3", &timesheetHeaders); err != nil {
		return nil, err
	}
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellStyle(sheet, "A1", "A1", style)
	_ = f.SetCellStyle(sheet, "A3", "G3", style)

	rowIdx := 4
	for _, day := range summary.Days {
		if len(day.Logs) == 0 {
			cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
			row := []interface{}{day.Date, "", "", "", "", 0.0, 0.0}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return nil, err
			}
			rowIdx++
			continue
		}
		for _, l := range day.Logs {
			cell, _ := excelize.CoordinatesToCellName(1, rowIdx)
			row := []interface{}{
				day.Date,
				clockCell(l.TimeIn, true, loc),
				clockCell(l.LunchStart.Time, l.LunchStart.Valid, loc),
				clockCell(l.LunchEnd.Time, l.LunchEnd.Valid, loc),
				clockCell(l.TimeOut.Time, l.TimeOut.Valid, loc),
				l.WorkedHours,
				l.Mileage,
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return nil, err
			}
			rowIdx++
		}
	}

	cell, _ := excelize.CoordinatesToCellName(1, rowIdx+1)
	total := []interface{}{"Итого", "", "", "", "", summary.TotalHours, summary.TotalMileage}
	if err := f.SetSheetRow(sheet, cell, &total); err != nil {
		return nil, err
	}
	totalEnd, _ := excelize.CoordinatesToCellName(7, rowIdx+1)
	_ = f.SetCellStyle(sheet, cell, totalEnd, style)
	_ = f.SetColWidth(sheet, "A", "A", 14)
	return f, nil
}
