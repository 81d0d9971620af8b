package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"availability-bot/internal/availability"
	"availability-bot/internal/calendar"

	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Workbook builds an XLSX document from calendar grids and status tables.
type Workbook struct {
	file   *excelize.File
	sheets int
}

func NewWorkbook() *Workbook {
	return &Workbook{file: excelize.NewFile()}
}

func (w *Workbook) addSheet(name string) error {
	// Excel limit
	if len(name) > 31 {
		name = name[:31]
	}

	if w.sheets == 0 {
		if err := w.file.SetSheetName("Sheet1", name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if _, err := w.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	w.sheets++
	return nil
}

func (w *Workbook) writeRow(sheet string, row int, values []interface{}) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(sheet, cell, val); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) boldRow(sheet string, row, columns int) error {
	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	start, _ := excelize.CoordinatesToCellName(1, row)
	end, _ := excelize.CoordinatesToCellName(columns, row)
	return w.file.SetCellStyle(sheet, start, end, style)
}

// AddCalendar adds a month sheet laid out like the grid and an events sheet
// listing every event.
func (w *Workbook) AddCalendar(grid calendar.Grid) error {
	sheet := fmt.Sprintf("%s %d", grid.Month, grid.Year)
	if err := w.addSheet(sheet); err != nil {
		return err
	}

	header := make([]interface{}, len(weekdays))
	for i, d := range weekdays {
		header[i] = d
	}
	if err := w.writeRow(sheet, 1, header); err != nil {
		return err
	}
	if err := w.boldRow(sheet, 1, len(weekdays)); err != nil {
		return err
	}

	wrap, err := w.file.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	})
	if err != nil {
		return err
	}
	outside, err := w.file.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
		Font:      &excelize.Font{Color: "9CA3AF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"F3F4F6"}},
	})
	if err != nil {
		return err
	}

	for i, c := range grid.Cells {
		col, row := i%7+1, i/7+2
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(sheet, cell, cellText(c)); err != nil {
			return err
		}
		style := wrap
		if !c.InMonth {
			style = outside
		}
		if err := w.file.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	if err := w.file.SetColWidth(sheet, "A", "G", 24); err != nil {
		return err
	}

	events := "Events " + grid.First.Format("2006-01")
	if err := w.addSheet(events); err != nil {
		return err
	}
	columns := []interface{}{"Date", "Label", "Status", "Half", "Email"}
	if err := w.writeRow(events, 1, columns); err != nil {
		return err
	}
	if err := w.boldRow(events, 1, len(columns)); err != nil {
		return err
	}

	row := 2
	for _, c := range grid.Cells {
		for _, e := range c.Events {
			values := []interface{}{e.Date.Format("2006-01-02"), e.Label, e.Tag, e.Half, e.EmployeeEmail}
			if err := w.writeRow(events, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

// AddStatusTable adds a sheet with the status of every employee on date.
func (w *Workbook) AddStatusTable(date time.Time, rows []availability.StatusRow) error {
	sheet := "Status " + date.Format("2006-01-02")
	if err := w.addSheet(sheet); err != nil {
		return err
	}

	columns := []interface{}{"Name", "Email", "Status", "Half", "From", "To"}
	if err := w.writeRow(sheet, 1, columns); err != nil {
		return err
	}
	if err := w.boldRow(sheet, 1, len(columns)); err != nil {
		return err
	}

	for i, r := range rows {
		values := []interface{}{r.Name, r.Email, r.Status.String(), deref(r.Half), formatDate(r.From), formatDate(r.To)}
		if err := w.writeRow(sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) Write(wr io.Writer) error {
	return w.file.Write(wr)
}

func (w *Workbook) Close() error {
	return w.file.Close()
}

// WriteCalendar is a shortcut writing a single month workbook.
func WriteCalendar(wr io.Writer, grid calendar.Grid) error {
	wb := NewWorkbook()
	defer wb.Close()

	if err := wb.AddCalendar(grid); err != nil {
		return err
	}
	return wb.Write(wr)
}

func cellText(c calendar.Cell) string {
	lines := []string{fmt.Sprintf("%d", c.Date.Day())}
	for _, e := range c.Events {
		label := e.Label
		if e.Tag != calendar.TagHoliday {
			label += " · " + e.Tag
		}
		if e.Half != "" {
			label += " (" + e.Half + ")"
		}
		lines = append(lines, label)
	}
	return strings.Join(lines, "\n")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
