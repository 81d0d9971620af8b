package calendar

import (
	"sort"
	"strings"
	"time"

	"availability-bot/internal/availability"
	"availability-bot/internal/holidays"

	"github.com/sirupsen/logrus"
)

// GridSize is the number of cells of a month view: six weeks of seven days.
const GridSize = 42

// Event is a chip shown on a calendar cell.
type Event struct {
	Date          time.Time `json:"date"`
	Label         string    `json:"label"`
	Tag           string    `json:"tag"`
	Category      Category  `json:"category"`
	Icon          string    `json:"icon"`
	EmployeeEmail string    `json:"employee_email,omitempty"`
	Half          string    `json:"half,omitempty"`
}

// Cell is one day of the grid.
type Cell struct {
	Date    time.Time `json:"date"`
	InMonth bool      `json:"in_month"`
	Events  []Event   `json:"events"`
}

// Grid is a month view starting on the Monday on or before the 1st.
type Grid struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	First time.Time  `json:"first"`
	Last  time.Time  `json:"last"`
	Cells []Cell     `json:"cells"`
}

// NewGrid returns an empty 42-cell grid for the month.
func NewGrid(year int, month time.Month) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	start := first
	for start.Weekday() != time.Monday {
		start = start.AddDate(0, 0, -1)
	}

	cells := make([]Cell, GridSize)
	for i := range cells {
		d := start.AddDate(0, 0, i)
		cells[i] = Cell{Date: d, InMonth: d.Month() == month, Events: []Event{}}
	}

	return Grid{Year: year, Month: month, First: first, Last: last, Cells: cells}
}

// Start is the date of the first cell.
func (g Grid) Start() time.Time {
	return g.Cells[0].Date
}

// End is the date of the last cell.
func (g Grid) End() time.Time {
	return g.Cells[GridSize-1].Date
}

// Cell returns the cell of a date, nil when the date is not displayed.
func (g Grid) Cell(d time.Time) *Cell {
	offset := int(availability.DateOf(d).Sub(g.Start()).Hours() / 24)
	if offset < 0 || offset >= GridSize {
		return nil
	}
	return &g.Cells[offset]
}

// Input gathers everything needed to fill a month view.
type Input struct {
	Year      int
	Month     time.Month
	Query     string
	Country   string
	Region    string
	Employees []availability.Employee
	Records   []availability.Record
	Vacations []availability.VacationRange
	// Extra holidays shown regardless of the country filter (company days off).
	Extra []holidays.Holiday
}

type Builder struct {
	logger logrus.FieldLogger
}

func NewBuilder(logger logrus.FieldLogger) *Builder {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Builder{logger: logger}
}

// Build places holidays, unavailabilities and approved vacations on the grid.
// Every event is kept; events of a cell are ordered by label.
func (b *Builder) Build(in Input) Grid {
	grid := NewGrid(in.Year, in.Month)

	sel := holidays.Resolve(in.Country, in.Region)
	list := holidays.ForSelection(in.Year, sel)
	list = append(list, in.Extra...)
	for _, h := range holidays.InRange(list, grid.First, grid.Last) {
		label := h.Name
		if h.Tag != "" {
			label += " (" + h.Tag + ")"
		}
		b.add(grid, h.Date, TagHoliday, label, "", "")
	}

	directory := make(map[string]availability.Employee, len(in.Employees))
	for _, e := range in.Employees {
		directory[availability.NormalizeEmail(e.Email)] = e
	}

	for _, rec := range in.Records {
		if !b.included(directory, rec.EmployeeEmail, in.Query) {
			continue
		}
		if !b.validRange(rec.EmployeeEmail, rec.Start, rec.End) {
			continue
		}
		status := availability.Normalize(rec.Kind, rec.IsHalfDay)
		half := ""
		if rec.IsHalfDay {
			half = availability.NormalizeSegment(rec.HalfSegment)
		}
		label := b.label(directory, rec.EmployeeEmail)
		b.spread(grid, rec.Start, rec.End, status.String(), label, rec.EmployeeEmail, half)
	}

	for _, v := range in.Vacations {
		if !b.included(directory, v.EmployeeEmail, in.Query) {
			continue
		}
		if !b.validRange(v.EmployeeEmail, v.From, v.To) {
			continue
		}
		label := b.label(directory, v.EmployeeEmail)
		b.spread(grid, v.From, v.To, availability.Vacation.String(), label, v.EmployeeEmail, "")
	}

	for i := range grid.Cells {
		events := grid.Cells[i].Events
		sort.SliceStable(events, func(a, c int) bool {
			return strings.ToLower(events[a].Label) < strings.ToLower(events[c].Label)
		})
	}

	return grid
}

func (b *Builder) included(directory map[string]availability.Employee, email, query string) bool {
	if strings.TrimSpace(query) == "" {
		return true
	}
	e, ok := directory[availability.NormalizeEmail(email)]
	if !ok {
		e = availability.Employee{Email: email}
	}
	return availability.MatchesQuery(e, query)
}

func (b *Builder) validRange(email string, start, end time.Time) bool {
	if availability.NormalizeEmail(email) == "" || start.IsZero() || end.IsZero() ||
		availability.DateOf(end).Before(availability.DateOf(start)) {
		b.logger.WithFields(logrus.Fields{
			"email": email,
			"start": start.Format("2006-01-02"),
			"end":   end.Format("2006-01-02"),
		}).Warn("Skipping calendar entry with malformed range")
		return false
	}
	return true
}

func (b *Builder) label(directory map[string]availability.Employee, email string) string {
	e := directory[availability.NormalizeEmail(email)]
	return availability.DisplayName(email, e.DisplayName)
}

// spread adds an event on every displayed day of [start, end].
func (b *Builder) spread(grid Grid, start, end time.Time, tag, label, email, half string) {
	from, to := availability.DateOf(start), availability.DateOf(end)
	if from.Before(grid.Start()) {
		from = grid.Start()
	}
	if to.After(grid.End()) {
		to = grid.End()
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		b.add(grid, d, tag, label, email, half)
	}
}

func (b *Builder) add(grid Grid, d time.Time, tag, label, email, half string) {
	cell := grid.Cell(d)
	if cell == nil {
		return
	}
	category, icon := Style(tag)
	cell.Events = append(cell.Events, Event{
		Date:          cell.Date,
		Label:         label,
		Tag:           tag,
		Category:      category,
		Icon:          icon,
		EmployeeEmail: email,
		Half:          half,
	})
}
