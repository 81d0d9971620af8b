package holidays

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Holiday is a named day off. Tag is the country or region it was produced
// for.
type Holiday struct {
	Date time.Time `json:"date"`
	Name string    `json:"name"`
	Tag  string    `json:"tag,omitempty"`
}

var ErrWeekdayOutOfRange = errors.New("weekday occurrence outside of month")

func date(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

// NthWeekday returns the n-th (1-based) given weekday of a month. It fails
// when n < 1 or the occurrence would fall into the next month.
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) (time.Time, error) {
	if n < 1 {
		return time.Time{}, fmt.Errorf("%w: n=%d", ErrWeekdayOutOfRange, n)
	}

	d := firstWeekday(year, month, weekday).AddDate(0, 0, 7*(n-1))

	if d.Month() != month {
		return time.Time{}, fmt.Errorf("%w: %d %s of %s %d", ErrWeekdayOutOfRange, n, weekday, month, year)
	}
	return d, nil
}

// firstWeekday returns the first given weekday of a month. The fourth
// occurrence is firstWeekday + 21 days and always stays in the month.
func firstWeekday(year int, month time.Month, weekday time.Weekday) time.Time {
	d := date(year, month, 1)
	offset := (int(weekday) - int(d.Weekday()) + 7) % 7
	return d.AddDate(0, 0, offset)
}

// For evaluates the holiday rules for one region/country pair. Either value
// may be empty.
func For(year int, region, country string) []Holiday {
	rg, cc := normalizeCode(region), normalizeCode(country)

	latAm := rg == "CAM" || rg == "SAM" || cc == "MX" || cc == "CR" || cc == "AR" || cc == "BR"
	europe := rg == "EU" || cc == "ES"
	northAmerica := cc == "US" || rg == "NAM"

	list := []Holiday{
		{Date: date(year, time.January, 1), Name: "New year"},
		{Date: date(year, time.December, 25), Name: "Christmas"},
	}

	if latAm || europe {
		list = append(list,
			Holiday{Date: date(year, time.December, 24), Name: "Christmas Eve"},
			Holiday{Date: date(year, time.December, 31), Name: "New Year's Eve"},
		)
	}

	if northAmerica {
		list = append(list,
			Holiday{Date: date(year, time.July, 4), Name: "Independence Day"},
			Holiday{Date: firstWeekday(year, time.September, time.Monday), Name: "Labor Day"},
			Holiday{Date: firstWeekday(year, time.November, time.Thursday).AddDate(0, 0, 21), Name: "Thanksgiving"},
		)
	}

	if cc == "ES" {
		list = append(list, Holiday{Date: date(year, time.January, 6), Name: "Epiphany"})
	}

	tag := cc
	if tag == "" {
		tag = rg
	}
	for i := range list {
		list[i].Tag = tag
	}

	Sort(list)
	return list
}

// ForSelection returns the union of the holidays of every selected country,
// deduplicated by date and name. An empty selection yields no holidays.
func ForSelection(year int, sel Selection) []Holiday {
	result := []Holiday{}
	if sel.IsEmpty() {
		return result
	}

	seen := make(map[string]bool)
	for _, cc := range sel.Countries {
		for _, h := range For(year, sel.Region, cc) {
			key := h.Date.Format("2006-01-02") + "|" + h.Name
			if seen[key] {
				continue
			}
			seen[key] = true
			h.Tag = sel.Tag()
			if h.Tag == "" {
				h.Tag = cc
			}
			result = append(result, h)
		}
	}

	Sort(result)
	return result
}

// InRange keeps the holidays between first and last inclusive.
func InRange(list []Holiday, first, last time.Time) []Holiday {
	result := []Holiday{}
	for _, h := range list {
		if h.Date.Before(first) || h.Date.After(last) {
			continue
		}
		result = append(result, h)
	}
	return result
}

// Sort orders holidays by date, then name.
func Sort(list []Holiday) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return list[i].Name < list[j].Name
	})
}
