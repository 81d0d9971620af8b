package weekends

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// File is a company days-off calendar. JSON files are read as YAML.
//
//	year: 2025
//	months:
//	  - month: 5
//	    days: "2,15+,16*"
//	names:
//	  "05-02": Bridge day
//
// A "+" suffix marks a moved day off and is kept; a "*" suffix marks a
// shortened working day and is skipped.
type File struct {
	Year   int               `yaml:"year" json:"year"`
	Months []MonthDays       `yaml:"months" json:"months"`
	Names  map[string]string `yaml:"names" json:"names"`
}

type MonthDays struct {
	Month int    `yaml:"month" json:"month"`
	Days  string `yaml:"days" json:"days"`
}

type NonWorkingDay struct {
	Date  time.Time `json:"date"`
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Day   int       `json:"day"`
	Name  string    `json:"name,omitempty"`
}

// ParseFile reads and parses a days-off file.
func ParseFile(filePath string) ([]NonWorkingDay, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read days-off file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]NonWorkingDay, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal days-off file: %w", err)
	}
	if f.Year < 1 || f.Year > 9999 {
		return nil, fmt.Errorf("invalid year %d", f.Year)
	}

	seen := make(map[time.Time]bool)
	result := []NonWorkingDay{}

	for _, m := range f.Months {
		if m.Month < 1 || m.Month > 12 {
			return nil, fmt.Errorf("invalid month %d", m.Month)
		}

		for _, dayStr := range strings.Split(m.Days, ",") {
			dayStr = strings.TrimSpace(dayStr)
			if dayStr == "" || strings.HasSuffix(dayStr, "*") {
				continue
			}
			dayStr = strings.TrimSuffix(dayStr, "+")

			day, err := strconv.Atoi(dayStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse day '%s' in month %d: %w", dayStr, m.Month, err)
			}

			date := time.Date(f.Year, time.Month(m.Month), day, 0, 0, 0, 0, time.UTC)
			if date.Month() != time.Month(m.Month) || day < 1 {
				return nil, fmt.Errorf("day %d does not exist in month %d of %d", day, m.Month, f.Year)
			}
			if seen[date] {
				continue
			}
			seen[date] = true

			result = append(result, NonWorkingDay{
				Date:  date,
				Year:  f.Year,
				Month: m.Month,
				Day:   day,
				Name:  f.Names[date.Format("01-02")],
			})
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

// ForMonth returns the days of one month.
func ForMonth(days []NonWorkingDay, year, month int) []NonWorkingDay {
	result := []NonWorkingDay{}
	for _, day := range days {
		if day.Year == year && day.Month == month {
			result = append(result, day)
		}
	}
	return result
}
