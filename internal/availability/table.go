package availability

import (
	"sort"
	"strings"
	"time"
)

// StatusRow is one line of the "who is unavailable today" table.
type StatusRow struct {
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Status      Status     `json:"status"`
	Half        *string    `json:"half"`
	From        *time.Time `json:"from"`
	To          *time.Time `json:"to"`
	CountryCode string     `json:"country_code,omitempty"`
}

// MatchesQuery is the free-text employee filter: a case-insensitive substring
// of the e-mail or the display name. An empty query matches everyone.
func MatchesQuery(e Employee, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(e.Email), q) ||
		strings.Contains(strings.ToLower(e.DisplayName), q)
}

// StatusTable resolves the status of every employee matching query on date.
// Unavailable employees come first, then everyone by name.
func (r *Resolver) StatusTable(
	date time.Time,
	directory []Employee,
	records []Record,
	vacations []VacationRange,
	query string,
) []StatusRow {
	recordsByEmail := make(map[string][]Record)
	for _, rec := range records {
		key := NormalizeEmail(rec.EmployeeEmail)
		recordsByEmail[key] = append(recordsByEmail[key], rec)
	}

	vacationsByEmail := make(map[string][]VacationRange)
	for _, v := range vacations {
		key := NormalizeEmail(v.EmployeeEmail)
		vacationsByEmail[key] = append(vacationsByEmail[key], v)
	}

	rows := make([]StatusRow, 0, len(directory))
	for _, e := range directory {
		if NormalizeEmail(e.Email) == "" {
			r.logger.WithField("name", e.DisplayName).Warn("Skipping employee without email")
			continue
		}
		if !MatchesQuery(e, query) {
			continue
		}

		key := NormalizeEmail(e.Email)
		res := r.Resolve(date, recordsByEmail[key], vacationsByEmail[key])

		rows = append(rows, StatusRow{
			Email:       e.Email,
			Name:        DisplayName(e.Email, e.DisplayName),
			Status:      res.Status,
			Half:        res.Half,
			From:        res.From,
			To:          res.To,
			CountryCode: e.CountryCode,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		ai, aj := rows[i].Status.IsAvailable(), rows[j].Status.IsAvailable()
		if ai != aj {
			return !ai
		}
		return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
	})

	return rows
}
