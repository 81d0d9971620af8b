package availability

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Record is an unavailability as seen by the resolver.
type Record struct {
	EmployeeEmail string
	Kind          string
	Start         time.Time
	End           time.Time
	IsHalfDay     bool
	HalfSegment   string
}

// VacationRange is an approved vacation request.
type VacationRange struct {
	EmployeeEmail string
	From          time.Time
	To            time.Time
}

// Employee is a directory entry.
type Employee struct {
	Email       string
	DisplayName string
	CountryCode string
}

// Resolution is the single winning status of one employee on one day.
type Resolution struct {
	Status Status
	Half   *string
	From   *time.Time
	To     *time.Time
}

// Resolver merges records into statuses. It holds no state besides the logger
// and is safe for concurrent use.
type Resolver struct {
	logger logrus.FieldLogger
}

func NewResolver(logger logrus.FieldLogger) *Resolver {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Resolver{logger: logger}
}

// DateOf drops time of day and zone, keeping the UTC calendar date.
func DateOf(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether date falls inside [start, end], date part only.
func Overlaps(start, end, date time.Time) bool {
	d := DateOf(date)
	return !DateOf(start).After(d) && !DateOf(end).Before(d)
}

// NormalizeEmail is the key used to match records with directory entries.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *Resolver) validRecord(rec Record) bool {
	fields := logrus.Fields{
		"email": rec.EmployeeEmail,
		"kind":  rec.Kind,
		"start": rec.Start.Format("2006-01-02"),
		"end":   rec.End.Format("2006-01-02"),
	}
	if NormalizeEmail(rec.EmployeeEmail) == "" {
		r.logger.WithFields(fields).Warn("Skipping unavailability without employee email")
		return false
	}
	if rec.Start.IsZero() || rec.End.IsZero() || DateOf(rec.End).Before(DateOf(rec.Start)) {
		r.logger.WithFields(fields).Warn("Skipping unavailability with malformed dates")
		return false
	}
	return true
}

func (r *Resolver) validVacation(v VacationRange) bool {
	fields := logrus.Fields{
		"email": v.EmployeeEmail,
		"from":  v.From.Format("2006-01-02"),
		"to":    v.To.Format("2006-01-02"),
	}
	if NormalizeEmail(v.EmployeeEmail) == "" {
		r.logger.WithFields(fields).Warn("Skipping vacation without employee email")
		return false
	}
	if v.From.IsZero() || v.To.IsZero() || DateOf(v.To).Before(DateOf(v.From)) {
		r.logger.WithFields(fields).Warn("Skipping vacation with malformed dates")
		return false
	}
	return true
}

// Resolve picks the winning status for date among the given records and
// approved vacations of one employee. Vacations are considered first, then
// records in input order; only a strictly higher priority replaces the
// current winner.
func (r *Resolver) Resolve(date time.Time, records []Record, vacations []VacationRange) Resolution {
	best := Resolution{Status: Available}

	for _, v := range vacations {
		if !r.validVacation(v) || !Overlaps(v.From, v.To, date) {
			continue
		}
		if Vacation.Priority() > best.Status.Priority() {
			from, to := DateOf(v.From), DateOf(v.To)
			best = Resolution{Status: Vacation, From: &from, To: &to}
		}
	}

	for _, rec := range records {
		if !r.validRecord(rec) || !Overlaps(rec.Start, rec.End, date) {
			continue
		}
		status := Normalize(rec.Kind, rec.IsHalfDay)
		if status.Priority() <= best.Status.Priority() {
			continue
		}
		from, to := DateOf(rec.Start), DateOf(rec.End)
		best = Resolution{Status: status, From: &from, To: &to}
		if rec.IsHalfDay {
			half := NormalizeSegment(rec.HalfSegment)
			best.Half = &half
		}
	}

	return best
}
