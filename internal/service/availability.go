package service

import (
	"context"
	"fmt"
	"time"

	"availability-bot/internal/availability"
	"availability-bot/internal/calendar"
	"availability-bot/internal/holidays"
	"availability-bot/internal/models"
	"availability-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

// AvailabilityService loads records and feeds them to the resolver and the
// calendar builder.
type AvailabilityService struct {
	employees      repository.EmployeeRepository
	unavailability repository.UnavailabilityRepository
	vacations      repository.VacationRequestRepository
	daysOff        *NonWorkingDayService
	resolver       *availability.Resolver
	builder        *calendar.Builder
	now            func() time.Time
	logger         *logrus.Logger
}

func NewAvailabilityService(
	employees repository.EmployeeRepository,
	unavailability repository.UnavailabilityRepository,
	vacations repository.VacationRequestRepository,
	daysOff *NonWorkingDayService,
) *AvailabilityService {
	logger := logrus.New()
	return &AvailabilityService{
		employees:      employees,
		unavailability: unavailability,
		vacations:      vacations,
		daysOff:        daysOff,
		resolver:       availability.NewResolver(logger),
		builder:        calendar.NewBuilder(logger),
		now:            time.Now,
		logger:         logger,
	}
}

func (s *AvailabilityService) SetLogger(logger *logrus.Logger) {
	s.logger = logger
	s.resolver = availability.NewResolver(logger)
	s.builder = calendar.NewBuilder(logger)
}

// Today returns the status table for the current UTC date.
func (s *AvailabilityService) Today(ctx context.Context, query string) ([]availability.StatusRow, error) {
	return s.On(ctx, s.now(), query)
}

// On returns one status row per employee matching query.
func (s *AvailabilityService) On(ctx context.Context, date time.Time, query string) ([]availability.StatusRow, error) {
	date = availability.DateOf(date)

	employees, err := s.employees.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	records, err := s.unavailability.GetOverlapping(ctx, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load unavailabilities: %w", err)
	}
	approved, err := s.vacations.GetApprovedOverlapping(ctx, date, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load vacations: %w", err)
	}

	return s.resolver.StatusTable(date, models.Directory(employees), models.Records(records), models.VacationRanges(approved), query), nil
}

// IsCompanyDayOff reports whether date is a company day off. Without a
// days-off store no day is.
func (s *AvailabilityService) IsCompanyDayOff(ctx context.Context, date time.Time) (bool, error) {
	if s.daysOff == nil {
		return false, nil
	}
	return s.daysOff.IsDayOff(ctx, availability.DateOf(date))
}

type CalendarQuery struct {
	Year    int
	Month   time.Month
	Query   string
	Country string
	Region  string
}

func (q CalendarQuery) validate() error {
	if q.Year < 1 || q.Year > 9999 {
		return invalid("year", "%d is out of range", q.Year)
	}
	if q.Month < time.January || q.Month > time.December {
		return invalid("month", "%d is out of range", q.Month)
	}
	return nil
}

// Calendar builds the month grid with holidays, company days off,
// unavailabilities and approved vacations.
func (s *AvailabilityService) Calendar(ctx context.Context, q CalendarQuery) (calendar.Grid, error) {
	if err := q.validate(); err != nil {
		return calendar.Grid{}, err
	}

	view := calendar.NewGrid(q.Year, q.Month)

	employees, err := s.employees.GetAll(ctx)
	if err != nil {
		return calendar.Grid{}, fmt.Errorf("failed to load employees: %w", err)
	}
	records, err := s.unavailability.GetOverlapping(ctx, view.Start(), view.End())
	if err != nil {
		return calendar.Grid{}, fmt.Errorf("failed to load unavailabilities: %w", err)
	}
	approved, err := s.vacations.GetApprovedOverlapping(ctx, view.Start(), view.End())
	if err != nil {
		return calendar.Grid{}, fmt.Errorf("failed to load vacations: %w", err)
	}

	var extra []holidays.Holiday
	if s.daysOff != nil {
		extra, err = s.daysOff.ForMonth(ctx, q.Year, q.Month)
		if err != nil {
			s.logger.WithError(err).Warn("Company days off unavailable")
			extra = nil
		}
	}

	return s.builder.Build(calendar.Input{
		Year:      q.Year,
		Month:     q.Month,
		Query:     q.Query,
		Country:   q.Country,
		Region:    q.Region,
		Employees: models.Directory(employees),
		Records:   models.Records(records),
		Vacations: models.VacationRanges(approved),
		Extra:     extra,
	}), nil
}

// Holidays lists the public holidays of a year for a country or region,
// followed by company days off.
func (s *AvailabilityService) Holidays(ctx context.Context, year int, country, region string) ([]holidays.Holiday, error) {
	if year < 1 || year > 9999 {
		return nil, invalid("year", "%d is out of range", year)
	}

	list := holidays.ForSelection(year, holidays.Resolve(country, region))
	if s.daysOff != nil {
		extra, err := s.daysOff.ForYear(ctx, year)
		if err != nil {
			return nil, err
		}
		list = append(list, extra...)
	}
	holidays.Sort(list)
	return list, nil
}
