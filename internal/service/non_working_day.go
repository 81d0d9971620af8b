package service

import (
	"context"
	"fmt"
	"time"

	"availability-bot/internal/holidays"
	"availability-bot/internal/models"
	"availability-bot/internal/repository"
	"availability-bot/pkg/weekends"

	"github.com/sirupsen/logrus"
)

// NonWorkingDayService manages company-wide days off.
type NonWorkingDayService struct {
	repo   repository.NonWorkingDayRepository
	logger *logrus.Logger
}

func NewNonWorkingDayService(repo repository.NonWorkingDayRepository) *NonWorkingDayService {
	return &NonWorkingDayService{repo: repo, logger: logrus.New()}
}

// LoadFromFile replaces the stored days off with the content of a YAML or
// JSON file and returns how many were stored.
func (s *NonWorkingDayService) LoadFromFile(ctx context.Context, filePath string) (int, error) {
	parsed, err := weekends.ParseFile(filePath)
	if err != nil {
		return 0, err
	}

	days := make([]models.NonWorkingDay, 0, len(parsed))
	for _, d := range parsed {
		days = append(days, models.NonWorkingDay{
			Date:  d.Date,
			Year:  d.Year,
			Month: d.Month,
			Day:   d.Day,
			Name:  d.Name,
		})
	}

	if err := s.repo.ReplaceAll(ctx, days); err != nil {
		return 0, fmt.Errorf("failed to store non-working days: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"file": filePath, "count": len(days)}).Info("Non-working days loaded")
	return len(days), nil
}

// ForMonth returns the stored days off of one month as holidays.
func (s *NonWorkingDayService) ForMonth(ctx context.Context, year int, month time.Month) ([]holidays.Holiday, error) {
	days, err := s.repo.GetByYearMonth(ctx, year, int(month))
	if err != nil {
		return nil, fmt.Errorf("failed to get non-working days: %w", err)
	}
	list := make([]holidays.Holiday, 0, len(days))
	for i := range days {
		list = append(list, days[i].Holiday())
	}
	return list, nil
}

// IsDayOff reports whether date is a stored company day off.
func (s *NonWorkingDayService) IsDayOff(ctx context.Context, date time.Time) (bool, error) {
	off, err := s.repo.IsNonWorkingDay(ctx, date)
	if err != nil {
		return false, fmt.Errorf("failed to check non-working day: %w", err)
	}
	return off, nil
}

// ForYear returns the stored days off of a year as holidays.
func (s *NonWorkingDayService) ForYear(ctx context.Context, year int) ([]holidays.Holiday, error) {
	days, err := s.repo.GetByYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("failed to get non-working days: %w", err)
	}
	list := make([]holidays.Holiday, 0, len(days))
	for i := range days {
		list = append(list, days[i].Holiday())
	}
	holidays.Sort(list)
	return list, nil
}
