package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"availability-bot/internal/availability"
	"availability-bot/internal/models"
	"availability-bot/internal/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type UnavailabilityService struct {
	repo   repository.UnavailabilityRepository
	logger *logrus.Logger
}

func NewUnavailabilityService(repo repository.UnavailabilityRepository) *UnavailabilityService {
	return &UnavailabilityService{repo: repo, logger: logrus.New()}
}

func (s *UnavailabilityService) SetLogger(logger *logrus.Logger) {
	s.logger = logger
}

type UnavailabilityInput struct {
	Email       string
	Kind        string
	From        time.Time
	To          time.Time
	IsHalfDay   bool
	HalfSegment string
}

func (s *UnavailabilityService) build(in UnavailabilityInput) (*models.Unavailability, error) {
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if in.From.IsZero() || in.To.IsZero() {
		return nil, invalid("dates", "start and end are required")
	}
	from, to := availability.DateOf(in.From), availability.DateOf(in.To)
	if to.Before(from) {
		return nil, invalid("dates", "end %s is before start %s", to.Format("2006-01-02"), from.Format("2006-01-02"))
	}

	u := &models.Unavailability{
		EmployeeEmail: email,
		Kind:          strings.TrimSpace(in.Kind),
		StartDate:     from,
		EndDate:       to,
		IsHalfDay:     in.IsHalfDay,
	}

	if in.IsHalfDay {
		if !from.Equal(to) {
			return nil, invalid("dates", "a half-day covers a single day")
		}
		segment := availability.NormalizeSegment(in.HalfSegment)
		if segment != "AM" && segment != "PM" {
			return nil, invalid("half_segment", "must be AM or PM")
		}
		u.HalfSegment = segment
	}
	return u, nil
}

func (s *UnavailabilityService) Create(ctx context.Context, in UnavailabilityInput) (*models.Unavailability, error) {
	u, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("failed to save unavailability: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":     u.ID,
		"email":  u.EmployeeEmail,
		"status": availability.Normalize(u.Kind, u.IsHalfDay).String(),
		"from":   u.StartDate.Format("2006-01-02"),
		"to":     u.EndDate.Format("2006-01-02"),
	}).Info("Unavailability recorded")

	return u, nil
}

func (s *UnavailabilityService) owned(ctx context.Context, id uint, ownerEmail string) (*models.Unavailability, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get unavailability: %w", err)
	}
	if u == nil {
		return nil, fmt.Errorf("%w: unavailability %d", ErrNotFound, id)
	}
	if !strings.EqualFold(u.EmployeeEmail, strings.TrimSpace(ownerEmail)) {
		return nil, fmt.Errorf("%w: unavailability %d belongs to another employee", ErrForbidden, id)
	}
	return u, nil
}

// Replace swaps a record for a new one in a single transaction.
func (s *UnavailabilityService) Replace(ctx context.Context, id uint, in UnavailabilityInput) (*models.Unavailability, error) {
	if _, err := s.owned(ctx, id, in.Email); err != nil {
		return nil, err
	}
	u, err := s.build(in)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Replace(ctx, id, u); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: unavailability %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to replace unavailability: %w", err)
	}
	return u, nil
}

func (s *UnavailabilityService) Cancel(ctx context.Context, id uint, ownerEmail string) error {
	if _, err := s.owned(ctx, id, ownerEmail); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete unavailability: %w", err)
	}
	return nil
}

func (s *UnavailabilityService) ForEmployee(ctx context.Context, email string) ([]models.Unavailability, error) {
	return s.repo.GetByEmployee(ctx, strings.ToLower(strings.TrimSpace(email)))
}
