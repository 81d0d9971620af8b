package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"availability-bot/internal/availability"
	"availability-bot/internal/metrics"
	"availability-bot/internal/models"
	"availability-bot/internal/notify"
	"availability-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type VacationService struct {
	repo         repository.VacationRequestRepository
	employees    repository.EmployeeRepository
	dispatcher   Dispatcher
	dashboardURL string
	now          func() time.Time
	logger       *logrus.Logger
}

func NewVacationService(
	repo repository.VacationRequestRepository,
	employees repository.EmployeeRepository,
	dispatcher Dispatcher,
	dashboardURL string,
) *VacationService {
	if dispatcher == nil {
		dispatcher = nopDispatcher{}
	}
	return &VacationService{
		repo:         repo,
		employees:    employees,
		dispatcher:   dispatcher,
		dashboardURL: dashboardURL,
		now:          time.Now,
		logger:       logrus.New(),
	}
}

func (s *VacationService) SetLogger(logger *logrus.Logger) {
	s.logger = logger
}

// Create persists a pending request, then queues the manager notifications
// and e-mails. Dispatch problems are logged and never returned.
func (s *VacationService) Create(ctx context.Context, email string, from, to time.Time) (*models.VacationRequest, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if from.IsZero() || to.IsZero() {
		return nil, invalid("dates", "from and to are required")
	}
	from, to = availability.DateOf(from), availability.DateOf(to)
	if to.Before(from) {
		return nil, invalid("dates", "the start date must be before the end date")
	}

	req := &models.VacationRequest{
		EmployeeEmail: email,
		From:          from,
		To:            to,
		Status:        models.StatusPending,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to save vacation request: %w", err)
	}
	metrics.IncVacationRequestCreated()

	s.logger.WithFields(logrus.Fields{
		"id":    req.ID,
		"email": req.EmployeeEmail,
		"from":  req.From.Format("2006-01-02"),
		"to":    req.To.Format("2006-01-02"),
	}).Info("Vacation request created")

	s.publishPendingCount(ctx)
	s.dispatcher.Publish(notify.NewEvent(notify.EventVacationRequestCreated, summary(req)))
	s.emailManagers(ctx, req)

	return req, nil
}

// Decide approves or rejects a pending request on behalf of a manager.
func (s *VacationService) Decide(ctx context.Context, id uint, managerEmail string, approve bool) (*models.VacationRequest, error) {
	manager, err := s.requireManager(ctx, managerEmail)
	if err != nil {
		return nil, err
	}

	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !req.IsPending() {
		return nil, fmt.Errorf("%w: request %d is %s", ErrAlreadyDecided, id, req.Status)
	}

	status := models.StatusRejected
	if approve {
		status = models.StatusApproved
	}
	at := s.now().UTC()

	ok, err := s.repo.Decide(ctx, id, status, manager.Email, at)
	if err != nil {
		return nil, fmt.Errorf("failed to decide request: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: request %d", ErrAlreadyDecided, id)
	}

	req.Status = status
	req.DecidedAt = &at
	req.DecidedBy = &manager.Email
	metrics.IncManagerDecision(strings.ToLower(string(status)))

	s.logger.WithFields(logrus.Fields{
		"id":      req.ID,
		"status":  req.Status,
		"manager": manager.Email,
	}).Info("Vacation request decided")

	s.publishPendingCount(ctx)
	s.dispatcher.Publish(notify.NewEvent(notify.EventVacationRequestDecided, summary(req)))

	msg, err := notify.DecisionEmail(req.EmployeeEmail, string(req.Status), manager.Email, req.From, req.To, s.dashboardURL)
	if err != nil {
		s.logger.WithError(err).Error("Failed to build decision email")
	} else {
		s.dispatcher.SendEmail(msg)
	}

	return req, nil
}

// Correct overrides the status of a request whatever its state. Every
// correction is logged.
func (s *VacationService) Correct(ctx context.Context, id uint, managerEmail string, status models.RequestStatus) (*models.VacationRequest, error) {
	manager, err := s.requireManager(ctx, managerEmail)
	if err != nil {
		return nil, err
	}
	if _, ok := models.ParseRequestStatus(string(status)); !ok {
		return nil, invalid("status", "unknown status %q", status)
	}

	req, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	previous := req.Status
	req.Status = status
	if status == models.StatusPending {
		req.DecidedAt = nil
		req.DecidedBy = nil
	} else {
		at := s.now().UTC()
		req.DecidedAt = &at
		req.DecidedBy = &manager.Email
	}

	if err := s.repo.Update(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to correct request: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"id":       req.ID,
		"previous": previous,
		"status":   req.Status,
		"manager":  manager.Email,
	}).Warn("Vacation request status corrected")

	s.publishPendingCount(ctx)
	return req, nil
}

func (s *VacationService) Get(ctx context.Context, id uint) (*models.VacationRequest, error) {
	return s.get(ctx, id)
}

func (s *VacationService) Pending(ctx context.Context) ([]models.VacationRequest, error) {
	return s.repo.GetPending(ctx)
}

func (s *VacationService) PendingCount(ctx context.Context) (int64, error) {
	return s.repo.CountPending(ctx)
}

func (s *VacationService) ForEmployee(ctx context.Context, email string) ([]models.VacationRequest, error) {
	return s.repo.GetByEmployee(ctx, strings.ToLower(strings.TrimSpace(email)))
}

func (s *VacationService) get(ctx context.Context, id uint) (*models.VacationRequest, error) {
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request %d", ErrNotFound, id)
	}
	return req, nil
}

func (s *VacationService) requireManager(ctx context.Context, email string) (*models.Employee, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: manager identity required", ErrForbidden)
	}
	manager, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get manager: %w", err)
	}
	if manager == nil || !manager.IsManager() {
		return nil, fmt.Errorf("%w: %s is not a manager", ErrForbidden, email)
	}
	return manager, nil
}

func (s *VacationService) publishPendingCount(ctx context.Context) {
	count, err := s.repo.CountPending(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to count pending requests")
		return
	}
	s.dispatcher.Publish(notify.NewEvent(notify.EventPendingCountUpdated, notify.PendingCount{Count: count}))
}

func (s *VacationService) emailManagers(ctx context.Context, req *models.VacationRequest) {
	managers, err := s.employees.GetManagers(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list managers for email")
		return
	}

	for _, m := range managers {
		if !m.HasMailbox() {
			continue
		}
		msg, err := notify.NewRequestEmail(m.Email, m.Name(), req.EmployeeEmail, req.From, req.To, s.dashboardURL)
		if err != nil {
			s.logger.WithError(err).WithField("manager", m.Email).Error("Failed to build request email")
			continue
		}
		s.dispatcher.SendEmail(msg)
	}
}

func summary(req *models.VacationRequest) notify.RequestSummary {
	sum := notify.RequestSummary{
		ID:   req.ID,
		User: strings.ToLower(req.EmployeeEmail),
		From: req.From.Format("2006-01-02"),
		To:   req.To.Format("2006-01-02"),
	}
	if !req.IsPending() {
		sum.Status = string(req.Status)
	}
	if req.DecidedBy != nil {
		sum.DecidedBy = *req.DecidedBy
	}
	return sum
}
