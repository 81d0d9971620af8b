package service

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"availability-bot/internal/models"
	"availability-bot/internal/repository"

	"github.com/sirupsen/logrus"
)

type EmployeeService struct {
	repo   repository.EmployeeRepository
	logger *logrus.Logger
}

func NewEmployeeService(repo repository.EmployeeRepository) *EmployeeService {
	return &EmployeeService{repo: repo, logger: logrus.New()}
}

func (s *EmployeeService) SetLogger(logger *logrus.Logger) {
	s.logger = logger
}

type RegisterInput struct {
	Email       string
	DisplayName string
	CountryCode string
	TimeZoneID  string
	ChatID      *int64
}

// NormalizeEmail validates an address and returns it lower-cased.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", invalid("email", "is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", invalid("email", "%q is not a valid address", email)
	}
	return email, nil
}

// Register creates an employee, or binds a chat to an already known
// employee that has none.
func (s *EmployeeService) Register(ctx context.Context, in RegisterInput) (*models.Employee, error) {
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}

	country := strings.ToUpper(strings.TrimSpace(in.CountryCode))
	if country == "" {
		country = models.DefaultCountryCode
	}
	if len(country) != 2 {
		return nil, invalid("country", "%q is not an ISO-2 code", in.CountryCode)
	}

	tz := strings.TrimSpace(in.TimeZoneID)
	if tz == "" {
		tz = models.DefaultTimeZoneID
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, invalid("time_zone", "unknown time zone %q", tz)
	}

	if in.ChatID != nil {
		bound, err := s.repo.GetByChatID(ctx, *in.ChatID)
		if err != nil {
			return nil, fmt.Errorf("failed to look up chat: %w", err)
		}
		if bound != nil && bound.Email != email {
			return nil, fmt.Errorf("%w: chat already registered as %s", ErrConflict, bound.Email)
		}
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee: %w", err)
	}

	if existing != nil {
		if in.ChatID == nil || (existing.ChatID != nil && *existing.ChatID != *in.ChatID) {
			return nil, fmt.Errorf("%w: %s is already registered", ErrConflict, email)
		}
		existing.ChatID = in.ChatID
		if in.DisplayName != "" {
			existing.DisplayName = strings.TrimSpace(in.DisplayName)
		}
		existing.CountryCode = country
		existing.TimeZoneID = tz
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to update employee: %w", err)
		}
		return existing, nil
	}

	employee := &models.Employee{
		Email:       email,
		DisplayName: strings.TrimSpace(in.DisplayName),
		CountryCode: country,
		TimeZoneID:  tz,
		Role:        models.RoleEmployee,
		ChatID:      in.ChatID,
	}
	if err := s.repo.Create(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"email":   employee.Email,
		"country": employee.CountryCode,
	}).Info("Employee registered")

	return employee, nil
}

func (s *EmployeeService) Get(ctx context.Context, email string) (*models.Employee, error) {
	employee, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: employee %s", ErrNotFound, email)
	}
	return employee, nil
}

func (s *EmployeeService) GetByChatID(ctx context.Context, chatID int64) (*models.Employee, error) {
	employee, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: chat %d is not registered", ErrNotFound, chatID)
	}
	return employee, nil
}

func (s *EmployeeService) List(ctx context.Context) ([]*models.Employee, error) {
	return s.repo.GetAll(ctx)
}

func (s *EmployeeService) Managers(ctx context.Context) ([]*models.Employee, error) {
	return s.repo.GetManagers(ctx)
}

// ManagerChatIDs lists the chats bound to managers.
func (s *EmployeeService) ManagerChatIDs(ctx context.Context) ([]int64, error) {
	managers, err := s.repo.GetManagers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(managers))
	for _, m := range managers {
		if m.ChatID != nil {
			ids = append(ids, *m.ChatID)
		}
	}
	return ids, nil
}

// RequireManager returns the employee when it has the manager role.
func (s *EmployeeService) RequireManager(ctx context.Context, email string) (*models.Employee, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: manager identity required", ErrForbidden)
	}
	employee, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if employee == nil || !employee.IsManager() {
		return nil, fmt.Errorf("%w: %s is not a manager", ErrForbidden, email)
	}
	return employee, nil
}

// AssignManager sets the manager of an employee. The hierarchy depth is not
// limited.
func (s *EmployeeService) AssignManager(ctx context.Context, employeeEmail, managerEmail string) error {
	employee, err := s.Get(ctx, employeeEmail)
	if err != nil {
		return err
	}
	manager, err := s.Get(ctx, managerEmail)
	if err != nil {
		return err
	}
	if employee.ID == manager.ID {
		return invalid("manager", "an employee cannot manage themselves")
	}

	employee.ManagerID = &manager.ID
	if err := s.repo.Update(ctx, employee); err != nil {
		return fmt.Errorf("failed to assign manager: %w", err)
	}
	return nil
}

func (s *EmployeeService) SetRole(ctx context.Context, email string, role models.Role) error {
	if role != models.RoleEmployee && role != models.RoleManager {
		return invalid("role", "unknown role %q", role)
	}
	employee, err := s.Get(ctx, email)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateRole(ctx, employee.ID, role); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"email": employee.Email, "role": role}).Info("Role changed")
	return nil
}

func (s *EmployeeService) Delete(ctx context.Context, email string) error {
	employee, err := s.Get(ctx, email)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, employee.ID)
}

// InitializeManager grants the manager role to the chat configured as the
// base manager, creating a placeholder employee when the chat is unknown.
func (s *EmployeeService) InitializeManager(ctx context.Context, chatID int64) error {
	if chatID == 0 {
		return nil
	}

	existing, err := s.repo.GetByChatID(ctx, chatID)
	if err != nil {
		return err
	}
	if existing != nil {
		return s.repo.UpdateRole(ctx, existing.ID, models.RoleManager)
	}

	return s.repo.Create(ctx, &models.Employee{
		Email:       fmt.Sprintf("manager.%d@%s", chatID, models.PlaceholderDomain),
		DisplayName: "Manager",
		Role:        models.RoleManager,
		ChatID:      &chatID,
	})
}
