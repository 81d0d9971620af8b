package repository

import (
	"context"
	"errors"
	"strings"

	"availability-bot/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrEmployeeNotFound = errors.New("employee not found")

type EmployeeRepository interface {
	Create(ctx context.Context, employee *models.Employee) error
	Update(ctx context.Context, employee *models.Employee) error
	GetByID(ctx context.Context, id uint) (*models.Employee, error)
	GetByEmail(ctx context.Context, email string) (*models.Employee, error)
	GetByChatID(ctx context.Context, chatID int64) (*models.Employee, error)
	GetAll(ctx context.Context) ([]*models.Employee, error)
	GetManagers(ctx context.Context) ([]*models.Employee, error)
	GetReports(ctx context.Context, managerID uint) ([]*models.Employee, error)
	UpdateRole(ctx context.Context, id uint, role models.Role) error
	Delete(ctx context.Context, id uint) error
}

type GormEmployeeRepository struct {
	db *gorm.DB
}

func NewGormEmployeeRepository(db *gorm.DB) (*GormEmployeeRepository, error) {
	if err := db.AutoMigrate(&models.Employee{}); err != nil {
		return nil, err
	}
	return &GormEmployeeRepository{db: db}, nil
}

func (r *GormEmployeeRepository) Create(ctx context.Context, employee *models.Employee) error {
	employee.Email = strings.ToLower(strings.TrimSpace(employee.Email))
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *GormEmployeeRepository) Update(ctx context.Context, employee *models.Employee) error {
	employee.Email = strings.ToLower(strings.TrimSpace(employee.Email))
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(employee)
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *GormEmployeeRepository) first(ctx context.Context, query string, args ...interface{}) (*models.Employee, error) {
	var employee models.Employee
	result := r.db.WithContext(ctx).Preload("Manager").Where(query, args...).First(&employee)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &employee, nil
}

func (r *GormEmployeeRepository) GetByID(ctx context.Context, id uint) (*models.Employee, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *GormEmployeeRepository) GetByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return r.first(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *GormEmployeeRepository) GetByChatID(ctx context.Context, chatID int64) (*models.Employee, error) {
	return r.first(ctx, "chat_id = ?", chatID)
}

func (r *GormEmployeeRepository) GetAll(ctx context.Context) ([]*models.Employee, error) {
	var employees []*models.Employee
	result := r.db.WithContext(ctx).Order("email").Find(&employees)
	if result.Error != nil {
		return nil, result.Error
	}
	return employees, nil
}

func (r *GormEmployeeRepository) GetManagers(ctx context.Context) ([]*models.Employee, error) {
	var managers []*models.Employee
	result := r.db.WithContext(ctx).Where("role = ?", models.RoleManager).Order("email").Find(&managers)
	if result.Error != nil {
		return nil, result.Error
	}
	return managers, nil
}

func (r *GormEmployeeRepository) GetReports(ctx context.Context, managerID uint) ([]*models.Employee, error) {
	var reports []*models.Employee
	result := r.db.WithContext(ctx).Where("manager_id = ?", managerID).Order("email").Find(&reports)
	if result.Error != nil {
		return nil, result.Error
	}
	return reports, nil
}

func (r *GormEmployeeRepository) UpdateRole(ctx context.Context, id uint, role models.Role) error {
	result := r.db.WithContext(ctx).Model(&models.Employee{}).
		Where("id = ?", id).
		Update("role", role)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}

// Delete removes an employee; its reports lose their manager.
func (r *GormEmployeeRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Employee{}).
			Where("manager_id = ?", id).
			Update("manager_id", nil).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Employee{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEmployeeNotFound
		}
		return nil
	})
}
