package repository

import (
	"context"
	"errors"
	"time"

	"availability-bot/internal/models"

	"gorm.io/gorm"
)

type VacationRequestRepository interface {
	Create(ctx context.Context, req *models.VacationRequest) error
	GetByID(ctx context.Context, id uint) (*models.VacationRequest, error)
	GetByEmployee(ctx context.Context, email string) ([]models.VacationRequest, error)
	GetPending(ctx context.Context) ([]models.VacationRequest, error)
	GetApprovedOverlapping(ctx context.Context, from, to time.Time) ([]models.VacationRequest, error)
	CountPending(ctx context.Context) (int64, error)
	// Decide moves a pending request to status. It reports false when the
	// request was no longer pending.
	Decide(ctx context.Context, id uint, status models.RequestStatus, by string, at time.Time) (bool, error)
	Update(ctx context.Context, req *models.VacationRequest) error
}

type GormVacationRequestRepository struct {
	db *gorm.DB
}

func NewGormVacationRequestRepository(db *gorm.DB) (VacationRequestRepository, error) {
	if err := db.AutoMigrate(&models.VacationRequest{}); err != nil {
		return nil, err
	}
	return &GormVacationRequestRepository{db: db}, nil
}

func (r *GormVacationRequestRepository) Create(ctx context.Context, req *models.VacationRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *GormVacationRequestRepository) GetByID(ctx context.Context, id uint) (*models.VacationRequest, error) {
	var req models.VacationRequest
	err := r.db.WithContext(ctx).First(&req, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *GormVacationRequestRepository) GetByEmployee(ctx context.Context, email string) ([]models.VacationRequest, error) {
	var list []models.VacationRequest
	err := r.db.WithContext(ctx).Where("employee_email = ?", email).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *GormVacationRequestRepository) GetPending(ctx context.Context) ([]models.VacationRequest, error) {
	var list []models.VacationRequest
	err := r.db.WithContext(ctx).Where("status = ?", models.StatusPending).
		Order("created_at, id").
		Find(&list).Error
	return list, err
}

func (r *GormVacationRequestRepository) GetApprovedOverlapping(ctx context.Context, from, to time.Time) ([]models.VacationRequest, error) {
	var list []models.VacationRequest
	err := r.db.WithContext(ctx).
		Where("status = ? AND from_date <= ? AND to_date >= ?", models.StatusApproved, to, from).
		Order("id").
		Find(&list).Error
	return list, err
}

func (r *GormVacationRequestRepository) CountPending(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.VacationRequest{}).
		Where("status = ?", models.StatusPending).
		Count(&count).Error
	return count, err
}

func (r *GormVacationRequestRepository) Decide(ctx context.Context, id uint, status models.RequestStatus, by string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.VacationRequest{}).
		Where("id = ? AND status = ?", id, models.StatusPending).
		Updates(map[string]interface{}{
			"status":     status,
			"decided_by": by,
			"decided_at": at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *GormVacationRequestRepository) Update(ctx context.Context, req *models.VacationRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}
