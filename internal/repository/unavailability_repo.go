package repository

import (
	"context"
	"errors"
	"time"

	"availability-bot/internal/models"

	"gorm.io/gorm"
)

type UnavailabilityRepository interface {
	Create(ctx context.Context, u *models.Unavailability) error
	GetByID(ctx context.Context, id uint) (*models.Unavailability, error)
	GetByEmployee(ctx context.Context, email string) ([]models.Unavailability, error)
	GetOverlapping(ctx context.Context, from, to time.Time) ([]models.Unavailability, error)
	Replace(ctx context.Context, id uint, u *models.Unavailability) error
	Delete(ctx context.Context, id uint) error
}

type GormUnavailabilityRepository struct {
	db *gorm.DB
}

func NewGormUnavailabilityRepository(db *gorm.DB) (UnavailabilityRepository, error) {
	if err := db.AutoMigrate(&models.Unavailability{}); err != nil {
		return nil, err
	}
	return &GormUnavailabilityRepository{db: db}, nil
}

func (r *GormUnavailabilityRepository) Create(ctx context.Context, u *models.Unavailability) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *GormUnavailabilityRepository) GetByID(ctx context.Context, id uint) (*models.Unavailability, error) {
	var u models.Unavailability
	err := r.db.WithContext(ctx).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormUnavailabilityRepository) GetByEmployee(ctx context.Context, email string) ([]models.Unavailability, error) {
	var list []models.Unavailability
	err := r.db.WithContext(ctx).Where("employee_email = ?", email).
		Order("start_date DESC").
		Find(&list).Error
	return list, err
}

// GetOverlapping returns every record intersecting [from, to], in insertion
// order.
func (r *GormUnavailabilityRepository) GetOverlapping(ctx context.Context, from, to time.Time) ([]models.Unavailability, error) {
	var list []models.Unavailability
	err := r.db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("id").
		Find(&list).Error
	return list, err
}

// Replace deletes the record and inserts its replacement atomically.
func (r *GormUnavailabilityRepository) Replace(ctx context.Context, id uint, u *models.Unavailability) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Unavailability{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		u.ID = 0
		return tx.Create(u).Error
	})
}

func (r *GormUnavailabilityRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Unavailability{}, id).Error
}
