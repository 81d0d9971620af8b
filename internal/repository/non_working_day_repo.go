package repository

import (
	"context"
	"time"

	"availability-bot/internal/models"

	"gorm.io/gorm"
)

type NonWorkingDayRepository interface {
	GetByYear(ctx context.Context, year int) ([]models.NonWorkingDay, error)
	GetByYearMonth(ctx context.Context, year, month int) ([]models.NonWorkingDay, error)
	IsNonWorkingDay(ctx context.Context, date time.Time) (bool, error)
	// ReplaceAll drops every stored day and stores days instead.
	ReplaceAll(ctx context.Context, days []models.NonWorkingDay) error
}

type GormNonWorkingDayRepository struct {
	db *gorm.DB
}

func NewGormNonWorkingDayRepository(db *gorm.DB) (NonWorkingDayRepository, error) {
	if err := db.AutoMigrate(&models.NonWorkingDay{}); err != nil {
		return nil, err
	}

	return &GormNonWorkingDayRepository{db: db}, nil
}

func (r *GormNonWorkingDayRepository) ReplaceAll(ctx context.Context, days []models.NonWorkingDay) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM non_working_days").Error; err != nil {
			return err
		}
		if len(days) == 0 {
			return nil
		}
		return tx.Create(&days).Error
	})
}

func (r *GormNonWorkingDayRepository) GetByYear(ctx context.Context, year int) ([]models.NonWorkingDay, error) {
	var days []models.NonWorkingDay
	err := r.db.WithContext(ctx).Where("year = ?", year).Order("date").Find(&days).Error
	return days, err
}

func (r *GormNonWorkingDayRepository) GetByYearMonth(ctx context.Context, year, month int) ([]models.NonWorkingDay, error) {
	var days []models.NonWorkingDay
	err := r.db.WithContext(ctx).Where("year = ? AND month = ?", year, month).Order("date").Find(&days).Error
	return days, err
}

func (r *GormNonWorkingDayRepository) IsNonWorkingDay(ctx context.Context, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.NonWorkingDay{}).
		Where("year = ? AND month = ? AND day = ?", date.Year(), int(date.Month()), date.Day()).
		Count(&count).Error
	return count > 0, err
}
