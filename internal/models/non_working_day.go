package models

import (
	"time"

	"availability-bot/internal/holidays"
)

// NonWorkingDay is a company-wide day off loaded from a file.
type NonWorkingDay struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Date      time.Time `gorm:"type:date;uniqueIndex" json:"date"`
	Year      int       `gorm:"index" json:"year"`
	Month     int       `gorm:"index" json:"month"`
	Day       int       `json:"day"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (d *NonWorkingDay) Holiday() holidays.Holiday {
	name := d.Name
	if name == "" {
		name = "Company day off"
	}
	return holidays.Holiday{
		Date: time.Date(d.Date.Year(), d.Date.Month(), d.Date.Day(), 0, 0, 0, 0, time.UTC),
		Name: name,
	}
}
