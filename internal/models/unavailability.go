package models

import (
	"time"

	"availability-bot/internal/availability"
)

// Unavailability is a self-declared period an employee cannot work. Kind is
// free text; the resolver normalises it.
type Unavailability struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EmployeeEmail string    `gorm:"not null;index" json:"employee_email"`
	Kind          string    `gorm:"type:varchar(64)" json:"kind"`
	StartDate     time.Time `gorm:"type:date;not null;index" json:"start_date"`
	EndDate       time.Time `gorm:"type:date;not null;index" json:"end_date"`
	IsHalfDay     bool      `json:"is_half_day"`
	HalfSegment   string    `gorm:"type:varchar(8)" json:"half_segment,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Unavailability) TableName() string {
	return "unavailabilities"
}

func (u *Unavailability) Record() availability.Record {
	return availability.Record{
		EmployeeEmail: u.EmployeeEmail,
		Kind:          u.Kind,
		Start:         u.StartDate,
		End:           u.EndDate,
		IsHalfDay:     u.IsHalfDay,
		HalfSegment:   u.HalfSegment,
	}
}

func Records(list []Unavailability) []availability.Record {
	out := make([]availability.Record, 0, len(list))
	for i := range list {
		out = append(out, list[i].Record())
	}
	return out
}
