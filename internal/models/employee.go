package models

import (
	"strings"
	"time"

	"availability-bot/internal/availability"
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

const (
	DefaultCountryCode = "ES"
	DefaultTimeZoneID  = "Europe/Madrid"

	// PlaceholderDomain is used for managers created from a bare chat ID.
	PlaceholderDomain = "telegram.local"
)

type Employee struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName string    `json:"display_name"`
	CountryCode string    `gorm:"type:varchar(2);default:'ES'" json:"country_code"`
	TimeZoneID  string    `gorm:"default:'Europe/Madrid'" json:"time_zone_id"`
	ManagerID   *uint     `gorm:"index" json:"manager_id,omitempty"`
	Role        Role      `gorm:"type:varchar(16);default:'employee'" json:"role"`
	ChatID      *int64    `gorm:"uniqueIndex" json:"chat_id,omitempty"`

	Manager *Employee `gorm:"foreignKey:ManagerID;constraint:OnDelete:SET NULL" json:"-"`
}

func (Employee) TableName() string {
	return "employees"
}

// IsManager reports whether the employee may decide requests.
func (e *Employee) IsManager() bool {
	return e.Role == RoleManager
}

// HasMailbox reports whether e-mail can be delivered to the employee.
func (e *Employee) HasMailbox() bool {
	return strings.TrimSpace(e.Email) != "" && !strings.HasSuffix(e.Email, "@"+PlaceholderDomain)
}

// Name is the display name, or one derived from the e-mail.
func (e *Employee) Name() string {
	return availability.DisplayName(e.Email, e.DisplayName)
}

func (e *Employee) Directory() availability.Employee {
	return availability.Employee{
		Email:       e.Email,
		DisplayName: e.DisplayName,
		CountryCode: e.CountryCode,
	}
}

// Directory converts a list of employees into resolver input.
func Directory(employees []*Employee) []availability.Employee {
	out := make([]availability.Employee, 0, len(employees))
	for _, e := range employees {
		out = append(out, e.Directory())
	}
	return out
}
