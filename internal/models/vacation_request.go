package models

import (
	"strings"
	"time"

	"availability-bot/internal/availability"
)

type RequestStatus string

const (
	StatusPending  RequestStatus = "Pending"
	StatusApproved RequestStatus = "Approved"
	StatusRejected RequestStatus = "Rejected"
)

// ParseRequestStatus accepts a status name in any letter case.
func ParseRequestStatus(s string) (RequestStatus, bool) {
	for _, st := range []RequestStatus{StatusPending, StatusApproved, StatusRejected} {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

type VacationRequest struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	EmployeeEmail string        `gorm:"not null;index" json:"employee_email"`
	From          time.Time     `gorm:"column:from_date;type:date;not null" json:"from"`
	To            time.Time     `gorm:"column:to_date;type:date;not null" json:"to"`
	Status        RequestStatus `gorm:"type:varchar(16);not null;index;default:'Pending'" json:"status"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	DecidedAt     *time.Time    `json:"decided_at,omitempty"`
	DecidedBy     *string       `json:"decided_by,omitempty"`
}

func (VacationRequest) TableName() string {
	return "vacation_requests"
}

func (r *VacationRequest) IsPending() bool {
	return r.Status == StatusPending
}

func (r *VacationRequest) Range() availability.VacationRange {
	return availability.VacationRange{EmployeeEmail: r.EmployeeEmail, From: r.From, To: r.To}
}

func VacationRanges(list []VacationRequest) []availability.VacationRange {
	out := make([]availability.VacationRange, 0, len(list))
	for i := range list {
		out = append(out, list[i].Range())
	}
	return out
}
