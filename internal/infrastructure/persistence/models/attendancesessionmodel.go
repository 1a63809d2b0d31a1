package models

import (
	"time"

	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
)

// AttendanceSessionModel represents the database persistence model for attendance sessions.
// WorkDate is the UTC instant at which the business day starts.
type AttendanceSessionModel struct {
	ID         uint       `gorm:"primarykey"`
	EmployeeID uint       `gorm:"not null;uniqueIndex:idx_employee_work_date,priority:1"`
	WorkDate   time.Time  `gorm:"not null;uniqueIndex:idx_employee_work_date,priority:2;index:idx_work_date"`
	PunchInAt  *time.Time `gorm:"index:idx_punches,priority:1"`
	PunchOutAt *time.Time `gorm:"index:idx_punches,priority:2"`
	BreakHours float64    `gorm:"not null;default:0"`
	IdleHours  float64    `gorm:"not null;default:0"`
	WorkHours  float64    `gorm:"not null;default:0"`
	Status     string     `gorm:"not null;size:20;default:ABSENT;index"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName specifies the table name for GORM
func (AttendanceSessionModel) TableName() string {
	return constants.TableAttendanceSessions
}
