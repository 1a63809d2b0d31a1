package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
)

// ActivityLogModel represents one append-only activity log row.
// The foreign key to attendance_sessions (ON DELETE CASCADE) is declared in
// the SQL migrations; GORM associations are intentionally not mapped.
type ActivityLogModel struct {
	ID            uint      `gorm:"primarykey"`
	SessionID     uint      `gorm:"not null;index:idx_activity_session_idle,priority:1;index:idx_activity_session_time,priority:1"`
	RecordedAt    time.Time `gorm:"not null;index:idx_activity_session_time,priority:2"`
	Active        bool      `gorm:"not null;index:idx_activity_session_idle,priority:2"`
	Suspicious    bool      `gorm:"not null;default:false"`
	PatternType   string    `gorm:"size:64"`
	PatternDetail string    `gorm:"size:512"`
	Source        string    `gorm:"not null;size:16;default:client;index:idx_activity_session_idle,priority:3"`
	Metadata      datatypes.JSONMap
	CreatedAt     time.Time
}

// TableName specifies the table name for GORM
func (ActivityLogModel) TableName() string {
	return constants.TableActivityLogs
}
