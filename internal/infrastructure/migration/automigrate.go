package migration

import (
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/persistence/models"
)

// attendanceModels lists the GORM models the automigrate strategy creates,
// parents before children so the activity log foreign key resolves.
func attendanceModels() []any {
	return []any{
		&models.AttendanceSessionModel{},
		&models.ActivityLogModel{},
	}
}
