package http

import (
	"gorm.io/gorm"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/repository"
	shareddb "github.com/Tatu1984/hrms-sub001/internal/shared/db"
)

type repositories struct {
	sessionRepo  attendance.SessionRepository
	activityRepo attendance.ActivityLogRepository
	txMgr        shareddb.Transactor
}

func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		sessionRepo:  repository.NewAttendanceSessionRepository(db),
		activityRepo: repository.NewActivityLogRepository(db),
		txMgr:        shareddb.NewTransactionManager(db),
	}
}
