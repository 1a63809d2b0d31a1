package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/persistence/mappers"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/persistence/models"
	"github.com/Tatu1984/hrms-sub001/internal/shared/db"
)

// ActivityLogRepository persists activity entries. It deliberately has no
// update or delete methods.
type ActivityLogRepository struct {
	db     *gorm.DB
	mapper mappers.AttendanceMapper
}

func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{
		db:     db,
		mapper: mappers.NewAttendanceMapper(),
	}
}

func (r *ActivityLogRepository) Append(ctx context.Context, e *attendance.ActivityEntry) error {
	model := r.mapper.EntryToModel(e)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to append activity entry: %w", err)
	}

	return e.SetID(model.ID)
}

func (r *ActivityLogRepository) CountIdle(ctx context.Context, sessionID uint, source attendance.Source) (int64, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.Model(&models.ActivityLogModel{}).
		Where("session_id = ? AND active = ? AND source = ?", sessionID, false, string(source)).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count idle activity entries: %w", err)
	}

	return count, nil
}

func (r *ActivityLogRepository) ListBySession(ctx context.Context, sessionID uint) ([]*attendance.ActivityEntry, error) {
	var list []models.ActivityLogModel
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.
		Where("session_id = ?", sessionID).
		Order("recorded_at ASC, id ASC").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list activity entries: %w", err)
	}

	entries := make([]*attendance.ActivityEntry, 0, len(list))
	for i := range list {
		e, err := r.mapper.EntryToDomain(&list[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
