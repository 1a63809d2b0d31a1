package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/persistence/mappers"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/persistence/models"
	"github.com/Tatu1984/hrms-sub001/internal/shared/db"
)

const defaultCompletedPageSize = 200

type AttendanceSessionRepository struct {
	db     *gorm.DB
	mapper mappers.AttendanceMapper
}

func NewAttendanceSessionRepository(db *gorm.DB) *AttendanceSessionRepository {
	return &AttendanceSessionRepository{
		db:     db,
		mapper: mappers.NewAttendanceMapper(),
	}
}

func (r *AttendanceSessionRepository) Create(ctx context.Context, s *attendance.Session) error {
	model := r.mapper.SessionToModel(s)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create attendance session: %w", err)
	}

	return s.SetID(model.ID)
}

func (r *AttendanceSessionRepository) GetByID(ctx context.Context, id uint) (*attendance.Session, error) {
	var model models.AttendanceSessionModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get attendance session: %w", err)
	}

	return r.mapper.SessionToDomain(&model)
}

func (r *AttendanceSessionRepository) FindByEmployeeAndDay(ctx context.Context, employeeID uint, dayStart, dayEnd time.Time) (*attendance.Session, error) {
	var model models.AttendanceSessionModel
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.
		Where("employee_id = ?", employeeID).
		Where("work_date >= ? AND work_date < ?", dayStart.UTC(), dayEnd.UTC()).
		Order("work_date DESC").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to find attendance session: %w", err)
	}

	return r.mapper.SessionToDomain(&model)
}

func (r *AttendanceSessionRepository) UpdatePunches(ctx context.Context, s *attendance.Session) error {
	model := r.mapper.SessionToModel(s)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.AttendanceSessionModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"punch_in_at":  model.PunchInAt,
			"punch_out_at": model.PunchOutAt,
			"status":       model.Status,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update attendance punches: %w", result.Error)
	}

	// Note: RowsAffected may be 0 when updated values are identical to existing values.
	return nil
}

func (r *AttendanceSessionRepository) UpdateAggregates(ctx context.Context, s *attendance.Session) error {
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.AttendanceSessionModel{}).
		Where("id = ?", s.ID()).
		Updates(map[string]interface{}{
			"idle_hours": s.IdleHours(),
			"work_hours": s.WorkHours(),
			"status":     s.Status().String(),
			"updated_at": s.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update attendance aggregates: %w", result.Error)
	}
	return nil
}

func (r *AttendanceSessionRepository) ListCompleted(ctx context.Context, filter attendance.CompletedSessionFilter) ([]*attendance.Session, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultCompletedPageSize
	}

	var list []models.AttendanceSessionModel
	tx := db.GetTxFromContext(ctx, r.db)

	err := tx.
		Scopes(
			db.Completed(),
			db.WorkDateWithin(filter.From.UTC(), filter.To.UTC()),
			db.AfterID(filter.AfterID, limit),
		).
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list completed attendance sessions: %w", err)
	}

	return r.mapper.SessionsToDomain(list)
}
