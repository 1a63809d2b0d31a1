package mappers

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/Tatu1984/hrms-sub001/internal/domain/attendance"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/persistence/models"
)

// AttendanceMapper converts between attendance domain entities and persistence models.
type AttendanceMapper interface {
	SessionToModel(s *attendance.Session) *models.AttendanceSessionModel
	SessionToDomain(model *models.AttendanceSessionModel) (*attendance.Session, error)
	SessionsToDomain(list []models.AttendanceSessionModel) ([]*attendance.Session, error)
	EntryToModel(e *attendance.ActivityEntry) *models.ActivityLogModel
	EntryToDomain(model *models.ActivityLogModel) (*attendance.ActivityEntry, error)
}

type AttendanceMapperImpl struct{}

func NewAttendanceMapper() AttendanceMapper {
	return &AttendanceMapperImpl{}
}

func (m *AttendanceMapperImpl) SessionToModel(s *attendance.Session) *models.AttendanceSessionModel {
	return &models.AttendanceSessionModel{
		ID:         s.ID(),
		EmployeeID: s.EmployeeID(),
		WorkDate:   s.WorkDate().UTC(),
		PunchInAt:  utcPtr(s.PunchInAt()),
		PunchOutAt: utcPtr(s.PunchOutAt()),
		BreakHours: s.BreakHours(),
		IdleHours:  s.IdleHours(),
		WorkHours:  s.WorkHours(),
		Status:     s.Status().String(),
		CreatedAt:  s.CreatedAt(),
		UpdatedAt:  s.UpdatedAt(),
	}
}

func (m *AttendanceMapperImpl) SessionToDomain(model *models.AttendanceSessionModel) (*attendance.Session, error) {
	if model == nil {
		return nil, nil
	}

	s, err := attendance.ReconstructSession(
		model.ID,
		model.EmployeeID,
		model.WorkDate.UTC(),
		utcPtr(model.PunchInAt),
		utcPtr(model.PunchOutAt),
		model.BreakHours,
		model.IdleHours,
		model.WorkHours,
		attendance.Status(model.Status),
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct attendance session %d: %w", model.ID, err)
	}
	return s, nil
}

func (m *AttendanceMapperImpl) SessionsToDomain(list []models.AttendanceSessionModel) ([]*attendance.Session, error) {
	sessions := make([]*attendance.Session, 0, len(list))
	for i := range list {
		s, err := m.SessionToDomain(&list[i])
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (m *AttendanceMapperImpl) EntryToModel(e *attendance.ActivityEntry) *models.ActivityLogModel {
	var meta datatypes.JSONMap
	if len(e.Metadata()) > 0 {
		meta = datatypes.JSONMap(e.Metadata())
	}
	return &models.ActivityLogModel{
		ID:            e.ID(),
		SessionID:     e.SessionID(),
		RecordedAt:    e.RecordedAt().UTC(),
		Active:        e.Active(),
		Suspicious:    e.Suspicious(),
		PatternType:   e.PatternType(),
		PatternDetail: e.PatternDetail(),
		Source:        string(e.Source()),
		Metadata:      meta,
	}
}

func (m *AttendanceMapperImpl) EntryToDomain(model *models.ActivityLogModel) (*attendance.ActivityEntry, error) {
	if model == nil {
		return nil, nil
	}

	e, err := attendance.ReconstructActivityEntry(
		model.ID,
		model.SessionID,
		model.RecordedAt.UTC(),
		model.Active,
		model.Suspicious,
		model.PatternType,
		model.PatternDetail,
		attendance.Source(model.Source),
		map[string]interface{}(model.Metadata),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct activity entry %d: %w", model.ID, err)
	}
	return e, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
