package http

import (
	adminHandlers "github.com/Tatu1984/hrms-sub001/internal/interfaces/http/handlers/admin"
	attendanceHandlers "github.com/Tatu1984/hrms-sub001/internal/interfaces/http/handlers/attendance"
)

type allHandlers struct {
	attendance      *attendanceHandlers.Handler
	adminAttendance *adminHandlers.AttendanceHandler
}

func (c *Container) newHandlers() *allHandlers {
	u := c.ucs
	return &allHandlers{
		attendance: attendanceHandlers.NewHandler(
			u.punchIn,
			u.punchOut,
			u.heartbeat,
			u.today,
			u.activity,
			c.log,
		),
		adminAttendance: adminHandlers.NewAttendanceHandler(u.recompute, u.backfill, c.log),
	}
}
