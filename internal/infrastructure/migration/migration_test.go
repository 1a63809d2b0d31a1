package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestGooseStrategy_SQLiteUpAndDown(t *testing.T) {
	db := openSQLite(t)
	s := NewGooseStrategy("sqlite", logger.NewNop())

	require.NoError(t, s.Migrate(db))
	assert.True(t, db.Migrator().HasTable("attendance_sessions"))
	assert.True(t, db.Migrator().HasTable("attendance_activity_logs"))

	version, err := s.GetVersion(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	// Re-running is a no-op.
	require.NoError(t, s.Migrate(db))

	require.NoError(t, s.MigrateDown(db, 1))
	assert.False(t, db.Migrator().HasTable("attendance_sessions"))
}

func TestGooseStrategy_CascadeDeletesActivity(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, NewGooseStrategy("sqlite", logger.NewNop()).Migrate(db))

	require.NoError(t, db.Exec(
		"INSERT INTO attendance_sessions (id, employee_id, work_date, status) VALUES (1, 7, ?, 'PRESENT')",
		time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC),
	).Error)
	require.NoError(t, db.Exec(
		"INSERT INTO attendance_activity_logs (session_id, recorded_at, active) VALUES (1, ?, 0)",
		time.Date(2025, 3, 11, 4, 0, 0, 0, time.UTC),
	).Error)

	require.NoError(t, db.Exec("DELETE FROM attendance_sessions WHERE id = 1").Error)

	var count int64
	require.NoError(t, db.Table("attendance_activity_logs").Count(&count).Error)
	assert.Zero(t, count)
}

func TestNewManager(t *testing.T) {
	m, err := NewManager("", "sqlite", logger.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "goose", m.GetStrategy().GetName())

	_, err = m.Versioned()
	assert.NoError(t, err)

	_, err = NewManager(StrategyGolangMigrate, "sqlite", logger.NewNop())
	assert.Error(t, err)

	auto, err := NewManager(StrategyAutoMigrate, "sqlite", logger.NewNop())
	require.NoError(t, err)
	_, err = auto.Versioned()
	assert.Error(t, err)

	_, err = NewManager("flyway", "mysql", logger.NewNop())
	assert.Error(t, err)
}

func TestGormAutoMigrateStrategy(t *testing.T) {
	db := openSQLite(t)
	require.NoError(t, NewGormAutoMigrateStrategy(logger.NewNop()).Migrate(db))
	assert.True(t, db.Migrator().HasIndex("attendance_sessions", "idx_employee_work_date"))
}

func TestGenerator_CreateMigration(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, logger.NewNop())
	g.now = func() time.Time { return time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC) }

	require.NoError(t, g.CreateMigration("add_break_reason"))

	up, err := os.ReadFile(filepath.Join(dir, "20250311090000_add_break_reason.up.sql"))
	require.NoError(t, err)
	assert.Contains(t, string(up), "add_break_reason")
	_, err = os.Stat(filepath.Join(dir, "20250311090000_add_break_reason.down.sql"))
	assert.NoError(t, err)

	assert.Error(t, g.CreateMigration(""))
}
