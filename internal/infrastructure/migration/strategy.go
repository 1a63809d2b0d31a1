package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

// Strategy defines the interface for different migration strategies
type Strategy interface {
	Migrate(db *gorm.DB) error
	GetName() string
}

// VersionedStrategy is a Strategy backed by numbered SQL scripts.
type VersionedStrategy interface {
	Strategy
	MigrateDown(db *gorm.DB, steps int) error
	GetVersion(db *gorm.DB) (int64, error)
	Create(name string) error
}

// GooseStrategy applies the embedded goose scripts for one SQL dialect.
type GooseStrategy struct {
	driver string
	logger logger.Interface
}

func NewGooseStrategy(driver string, log logger.Interface) *GooseStrategy {
	goose.SetBaseFS(scriptsFS)
	goose.SetLogger(&gooseLogger{log: log})
	return &GooseStrategy{
		driver: driver,
		logger: log.With("component", "migration.goose"),
	}
}

func (s *GooseStrategy) prepare(db *gorm.DB) (*sql.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := goose.SetDialect(gooseDialect(s.driver)); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return sqlDB, nil
}

func (s *GooseStrategy) Migrate(db *gorm.DB) error {
	sqlDB, err := s.prepare(db)
	if err != nil {
		return err
	}

	dir := gooseScriptsDir(s.driver)
	s.logger.Infow("starting goose migration", "scripts_dir", dir)

	currentVersion, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if err := goose.Up(sqlDB, dir); err != nil {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion)
	return nil
}

func (s *GooseStrategy) GetName() string {
	return "goose"
}

func (s *GooseStrategy) MigrateDown(db *gorm.DB, steps int) error {
	sqlDB, err := s.prepare(db)
	if err != nil {
		return err
	}

	for i := 0; i < steps; i++ {
		if err := goose.Down(sqlDB, gooseScriptsDir(s.driver)); err != nil {
			s.logger.Errorw("down migration failed", "error", err, "step", i+1)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}

	s.logger.Infow("down migration completed successfully", "steps", steps)
	return nil
}

func (s *GooseStrategy) GetVersion(db *gorm.DB) (int64, error) {
	sqlDB, err := s.prepare(db)
	if err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	return version, nil
}

// Status prints the applied/pending state of every script through the goose logger.
func (s *GooseStrategy) Status(db *gorm.DB) error {
	sqlDB, err := s.prepare(db)
	if err != nil {
		return err
	}

	if err := goose.Status(sqlDB, gooseScriptsDir(s.driver)); err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}
	return nil
}

// Create writes a new, empty goose script into the source tree. It must run
// from the repository root.
func (s *GooseStrategy) Create(name string) error {
	if err := goose.SetDialect(gooseDialect(s.driver)); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	goose.SetBaseFS(nil)
	defer goose.SetBaseFS(scriptsFS)

	dir := filepath.Join(SourceScriptsRoot, gooseScriptsDir(s.driver))
	if err := goose.Create(nil, dir, name, "sql"); err != nil {
		return fmt.Errorf("failed to create migration: %w", err)
	}

	s.logger.Infow("migration created successfully", "name", name, "dir", dir)
	return nil
}

// GolangMigrateStrategy applies the embedded golang-migrate scripts. MySQL only.
type GolangMigrateStrategy struct {
	logger logger.Interface
}

func NewGolangMigrateStrategy(log logger.Interface) *GolangMigrateStrategy {
	return &GolangMigrateStrategy{
		logger: log.With("component", "migration.golang-migrate"),
	}
}

func (s *GolangMigrateStrategy) newInstance(db *gorm.DB) (*migrate.Migrate, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	source, err := iofs.New(scriptsFS, golangMigrateScriptsRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded scripts: %w", err)
	}

	driver, err := mysql.WithInstance(sqlDB, &mysql.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create MySQL driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "mysql", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

func (s *GolangMigrateStrategy) Migrate(db *gorm.DB) error {
	m, err := s.newInstance(db)
	if err != nil {
		return err
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		s.logger.Warnw("database is in dirty state, please fix manually", "version", currentVersion)
		return fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get final migration version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion)
	return nil
}

func (s *GolangMigrateStrategy) GetName() string {
	return "golang_migrate"
}

func (s *GolangMigrateStrategy) MigrateDown(db *gorm.DB, steps int) error {
	m, err := s.newInstance(db)
	if err != nil {
		return err
	}

	if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		s.logger.Errorw("down migration failed", "error", err)
		return fmt.Errorf("failed to run down migrations: %w", err)
	}

	s.logger.Infow("down migration completed successfully", "steps", steps)
	return nil
}

func (s *GolangMigrateStrategy) GetVersion(db *gorm.DB) (int64, error) {
	m, err := s.newInstance(db)
	if err != nil {
		return 0, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get version: %w", err)
	}
	if dirty {
		return int64(version), fmt.Errorf("database is in dirty state at version %d", version)
	}
	return int64(version), nil
}

// Force sets the migration version and clears the dirty flag.
func (s *GolangMigrateStrategy) Force(db *gorm.DB, version int) error {
	m, err := s.newInstance(db)
	if err != nil {
		return err
	}

	if err := m.Force(version); err != nil {
		return fmt.Errorf("failed to force version: %w", err)
	}

	s.logger.Infow("forced migration version", "version", version)
	return nil
}

func (s *GolangMigrateStrategy) Create(name string) error {
	return NewGenerator(filepath.Join(SourceScriptsRoot, golangMigrateScriptsRoot), s.logger).CreateMigration(name)
}

// GormAutoMigrateStrategy creates tables from the GORM models. Development only:
// it does not create the activity log foreign key.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy(log logger.Interface) *GormAutoMigrateStrategy {
	return &GormAutoMigrateStrategy{logger: log.With("component", "migration.gorm-automigrate")}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(attendanceModels()...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	s.logger.Infow("auto-migration completed", "models", len(attendanceModels()))
	return nil
}

func (s *GormAutoMigrateStrategy) GetName() string {
	return "gorm_auto_migrate"
}

// gooseLogger routes goose output into the application logger.
type gooseLogger struct {
	log logger.Interface
}

func (l *gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Infow(fmt.Sprintf(format, v...), "component", "goose")
}

func (l *gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatalw(fmt.Sprintf(format, v...), "component", "goose")
}
