package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

// Generator creates golang-migrate up/down script pairs.
type Generator struct {
	scriptsPath string
	logger      logger.Interface
	now         func() time.Time
}

func NewGenerator(scriptsPath string, log logger.Interface) *Generator {
	return &Generator{
		scriptsPath: scriptsPath,
		logger:      log.With("component", "migration.generator"),
		now:         time.Now,
	}
}

// CreateMigration writes <timestamp>_<name>.up.sql and .down.sql and returns
// nothing but an error; the file names are logged.
func (g *Generator) CreateMigration(name string) error {
	if name == "" {
		return fmt.Errorf("migration name is required")
	}

	timestamp := g.now().UTC().Format("20060102150405")
	upPath := filepath.Join(g.scriptsPath, fmt.Sprintf("%s_%s.up.sql", timestamp, name))
	downPath := filepath.Join(g.scriptsPath, fmt.Sprintf("%s_%s.down.sql", timestamp, name))

	if err := os.MkdirAll(g.scriptsPath, 0o755); err != nil {
		return fmt.Errorf("failed to create scripts directory: %w", err)
	}

	header := fmt.Sprintf("-- Migration: %s\n-- Created: %s\n\n", name, g.now().UTC().Format(time.DateTime))
	if err := os.WriteFile(upPath, []byte(header), 0o644); err != nil {
		return fmt.Errorf("failed to create up migration file: %w", err)
	}
	if err := os.WriteFile(downPath, []byte("-- Rollback "+header[3:]), 0o644); err != nil {
		return fmt.Errorf("failed to create down migration file: %w", err)
	}

	g.logger.Infow("migration files created successfully",
		"up_file", upPath,
		"down_file", downPath)
	return nil
}
