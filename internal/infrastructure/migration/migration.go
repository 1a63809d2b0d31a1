package migration

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

const (
	StrategyGoose         = "goose"
	StrategyGolangMigrate = "golang-migrate"
	StrategyAutoMigrate   = "automigrate"
)

// Manager handles database migrations with the selected strategy.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks a strategy by name. An empty name selects goose.
// golang-migrate only supports MySQL.
func NewManager(name, driver string, log logger.Interface) (*Manager, error) {
	var strategy Strategy
	switch strings.ToLower(name) {
	case "", StrategyGoose:
		strategy = NewGooseStrategy(driver, log)
	case StrategyGolangMigrate:
		if gooseDialect(driver) != "mysql" {
			return nil, fmt.Errorf("strategy %s requires mysql, got %s", name, driver)
		}
		strategy = NewGolangMigrateStrategy(log)
	case StrategyAutoMigrate:
		strategy = NewGormAutoMigrateStrategy(log)
	default:
		return nil, fmt.Errorf("unknown migration strategy %q", name)
	}

	return NewManagerWithStrategy(strategy, log), nil
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.GetName(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

// Versioned returns the strategy when it supports rollback and versioning.
func (m *Manager) Versioned() (VersionedStrategy, error) {
	v, ok := m.strategy.(VersionedStrategy)
	if !ok {
		return nil, fmt.Errorf("strategy %s does not support versioned operations", m.strategy.GetName())
	}
	return v, nil
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
