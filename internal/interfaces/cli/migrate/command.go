package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/config"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/database"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/migration"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/cli/bootstrap"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

var (
	env        string
	configPath string
	strategy   string
	name       string
	steps      int
	version    int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Manage the attendance schema: apply or roll back migrations, check status, and create new migration files.`,
	}

	bootstrap.RegisterFlags(cmd.PersistentFlags(), &env, &configPath)
	cmd.PersistentFlags().StringVarP(&strategy, "strategy", "s", migration.StrategyGoose,
		"Migration strategy (goose, golang-migrate, automigrate)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
		newCreateCommand(),
		newForceCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Long:  `Apply all pending database migrations to bring the database schema up to date.`,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Long:  `Rollback a specified number of database migrations.`,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Long:  `Display the current migration version and status of the database.`,
		RunE:  runStatus,
	}
}

func newCreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new migration",
		Long:  `Create new migration files with the specified name. Must run from the repository root.`,
		RunE:  runCreate,
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Name of the migration (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newForceCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "force",
		Short: "Force the golang-migrate version",
		Long:  `Set the golang-migrate schema version and clear the dirty flag after a failed migration.`,
		RunE:  runForce,
	}

	cmd.Flags().IntVar(&version, "version", 0, "Version to force (required)")
	_ = cmd.MarkFlagRequired("version")

	return cmd
}

func initEnv(withDatabase bool) (*config.Config, *migration.Manager, logger.Interface, error) {
	env = bootstrap.ResolveEnv(env)

	setup := bootstrap.Init
	if withDatabase {
		setup = bootstrap.InitWithDatabase
	}

	cfg, log, err := setup(env, configPath)
	if err != nil {
		return nil, nil, nil, err
	}

	manager, err := migration.NewManager(strategy, cfg.Database.Driver, log)
	if err != nil {
		if withDatabase {
			database.Close()
		}
		return nil, nil, nil, err
	}

	return cfg, manager, log, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	_, manager, log, err := initEnv(true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("running up migrations", "environment", env, "strategy", strategy)

	if err := manager.Migrate(database.Get()); err != nil {
		return err
	}

	log.Infow("migrations completed successfully")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	_, manager, log, err := initEnv(true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	versioned, err := manager.Versioned()
	if err != nil {
		return err
	}

	log.Infow("running down migrations", "environment", env, "steps", steps)

	if err := versioned.MigrateDown(database.Get(), steps); err != nil {
		log.Errorw("down migration failed", "error", err)
		return fmt.Errorf("down migration failed: %w", err)
	}

	log.Infow("down migration completed successfully")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, manager, log, err := initEnv(true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	versioned, err := manager.Versioned()
	if err != nil {
		return err
	}

	current, err := versioned.GetVersion(database.Get())
	if err != nil {
		log.Errorw("failed to get migration version", "error", err)
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nMigration Status:\n")
	fmt.Fprintf(out, "  Environment:     %s\n", env)
	fmt.Fprintf(out, "  Driver:          %s\n", cfg.Database.Driver)
	fmt.Fprintf(out, "  Strategy:        %s\n", manager.GetStrategy().GetName())
	fmt.Fprintf(out, "  Current Version: %d\n", current)

	if gooseStrategy, ok := versioned.(*migration.GooseStrategy); ok {
		if err := gooseStrategy.Status(database.Get()); err != nil {
			log.Errorw("failed to get detailed status", "error", err)
			return fmt.Errorf("failed to get detailed status: %w", err)
		}
	}

	return nil
}

func runCreate(cmd *cobra.Command, args []string) error {
	_, manager, log, err := initEnv(false)
	if err != nil {
		return err
	}
	defer logger.Sync()

	versioned, err := manager.Versioned()
	if err != nil {
		return err
	}

	log.Infow("creating new migration", "name", name, "strategy", strategy)

	if err := versioned.Create(name); err != nil {
		log.Errorw("failed to create migration", "error", err)
		return fmt.Errorf("failed to create migration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Migration '%s' created successfully\n", name)
	return nil
}

func runForce(cmd *cobra.Command, args []string) error {
	_, manager, log, err := initEnv(true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	golangMigrate, ok := manager.GetStrategy().(*migration.GolangMigrateStrategy)
	if !ok {
		return fmt.Errorf("force is only supported with the %s strategy", migration.StrategyGolangMigrate)
	}

	log.Warnw("forcing migration version", "version", version)
	return golangMigrate.Force(database.Get(), version)
}
