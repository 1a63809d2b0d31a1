package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/config"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/database"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/migration"
	"github.com/Tatu1984/hrms-sub001/internal/interfaces/cli/bootstrap"
	httpRouter "github.com/Tatu1984/hrms-sub001/internal/interfaces/http"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

var (
	env                string
	configPath         string
	autoMigrate        bool
	skipMigrationCheck bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the attendance HTTP server: punch in/out, heartbeat ingestion and work-hours administration.`,
		RunE:  run,
	}

	bootstrap.RegisterFlags(cmd.Flags(), &env, &configPath)
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply pending migrations on startup")
	cmd.Flags().BoolVar(&skipMigrationCheck, "skip-migration-check", false, "Skip migration status check on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	env = bootstrap.ResolveEnv(env)

	cfg, log, err := bootstrap.InitWithDatabase(env, configPath)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	log.Infow("starting server",
		"environment", env,
		"auto_migrate", autoMigrate,
		"timezone", cfg.Server.Timezone,
	)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, nuHandlers int) {}

	if err := handleMigrations(cfg, log); err != nil {
		return fmt.Errorf("migration handling failed: %w", err)
	}

	router, err := httpRouter.NewRouter(database.Get(), nil, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}
	defer router.Shutdown()
	router.SetupRoutes()

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("server starting",
			"address", cfg.Server.GetAddr(),
			"mode", cfg.Server.Mode,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

func handleMigrations(cfg *config.Config, log logger.Interface) error {
	if skipMigrationCheck {
		log.Infow("skipping migration check")
		return nil
	}

	manager, err := migration.NewManager(migration.StrategyGoose, cfg.Database.Driver, log)
	if err != nil {
		return err
	}

	if autoMigrate {
		if env == "production" {
			log.Warnw("auto-migration is enabled in production environment")
		}
		return manager.Migrate(database.Get())
	}

	versioned, err := manager.Versioned()
	if err != nil {
		return err
	}

	version, err := versioned.GetVersion(database.Get())
	if err != nil {
		log.Warnw("failed to check migration status", "error", err)
		return nil
	}
	log.Infow("current migration version", "version", version)

	return nil
}
