// Package bootstrap performs the start-up steps shared by every command:
// configuration, logging and the business timezone.
package bootstrap

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"

	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/config"
	"github.com/Tatu1984/hrms-sub001/internal/infrastructure/database"
	"github.com/Tatu1984/hrms-sub001/internal/shared/biztime"
	"github.com/Tatu1984/hrms-sub001/internal/shared/constants"
	"github.com/Tatu1984/hrms-sub001/internal/shared/logger"
)

// RegisterFlags adds the --env and --config flags every command accepts.
func RegisterFlags(fs *pflag.FlagSet, env, configPath *string) {
	fs.StringVarP(env, "env", "e", constants.EnvDevelopment, "Environment (development, test, production)")
	fs.StringVarP(configPath, "config", "c", "", "Path to config file (default: ./configs/config.yaml)")
}

// ResolveEnv lets the ENV variable override the --env flag.
func ResolveEnv(flagValue string) string {
	if envVar := os.Getenv("ENV"); envVar != "" {
		return envVar
	}
	return flagValue
}

// GinMode maps a deployment environment onto a gin mode.
func GinMode(environment string) string {
	switch environment {
	case constants.EnvProduction, "prod", gin.ReleaseMode:
		return gin.ReleaseMode
	case constants.EnvTest, "testing":
		return gin.TestMode
	default:
		return gin.DebugMode
	}
}

// Init loads configuration and initializes the logger and business timezone.
func Init(env, configPath string) (*config.Config, logger.Interface, error) {
	cfg, err := config.Load(env, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.Server.Mode = GinMode(env)

	if err := logger.Init(&cfg.Logger, cfg.Server.Mode); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	return cfg, logger.NewLogger(), nil
}

// InitWithDatabase runs Init and opens the process-wide database connection.
// Callers must defer database.Close.
func InitWithDatabase(env, configPath string) (*config.Config, logger.Interface, error) {
	cfg, log, err := Init(env, configPath)
	if err != nil {
		return nil, nil, err
	}

	if err := database.Init(&cfg.Database); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return cfg, log, nil
}
