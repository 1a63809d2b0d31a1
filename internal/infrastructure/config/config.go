package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	sharedConfig "github.com/Tatu1984/hrms-sub001/internal/shared/config"
)

type Config struct {
	Server     sharedConfig.ServerConfig     `mapstructure:"server"`
	Database   sharedConfig.DatabaseConfig   `mapstructure:"database"`
	Logger     sharedConfig.LoggerConfig     `mapstructure:"logger"`
	Auth       sharedConfig.AuthConfig       `mapstructure:"auth"`
	Redis      sharedConfig.RedisConfig      `mapstructure:"redis"`
	Email      sharedConfig.EmailConfig      `mapstructure:"email"`
	Attendance sharedConfig.AttendanceConfig `mapstructure:"attendance"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load loads configuration from an optional .env file, the YAML config file and
// HRMS_* environment variables, in increasing order of precedence.
// A missing config file is not an error; defaults apply.
func Load(env string, configPath ...string) (*Config, error) {
	// .env only seeds the process environment; real env vars win.
	_ = godotenv.Load()

	v := viper.New()
	if len(configPath) > 0 && configPath[0] != "" {
		v.SetConfigFile(configPath[0])
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath("../configs")
		v.AddConfigPath("../../configs")
	}

	v.SetEnvPrefix("HRMS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if env != "" && env != "default" {
		v.Set("server.mode", env)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.timezone", "Asia/Kolkata")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.username", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.database", "hrms_dev")
	v.SetDefault("database.path", "hrms.db")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 100)
	v.SetDefault("database.conn_max_lifetime", 60)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output_path", "stdout")

	v.SetDefault("auth.jwt.secret", "change-me-in-production")
	v.SetDefault("auth.jwt.access_exp_minutes", 720)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("email.enabled", false)
	v.SetDefault("email.smtp_host", "localhost")
	v.SetDefault("email.smtp_port", 1025)
	v.SetDefault("email.from_address", "noreply@hrms.local")
	v.SetDefault("email.from_name", "HRMS Attendance")

	v.SetDefault("attendance.heartbeat_interval_minutes", 3)
	v.SetDefault("attendance.activity_window_minutes", 5)
	v.SetDefault("attendance.idle_grace_hours", 1.0)
	v.SetDefault("attendance.update_tolerance_hours", 0.01)
	v.SetDefault("attendance.half_day_threshold_hours", 4.0)
	v.SetDefault("attendance.alert_cooldown_minutes", 30)
	v.SetDefault("attendance.heartbeat_rate_limit", 30)
	v.SetDefault("attendance.backfill_concurrency", 4)
	v.SetDefault("attendance.backfill_batch_size", 200)
	v.SetDefault("attendance.backfill_cron", "30 2 * * *")
	v.SetDefault("attendance.backfill_lookback_days", 2)
	v.SetDefault("attendance.min_client_version", "")
}
