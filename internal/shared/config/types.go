package config

import (
	"fmt"
	"time"
)

type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	Mode           string   `mapstructure:"mode"`
	Timezone       string   `mapstructure:"timezone"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig selects the GORM dialector. Driver is "mysql" (default) or
// "sqlite"; for sqlite only Path is used.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Username        string `mapstructure:"username"`
	Password        string `mapstructure:"password"`
	Database        string `mapstructure:"database"`
	Path            string `mapstructure:"path"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
}

func (d *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&collation=utf8mb4_general_ci&parseTime=true&loc=UTC&multiStatements=true",
		d.Username, d.Password, d.Host, d.Port, d.Database)
}

type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

type JWTConfig struct {
	Secret           string `mapstructure:"secret"`
	AccessExpMinutes int    `mapstructure:"access_exp_minutes"`
}

type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

func (r *RedisConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type EmailConfig struct {
	Enabled      bool     `mapstructure:"enabled"`
	SMTPHost     string   `mapstructure:"smtp_host"`
	SMTPPort     int      `mapstructure:"smtp_port"`
	SMTPUser     string   `mapstructure:"smtp_user"`
	SMTPPassword string   `mapstructure:"smtp_password"`
	FromAddress  string   `mapstructure:"from_address"`
	FromName     string   `mapstructure:"from_name"`
	AlertTo      []string `mapstructure:"alert_to"`
}

// AttendanceConfig holds the tunables of heartbeat accounting and the
// work-hours recalculator.
type AttendanceConfig struct {
	HeartbeatIntervalMinutes int     `mapstructure:"heartbeat_interval_minutes"`
	ActivityWindowMinutes    int     `mapstructure:"activity_window_minutes"`
	IdleGraceHours           float64 `mapstructure:"idle_grace_hours"`
	UpdateToleranceHours     float64 `mapstructure:"update_tolerance_hours"`
	HalfDayThresholdHours    float64 `mapstructure:"half_day_threshold_hours"`
	AlertCooldownMinutes     int     `mapstructure:"alert_cooldown_minutes"`
	HeartbeatRateLimit       int     `mapstructure:"heartbeat_rate_limit"`
	BackfillConcurrency      int     `mapstructure:"backfill_concurrency"`
	BackfillBatchSize        int     `mapstructure:"backfill_batch_size"`
	BackfillCron             string  `mapstructure:"backfill_cron"`
	BackfillLookbackDays     int     `mapstructure:"backfill_lookback_days"`
	MinClientVersion         string  `mapstructure:"min_client_version"`
}

func (a *AttendanceConfig) HeartbeatInterval() time.Duration {
	return time.Duration(a.HeartbeatIntervalMinutes) * time.Minute
}

func (a *AttendanceConfig) AlertCooldown() time.Duration {
	return time.Duration(a.AlertCooldownMinutes) * time.Minute
}
