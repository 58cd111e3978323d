package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/scheduling"
)

var (
	ErrReadConfig    = errors.New("config: failed to read file")
	ErrInvalidConfig = errors.New("config: invalid value")
)

// Config конфигурация сервиса
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Logs      LogsConfig      `toml:"logs"`
	Metrics   MetricsConfig   `toml:"metrics"`
	Schedule  ScheduleConfig  `toml:"schedule"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"` // пусто - только stdout
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ScheduleConfig рабочие часы и параметры записи
type ScheduleConfig struct {
	OpenHour               int    `toml:"open_hour"`
	CloseHour              int    `toml:"close_hour"`
	LunchStartHour         int    `toml:"lunch_start_hour"`
	LunchEndHour           int    `toml:"lunch_end_hour"`
	SlotMinutes            int    `toml:"slot_minutes"`
	DefaultServiceMinutes  int    `toml:"default_service_minutes"`
	TransactionTimeoutSecs int    `toml:"transaction_timeout"`
	Timezone               string `toml:"timezone"` // имя из базы IANA, "Local" - зона хоста
}

// RateLimitConfig ограничение частоты запросов с одного IP
type RateLimitConfig struct {
	Enabled           bool    `toml:"enabled"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	VisitorTTL        int     `toml:"visitor_ttl"` // секунды
}

// Default возвращает конфигурацию по умолчанию
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     10,
			WriteTimeout:    10,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			DBName:          "appointments",
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Enabled:     true,
			Path:        "/metrics",
			ServiceName: "appointment-service",
		},
		Schedule: ScheduleConfig{
			OpenHour:               domain.DefaultOpenHour,
			CloseHour:              domain.DefaultCloseHour,
			LunchStartHour:         domain.DefaultLunchStartHour,
			LunchEndHour:           domain.DefaultLunchEndHour,
			SlotMinutes:            domain.DefaultSlotMinutes,
			DefaultServiceMinutes:  domain.DefaultServiceDurationMinutes,
			TransactionTimeoutSecs: 5,
			Timezone:               "Local",
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
			VisitorTTL:        180,
		},
	}
}

// Переменные окружения, перекрывающие значения из файла
const (
	EnvHTTPPort   = "APP_HTTP_PORT"
	EnvDBHost     = "APP_DB_HOST"
	EnvDBPort     = "APP_DB_PORT"
	EnvDBUser     = "APP_DB_USER"
	EnvDBPassword = "APP_DB_PASSWORD"
	EnvDBName     = "APP_DB_NAME"
	EnvLogLevel   = "APP_LOG_LEVEL"
	EnvTimezone   = "APP_TIMEZONE"
)

const dotEnvFile = ".env"

// Load читает конфигурацию из TOML файла поверх значений по умолчанию
// Затем применяет переменные окружения (включая .env из рабочей директории, если он есть)
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := loadDotEnv(dotEnvFile); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadDotEnv подгружает переменные из файла; отсутствие файла не ошибка
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrReadConfig, path, err)
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		EnvDBHost:     &c.Database.Host,
		EnvDBUser:     &c.Database.User,
		EnvDBPassword: &c.Database.Password,
		EnvDBName:     &c.Database.DBName,
		EnvLogLevel:   &c.Logs.Level,
		EnvTimezone:   &c.Schedule.Timezone,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		EnvHTTPPort: &c.Server.HTTPPort,
		EnvDBPort:   &c.Database.Port,
	}
	for key, dst := range ints {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, key, v)
		}
		*dst = n
	}

	return nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port=%d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" {
		return fmt.Errorf("%w: database.host and database.dbname are required", ErrInvalidConfig)
	}
	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}
	hours, err := c.Schedule.Hours()
	if err != nil {
		return err
	}
	if err := hours.Validate(); err != nil {
		return fmt.Errorf("%w: schedule: %v", ErrInvalidConfig, err)
	}
	if c.Schedule.SlotMinutes <= 0 {
		return fmt.Errorf("%w: schedule.slot_minutes=%d", ErrInvalidConfig, c.Schedule.SlotMinutes)
	}
	if c.Schedule.TransactionTimeoutSecs < 0 {
		return fmt.Errorf("%w: schedule.transaction_timeout=%d", ErrInvalidConfig, c.Schedule.TransactionTimeoutSecs)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0 || c.RateLimit.VisitorTTL <= 0) {
		return fmt.Errorf("%w: rate_limit requires positive requests_per_second, burst and visitor_ttl", ErrInvalidConfig)
	}
	return nil
}

// DSN строка подключения к PostgreSQL
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// Hours рабочие часы для scheduling.NewBusinessHours
// Все проверки часов выполняются в зоне Timezone, пустое значение - зона хоста
func (s ScheduleConfig) Hours() (scheduling.HoursConfig, error) {
	loc := time.Local
	if s.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(s.Timezone); err != nil {
			return scheduling.HoursConfig{}, fmt.Errorf("%w: schedule.timezone=%q: %v", ErrInvalidConfig, s.Timezone, err)
		}
	}

	return scheduling.HoursConfig{
		OpenHour:       s.OpenHour,
		CloseHour:      s.CloseHour,
		LunchStartHour: s.LunchStartHour,
		LunchEndHour:   s.LunchEndHour,
		Location:       loc,
	}, nil
}

// TransactionTimeout таймаут одной операции записи
func (s ScheduleConfig) TransactionTimeout() time.Duration {
	return time.Duration(s.TransactionTimeoutSecs) * time.Second
}
