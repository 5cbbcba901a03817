// Пакет config - загрузка и валидация конфигурации SymmetricDS Dashboard
// из переменных окружения (префикс SD_).
package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Поддерживаемые драйверы БД репликации.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// EnvDevelopment - окружение, в котором клиенту возвращаются детали ошибок 500.
const EnvDevelopment = "development"

// Config содержит все параметры конфигурации сервиса.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Окружение (production, development)
	Env string

	// --- База данных SymmetricDS ---

	// Драйвер: postgres или mysql
	DBDriver string
	// Хост БД
	DBHost string
	// Порт БД (по умолчанию 5432 для postgres, 3306 для mysql)
	DBPort int
	// Имя базы данных
	DBName string
	// Пользователь БД
	DBUser string
	// Пароль БД
	DBPassword string
	// Режим SSL (только postgres)
	DBSSLMode string
	// Максимальное число соединений в пуле
	DBMaxConns int
	// Префикс таблиц SymmetricDS (по умолчанию sym)
	TablePrefix string

	// --- Мониторинг репликации ---

	// Максимум строк в списках батчей и данных батча
	BatchLimit int
	// Порог heartbeat, после которого узел считается OFFLINE
	DeadNodeThreshold time.Duration
	// Порог медленного запроса (0 - отключено)
	SlowQueryThreshold time.Duration

	// --- Кэш конфигурации движка ---

	// TTL кэша /api/engine/config (0 - кэш отключён)
	ConfigCacheTTL time.Duration
	// Максимальное число записей кэша
	ConfigCacheSize int

	// --- OpenAPI ---

	// Валидация входящих запросов по OpenAPI-контракту
	OpenAPIValidation bool

	// --- Dephealth ---

	// Группа в метриках topologymetrics
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- HTTP Server Timeouts ---

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration

	// --- Graceful shutdown ---

	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения.
// Возвращает ошибку, если обязательные переменные не заданы
// или значения некорректны.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// SD_PORT - порт HTTP-сервера (по умолчанию 8040)
	cfg.Port, err = getEnvInt("SD_PORT", 8040)
	if err != nil {
		return nil, fmt.Errorf("SD_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("SD_PORT: значение %d вне диапазона 1-65535", cfg.Port)
	}

	// SD_LOG_LEVEL - уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("SD_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("SD_LOG_LEVEL: %w", err)
	}

	// SD_LOG_FORMAT - формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("SD_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("SD_LOG_FORMAT: недопустимый формат %q, допустимые: json, text", cfg.LogFormat)
	}

	// SD_ENV - окружение (по умолчанию production)
	cfg.Env = strings.ToLower(getEnvDefault("SD_ENV", "production"))

	// --- База данных ---

	// SD_DB_DRIVER - postgres или mysql (по умолчанию postgres)
	cfg.DBDriver = strings.ToLower(getEnvDefault("SD_DB_DRIVER", DriverPostgres))
	var defaultPort int
	switch cfg.DBDriver {
	case DriverPostgres:
		defaultPort = 5432
	case DriverMySQL:
		defaultPort = 3306
	default:
		return nil, fmt.Errorf("SD_DB_DRIVER: недопустимый драйвер %q, допустимые: postgres, mysql", cfg.DBDriver)
	}

	// SD_DB_HOST - обязательный
	cfg.DBHost, err = getEnvRequired("SD_DB_HOST")
	if err != nil {
		return nil, err
	}

	// SD_DB_PORT - порт БД (по умолчанию зависит от драйвера)
	cfg.DBPort, err = getEnvInt("SD_DB_PORT", defaultPort)
	if err != nil {
		return nil, fmt.Errorf("SD_DB_PORT: %w", err)
	}

	// SD_DB_NAME - имя базы (по умолчанию symmetric)
	cfg.DBName = getEnvDefault("SD_DB_NAME", "symmetric")

	// SD_DB_USER - обязательный
	cfg.DBUser, err = getEnvRequired("SD_DB_USER")
	if err != nil {
		return nil, err
	}

	// SD_DB_PASSWORD - обязательный
	cfg.DBPassword, err = getEnvRequired("SD_DB_PASSWORD")
	if err != nil {
		return nil, err
	}

	// SD_DB_SSL_MODE - режим SSL для postgres (по умолчанию disable)
	cfg.DBSSLMode = getEnvDefault("SD_DB_SSL_MODE", "disable")
	validSSLModes := map[string]bool{
		"disable": true, "require": true, "verify-ca": true, "verify-full": true,
	}
	if !validSSLModes[cfg.DBSSLMode] {
		return nil, fmt.Errorf("SD_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
	}

	// SD_DB_MAX_CONNS - размер пула (по умолчанию 10)
	cfg.DBMaxConns, err = getEnvInt("SD_DB_MAX_CONNS", 10)
	if err != nil {
		return nil, fmt.Errorf("SD_DB_MAX_CONNS: %w", err)
	}
	if cfg.DBMaxConns < 1 {
		return nil, fmt.Errorf("SD_DB_MAX_CONNS: значение должно быть >= 1")
	}

	// SD_TABLE_PREFIX - префикс таблиц SymmetricDS (по умолчанию sym)
	cfg.TablePrefix = getEnvDefault("SD_TABLE_PREFIX", "sym")
	if !isIdentifier(cfg.TablePrefix) {
		return nil, fmt.Errorf("SD_TABLE_PREFIX: недопустимый префикс %q (допустимы латинские буквы, цифры и _)", cfg.TablePrefix)
	}

	// --- Мониторинг репликации ---

	// SD_BATCH_LIMIT - лимит строк (по умолчанию 100)
	cfg.BatchLimit, err = getEnvInt("SD_BATCH_LIMIT", 100)
	if err != nil {
		return nil, fmt.Errorf("SD_BATCH_LIMIT: %w", err)
	}
	if cfg.BatchLimit < 1 || cfg.BatchLimit > 1000 {
		return nil, fmt.Errorf("SD_BATCH_LIMIT: значение %d вне диапазона 1-1000", cfg.BatchLimit)
	}

	// SD_DEAD_NODE_THRESHOLD - порог heartbeat (по умолчанию 30m)
	cfg.DeadNodeThreshold, err = getEnvDuration("SD_DEAD_NODE_THRESHOLD", 30*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("SD_DEAD_NODE_THRESHOLD: %w", err)
	}
	if cfg.DeadNodeThreshold <= 0 {
		return nil, fmt.Errorf("SD_DEAD_NODE_THRESHOLD: значение должно быть > 0")
	}

	// SD_SLOW_QUERY_THRESHOLD - порог медленного запроса (по умолчанию 1s)
	cfg.SlowQueryThreshold, err = getEnvDuration("SD_SLOW_QUERY_THRESHOLD", time.Second)
	if err != nil {
		return nil, fmt.Errorf("SD_SLOW_QUERY_THRESHOLD: %w", err)
	}

	// --- Кэш конфигурации ---

	// SD_CONFIG_CACHE_TTL - TTL кэша (по умолчанию 30s, 0 - отключён)
	cfg.ConfigCacheTTL, err = getEnvDuration("SD_CONFIG_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SD_CONFIG_CACHE_TTL: %w", err)
	}
	if cfg.ConfigCacheTTL < 0 {
		return nil, fmt.Errorf("SD_CONFIG_CACHE_TTL: значение должно быть >= 0")
	}

	// SD_CONFIG_CACHE_SIZE - размер кэша (по умолчанию 16)
	cfg.ConfigCacheSize, err = getEnvInt("SD_CONFIG_CACHE_SIZE", 16)
	if err != nil {
		return nil, fmt.Errorf("SD_CONFIG_CACHE_SIZE: %w", err)
	}
	if cfg.ConfigCacheSize < 1 {
		return nil, fmt.Errorf("SD_CONFIG_CACHE_SIZE: значение должно быть >= 1")
	}

	// SD_OPENAPI_VALIDATION - валидация запросов (по умолчанию true)
	cfg.OpenAPIValidation, err = getEnvBool("SD_OPENAPI_VALIDATION", true)
	if err != nil {
		return nil, fmt.Errorf("SD_OPENAPI_VALIDATION: %w", err)
	}

	// --- Dephealth ---

	cfg.DephealthGroup = getEnvDefault("SD_DEPHEALTH_GROUP", "symds")

	cfg.DephealthCheckInterval, err = getEnvDuration("SD_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SD_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- HTTP Server Timeouts ---

	cfg.HTTPReadTimeout, err = getEnvDuration("SD_HTTP_READ_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SD_HTTP_READ_TIMEOUT: %w", err)
	}

	cfg.HTTPWriteTimeout, err = getEnvDuration("SD_HTTP_WRITE_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SD_HTTP_WRITE_TIMEOUT: %w", err)
	}

	cfg.HTTPIdleTimeout, err = getEnvDuration("SD_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SD_HTTP_IDLE_TIMEOUT: %w", err)
	}

	// --- Graceful shutdown ---

	cfg.ShutdownTimeout, err = getEnvDuration("SD_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("SD_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DevMode сообщает, включён ли режим разработки.
func (c *Config) DevMode() bool {
	return c.Env == EnvDevelopment
}

// DatabaseDSN возвращает строку подключения для выбранного драйвера.
func (c *Config) DatabaseDSN() string {
	if c.DBDriver == DriverMySQL {
		mc := mysql.NewConfig()
		mc.User = c.DBUser
		mc.Passwd = c.DBPassword
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", c.DBHost, c.DBPort)
		mc.DBName = c.DBName
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN()
	}
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s pool_max_conns=%d",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode, c.DBMaxConns,
	)
}

// DatabaseURL возвращает URL БД без пароля (для лейблов dephealth).
func (c *Config) DatabaseURL() string {
	scheme := "postgresql"
	if c.DBDriver == DriverMySQL {
		scheme = "mysql"
	}
	u := url.URL{
		Scheme: scheme,
		User:   url.User(c.DBUser),
		Host:   fmt.Sprintf("%s:%d", c.DBHost, c.DBPort),
		Path:   "/" + c.DBName,
	}
	return u.String()
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// getEnvBool возвращает булево значение переменной окружения или значение по умолчанию.
func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("некорректное булево значение: %q (допустимые: true, false, 1, 0)", val)
	}
	return b, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}

// isIdentifier проверяет, что s состоит только из [A-Za-z0-9_] и не пуст.
// Префикс подставляется в SQL как часть имени таблицы.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return false
		}
	}
	return true
}
