package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Upstream UpstreamConfig
	Watcher  WatcherConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port     int
	Host     string
	UseHTTPS bool
	CertFile string
	KeyFile  string
}

// DatabaseConfig - настройки подключения к БД
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	Name     string
	User     string
	Password string
	SSLMode  string
}

// UpstreamConfig - адреса внешних сервисов
type UpstreamConfig struct {
	// APIBase - базовый URL аналитического бэкенда (новости, обзоры рынка).
	// Читается один раз на старте процесса.
	APIBase string

	// BinanceBase - базовый URL ценового API Binance
	BinanceBase string
}

// WatcherConfig - настройки цикла опроса цен
type WatcherConfig struct {
	// PollInterval - пауза между циклами опроса.
	// Следующий цикл планируется только после завершения предыдущего,
	// поэтому при медленной сети циклы не накапливаются.
	PollInterval time.Duration

	// FetchTimeout - таймаут одного запроса цены.
	// Зависший запрос по одному символу не должен задерживать цикл бесконечно.
	FetchTimeout time.Duration

	// Rate limit для запросов к ценовому API
	RequestsPerSecond float64
	RequestBurst      float64
}

// SecurityConfig - настройки безопасности
type SecurityConfig struct {
	// APIKeyHash - bcrypt-хеш ключа для мутирующих endpoints.
	// Пустое значение отключает проверку (development).
	APIKeyHash string
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
	Output string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:     getEnvAsInt("SERVER_PORT", 8080),
			Host:     getEnv("SERVER_HOST", "0.0.0.0"),
			UseHTTPS: getEnvAsBool("USE_HTTPS", false),
			CertFile: getEnv("CERT_FILE", ""),
			KeyFile:  getEnv("KEY_FILE", ""),
		},
		Database: DatabaseConfig{
			Driver:   getEnv("DB_DRIVER", "postgres"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			Name:     getEnv("DB_NAME", "oraclex"),
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Upstream: UpstreamConfig{
			APIBase:     getEnv("API_BASE", "http://localhost:5000"),
			BinanceBase: getEnv("BINANCE_BASE", "https://api.binance.com"),
		},
		Watcher: WatcherConfig{
			PollInterval:      getEnvAsDuration("POLL_INTERVAL", 30*time.Second),
			FetchTimeout:      getEnvAsDuration("FETCH_TIMEOUT", 10*time.Second),
			RequestsPerSecond: getEnvAsFloat("PRICE_RPS", 10),
			RequestBurst:      getEnvAsFloat("PRICE_BURST", 20),
		},
		Security: SecurityConfig{
			APIKeyHash: getEnv("API_KEY_HASH", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			Output: getEnv("LOG_OUTPUT", ""),
		},
	}

	// Валидация числовых диапазонов
	if err := cfg.validateRanges(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateRanges проверяет числовые диапазоны параметров
func (c *Config) validateRanges() error {
	// Валидация портов
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("DB_PORT must be between 1 and 65535, got %d", c.Database.Port)
	}

	if c.Upstream.APIBase == "" {
		return fmt.Errorf("API_BASE cannot be empty")
	}

	if c.Watcher.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %v", c.Watcher.PollInterval)
	}

	// Таймаут запроса не должен превышать интервал опроса:
	// иначе один зависший запрос съедает следующий цикл целиком
	if c.Watcher.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive, got %v", c.Watcher.FetchTimeout)
	}
	if c.Watcher.FetchTimeout > c.Watcher.PollInterval {
		return fmt.Errorf("FETCH_TIMEOUT (%v) must not exceed POLL_INTERVAL (%v)",
			c.Watcher.FetchTimeout, c.Watcher.PollInterval)
	}

	if c.Watcher.RequestsPerSecond <= 0 {
		return fmt.Errorf("PRICE_RPS must be positive, got %v", c.Watcher.RequestsPerSecond)
	}

	return nil
}

// DSN возвращает строку подключения к базе данных
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// DSNWithoutPassword возвращает строку подключения без пароля (для логирования)
func (d DatabaseConfig) DSNWithoutPassword() string {
	return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.SSLMode)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
