// Package config загружает конфигурацию сервиса из переменных окружения
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config конфигурация сервера проверки контрагентов
type Config struct {
	// Сервер
	Port string `json:"port"`

	// Хранилище
	DataDir     string `json:"data_dir"`
	SwiftDBPath string `json:"swift_db_path"`
	UsersDBPath string `json:"users_db_path"`

	// Санкционный список
	SDNListURL    string        `json:"sdn_list_url"`
	SDNTimeout    time.Duration `json:"sdn_timeout"`
	SDNFetchDelay time.Duration `json:"sdn_fetch_delay"`

	// Реестр юридических лиц
	RegistryBaseURL    string        `json:"registry_base_url"`
	OrgInfoBaseURL     string        `json:"orginfo_base_url"`
	RegistryTimeout    time.Duration `json:"registry_timeout"`
	RegistryFetchDelay time.Duration `json:"registry_fetch_delay"`
	MaxOwnershipDepth  int           `json:"max_ownership_depth"`

	// Аутентификация
	JWTSecret string `json:"-"`

	// Логирование
	LogLevel string `json:"log_level"`
}

// LoadConfig загружает конфигурацию из переменных окружения
func LoadConfig() (*Config, error) {
	config := &Config{
		Port: getEnv("SERVER_PORT", "8000"),

		DataDir:     getEnv("DATA_DIR", "data"),
		SwiftDBPath: getEnv("SWIFT_DATABASE_PATH", "data/swift.db"),
		UsersDBPath: getEnv("USERS_DATABASE_PATH", "data/users.db"),

		SDNListURL:    getEnv("SDN_LIST_URL", "https://www.treasury.gov/ofac/downloads/sdn.xml"),
		SDNTimeout:    getEnvDuration("SDN_TIMEOUT", 30*time.Second),
		SDNFetchDelay: getEnvDuration("SDN_FETCH_DELAY", time.Second),

		RegistryBaseURL:    getEnv("REGISTRY_BASE_URL", "https://egrul.itsoft.ru"),
		OrgInfoBaseURL:     getEnv("ORGINFO_BASE_URL", "https://orginfo.uz"),
		RegistryTimeout:    getEnvDuration("REGISTRY_TIMEOUT", 15*time.Second),
		RegistryFetchDelay: getEnvDuration("REGISTRY_FETCH_DELAY", time.Second),
		MaxOwnershipDepth:  getEnvInt("MAX_OWNERSHIP_DEPTH", 5),

		JWTSecret: getEnv("JWT_SECRET", "dev-secret-change-me"),

		LogLevel: getEnv("LOG_LEVEL", "INFO"),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "port is required")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("invalid port: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("port must be between 1 and 65535, got %d", port))
		}
	}

	if c.DataDir == "" {
		errors = append(errors, "data dir is required")
	}
	if c.SwiftDBPath == "" {
		errors = append(errors, "swift database path is required")
	}
	if c.UsersDBPath == "" {
		errors = append(errors, "users database path is required")
	}

	if c.SDNListURL == "" {
		errors = append(errors, "sdn list url is required")
	}
	if c.SDNTimeout < time.Second {
		errors = append(errors, "sdn timeout must be at least 1 second")
	}

	if c.RegistryBaseURL == "" {
		errors = append(errors, "registry base url is required")
	}
	if c.OrgInfoBaseURL == "" {
		errors = append(errors, "orginfo base url is required")
	}
	if c.RegistryTimeout < time.Second {
		errors = append(errors, "registry timeout must be at least 1 second")
	}
	if c.MaxOwnershipDepth < 1 {
		errors = append(errors, "max ownership depth must be at least 1")
	}

	if c.JWTSecret == "" {
		errors = append(errors, "jwt secret is required")
	}

	validLogLevels := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if c.LogLevel != "" {
		valid := false
		logLevelUpper := strings.ToUpper(c.LogLevel)
		for _, level := range validLogLevels {
			if logLevelUpper == level {
				valid = true
				break
			}
		}
		if !valid {
			errors = append(errors, fmt.Sprintf("invalid log level: %s (valid: %s)",
				c.LogLevel, strings.Join(validLogLevels, ", ")))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation errors: %s", strings.Join(errors, "; "))
	}

	return nil
}

// SlogLevel переводит текстовый уровень в уровень slog
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv получает переменную окружения или возвращает значение по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int или возвращает значение по умолчанию
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как Duration или возвращает значение по умолчанию
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
