package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/carpool/internal/flagx"
	"github.com/dmitrijs2005/carpool/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations use
// timex.Duration, so both "30s" and integer nanoseconds are accepted.
type JsonConfig struct {
	HTTPAddr        string         `json:"http_addr"`
	ReadTimeout     timex.Duration `json:"read_timeout"`
	WriteTimeout    timex.Duration `json:"write_timeout"`
	IdleTimeout     timex.Duration `json:"idle_timeout"`
	ShutdownTimeout timex.Duration `json:"shutdown_timeout"`

	DatabaseDriver  string         `json:"database_driver"`
	DatabaseDSN     string         `json:"database_dsn"`
	RunMigrations   bool           `json:"run_migrations"`
	StoreRetries    int            `json:"store_retries"`
	StoreRetryDelay timex.Duration `json:"store_retry_delay"`

	SecretKey           string         `json:"secret_key"`
	AccessTokenValidity timex.Duration `json:"access_token_validity"`
	RequireAuth         bool           `json:"require_auth"`

	RedisAddr     string         `json:"redis_addr"`
	RedisPassword string         `json:"redis_password"`
	RedisDB       int            `json:"redis_db"`
	CacheTTL      timex.Duration `json:"cache_ttl"`

	KafkaBrokers []string `json:"kafka_brokers"`
	KafkaTopic   string   `json:"kafka_topic"`

	LogLevel string `json:"log_level"`
}

// parseJson overlays the file named by -c or -config onto config. Keys that
// are absent from the file keep their current values.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := toJson(config)
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	fromJson(config, c)
	return nil
}

func toJson(c *Config) *JsonConfig {
	return &JsonConfig{
		HTTPAddr:            c.HTTPAddr,
		ReadTimeout:         timex.Duration{Duration: c.ReadTimeout},
		WriteTimeout:        timex.Duration{Duration: c.WriteTimeout},
		IdleTimeout:         timex.Duration{Duration: c.IdleTimeout},
		ShutdownTimeout:     timex.Duration{Duration: c.ShutdownTimeout},
		DatabaseDriver:      c.DatabaseDriver,
		DatabaseDSN:         c.DatabaseDSN,
		RunMigrations:       c.RunMigrations,
		StoreRetries:        c.StoreRetries,
		StoreRetryDelay:     timex.Duration{Duration: c.StoreRetryDelay},
		SecretKey:           c.SecretKey,
		AccessTokenValidity: timex.Duration{Duration: c.AccessTokenValidity},
		RequireAuth:         c.RequireAuth,
		RedisAddr:           c.RedisAddr,
		RedisPassword:       c.RedisPassword,
		RedisDB:             c.RedisDB,
		CacheTTL:            timex.Duration{Duration: c.CacheTTL},
		KafkaBrokers:        c.KafkaBrokers,
		KafkaTopic:          c.KafkaTopic,
		LogLevel:            c.LogLevel,
	}
}

func fromJson(config *Config, c *JsonConfig) {
	config.HTTPAddr = c.HTTPAddr
	config.ReadTimeout = time.Duration(c.ReadTimeout.Duration)
	config.WriteTimeout = time.Duration(c.WriteTimeout.Duration)
	config.IdleTimeout = time.Duration(c.IdleTimeout.Duration)
	config.ShutdownTimeout = time.Duration(c.ShutdownTimeout.Duration)
	config.DatabaseDriver = c.DatabaseDriver
	config.DatabaseDSN = c.DatabaseDSN
	config.RunMigrations = c.RunMigrations
	config.StoreRetries = c.StoreRetries
	config.StoreRetryDelay = time.Duration(c.StoreRetryDelay.Duration)
	config.SecretKey = c.SecretKey
	config.AccessTokenValidity = time.Duration(c.AccessTokenValidity.Duration)
	config.RequireAuth = c.RequireAuth
	config.RedisAddr = c.RedisAddr
	config.RedisPassword = c.RedisPassword
	config.RedisDB = c.RedisDB
	config.CacheTTL = time.Duration(c.CacheTTL.Duration)
	config.KafkaBrokers = c.KafkaBrokers
	config.KafkaTopic = c.KafkaTopic
	config.LogLevel = c.LogLevel
}
