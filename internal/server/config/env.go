package config

import (
	"errors"

	"github.com/dmitrijs2005/carpool/internal/flagx"
)

// parseEnv overlays CARPOOL_* environment variables onto config. All parse
// failures are reported together.
func parseEnv(config *Config) error {
	var errs []error

	flagx.EnvString(&config.HTTPAddr, "CARPOOL_HTTP_ADDR")
	flagx.EnvDuration(&config.ReadTimeout, "CARPOOL_READ_TIMEOUT", &errs)
	flagx.EnvDuration(&config.WriteTimeout, "CARPOOL_WRITE_TIMEOUT", &errs)
	flagx.EnvDuration(&config.IdleTimeout, "CARPOOL_IDLE_TIMEOUT", &errs)
	flagx.EnvDuration(&config.ShutdownTimeout, "CARPOOL_SHUTDOWN_TIMEOUT", &errs)

	flagx.EnvString(&config.DatabaseDriver, "CARPOOL_DATABASE_DRIVER")
	flagx.EnvString(&config.DatabaseDSN, "CARPOOL_DATABASE_DSN")
	flagx.EnvBool(&config.RunMigrations, "CARPOOL_RUN_MIGRATIONS", &errs)
	flagx.EnvInt(&config.StoreRetries, "CARPOOL_STORE_RETRIES", &errs)
	flagx.EnvDuration(&config.StoreRetryDelay, "CARPOOL_STORE_RETRY_DELAY", &errs)

	flagx.EnvString(&config.SecretKey, "CARPOOL_SECRET_KEY")
	flagx.EnvDuration(&config.AccessTokenValidity, "CARPOOL_ACCESS_TOKEN_VALIDITY", &errs)
	flagx.EnvBool(&config.RequireAuth, "CARPOOL_REQUIRE_AUTH", &errs)

	flagx.EnvString(&config.RedisAddr, "CARPOOL_REDIS_ADDR")
	flagx.EnvString(&config.RedisPassword, "CARPOOL_REDIS_PASSWORD")
	flagx.EnvInt(&config.RedisDB, "CARPOOL_REDIS_DB", &errs)
	flagx.EnvDuration(&config.CacheTTL, "CARPOOL_CACHE_TTL", &errs)

	flagx.EnvList(&config.KafkaBrokers, "CARPOOL_KAFKA_BROKERS")
	flagx.EnvString(&config.KafkaTopic, "CARPOOL_KAFKA_TOPIC")

	flagx.EnvString(&config.LogLevel, "CARPOOL_LOG_LEVEL")

	return errors.Join(errs...)
}
