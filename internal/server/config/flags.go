package config

import (
	"flag"
	"io"
	"strings"

	"github.com/dmitrijs2005/carpool/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
// Supported flags:
//
//	-a string      HTTP bind address (e.g. ":8080")
//	-driver string database driver, "postgres" or "sqlite"
//	-d string      database DSN
//	-s string      JWT HMAC secret key
//	-t duration    access token validity (e.g. "24h")
//	-require-auth  require bearer tokens on mutating actions
//	-migrate       run schema migrations on start
//	-retries int   extra attempts on transient store failures
//	-retry-delay duration
//	-redis string  Redis address for the ride listing cache
//	-cache-ttl duration
//	-kafka string  comma separated Kafka brokers for ledger events
//	-topic string  Kafka topic
//	-l string      log level
//
// Only the flags above are picked out of args with flagx.FilterArgs, so the
// config file flag and anything else on the command line is ignored here.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args,
		[]string{"-a", "-driver", "-d", "-s", "-t", "-retries", "-retry-delay",
			"-redis", "-cache-ttl", "-kafka", "-topic", "-l", "-require-auth", "-migrate"},
		"-require-auth", "-migrate")

	fs := flag.NewFlagSet("carpool-server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver (postgres or sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.AccessTokenValidity, "t", config.AccessTokenValidity, "access token validity")
	fs.BoolVar(&config.RequireAuth, "require-auth", config.RequireAuth, "require bearer tokens on mutating actions")
	fs.BoolVar(&config.RunMigrations, "migrate", config.RunMigrations, "run schema migrations on start")
	fs.IntVar(&config.StoreRetries, "retries", config.StoreRetries, "retries on transient store failures")
	fs.DurationVar(&config.StoreRetryDelay, "retry-delay", config.StoreRetryDelay, "delay between store retries")
	fs.StringVar(&config.RedisAddr, "redis", config.RedisAddr, "redis address for the ride cache")
	fs.DurationVar(&config.CacheTTL, "cache-ttl", config.CacheTTL, "ride cache ttl")
	brokers := fs.String("kafka", strings.Join(config.KafkaBrokers, ","), "kafka brokers, comma separated")
	fs.StringVar(&config.KafkaTopic, "topic", config.KafkaTopic, "kafka topic for ledger events")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if b := flagx.SplitList(*brokers); len(b) > 0 {
		config.KafkaBrokers = b
	}
	return nil
}
