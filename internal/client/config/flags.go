package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/carpool/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags:
//
//	-a string    base URL of the carpool server
//	-timeout duration
//	-i duration  online check interval
//
// Only these flags are picked out of args with flagx.FilterArgs.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-timeout", "-i"})

	fs := flag.NewFlagSet("carpool-cli", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the carpool server")
	fs.DurationVar(&cfg.RequestTimeout, "timeout", cfg.RequestTimeout, "request timeout")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "online check interval")

	return fs.Parse(args)
}
