package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the carpool CLI.
//
// Fields:
//   - ServerURL: base URL of the carpool HTTP API.
//   - RequestTimeout: upper bound for a single API call.
//   - OnlineCheckInterval: how often the CLI probes server reachability.
type Config struct {
	ServerURL           string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 5 * time.Second
}

// Load applies defaults, then the JSON file named by -c/-config, then the
// command-line flags in args. Later sources take precedence.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig is Load over the process arguments.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}
