package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/carpool/internal/flagx"
	"github.com/dmitrijs2005/carpool/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Intervals may
// be strings like "3s" or integer nanoseconds.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	RequestTimeout      timex.Duration `json:"request_timeout"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// parseJson overlays cfg with the file named by -c or -config. Keys absent
// from the file keep their current values.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	jc := JsonConfig{
		ServerURL:           cfg.ServerURL,
		RequestTimeout:      timex.Duration{Duration: cfg.RequestTimeout},
		OnlineCheckInterval: timex.Duration{Duration: cfg.OnlineCheckInterval},
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	cfg.ServerURL = jc.ServerURL
	cfg.RequestTimeout = jc.RequestTimeout.Duration
	cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	return nil
}
