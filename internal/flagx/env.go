package flagx

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// The Env* setters overwrite target only when the variable is set and
// non-blank. Parse failures are appended to errs so a loader can report all
// of them at once with errors.Join.

func EnvString(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}

func EnvDuration(target *time.Duration, key string, errs *[]error) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = d
	}
}

func EnvInt(target *int, key string, errs *[]error) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = i
	}
}

func EnvBool(target *bool, key string, errs *[]error) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			*errs = append(*errs, fmt.Errorf("invalid %s: %w", key, err))
			return
		}
		*target = b
	}
}

func EnvList(target *[]string, key string) {
	if v := os.Getenv(key); strings.TrimSpace(v) != "" {
		*target = SplitList(v)
	}
}

// SplitList splits a comma separated list, dropping blanks.
func SplitList(v string) []string {
	raw := strings.Split(v, ",")
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}
