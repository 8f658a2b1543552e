// Package flagx helps several configuration layers share one command line
// and one environment: each layer picks out only the flags and variables it
// owns.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs returns the subset of args made of flags named in allowed,
// together with their values. Both "-f value" and "-f=value" forms are kept.
// Flags listed in bools are switches and never consume the next argument.
func FilterArgs(args []string, allowed []string, bools ...string) []string {
	known := make(map[string]bool, len(allowed)+len(bools))
	for _, f := range allowed {
		known[f] = false
	}
	for _, f := range bools {
		known[f] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, ok := strings.Cut(arg, "="); ok {
			if _, keep := known[name]; keep {
				out = append(out, arg)
			}
			continue
		}

		isBool, keep := known[arg]
		if !keep {
			continue
		}
		out = append(out, arg)
		if !isBool && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// ConfigPath extracts the JSON config file path given with -c or -config.
// It returns "" when neither is present.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.SetOutput(discard{})
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
