// Package flagx lets several independent flag sets share one command line.
// Each consumer picks out only the flags it owns and parses them with its own
// flag.FlagSet, so unknown flags never abort parsing.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// Select returns the subset of args that belongs to the named flags, keeping
// their order. Both "-name value" and "-name=value" forms are recognised. A
// separate value is taken only when the next token does not start with '-'.
// The result is never nil.
func Select(args []string, names ...string) []string {
	owned := make(map[string]bool, len(names))
	for _, n := range names {
		owned[n] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, found := strings.Cut(arg, "="); found {
			if owned[name] {
				out = append(out, arg)
			}
			continue
		}

		if !owned[arg] {
			continue
		}
		out = append(out, arg)
		if next := i + 1; next < len(args) && !strings.HasPrefix(args[next], "-") {
			out = append(out, args[next])
			i = next
		}
	}
	return out
}

// ConfigPath extracts the JSON config file path given with -c or -config.
// The last occurrence wins; an empty string means no file was requested.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (shorthand)")
	_ = fs.Parse(Select(args, "-c", "-config"))

	return path
}
