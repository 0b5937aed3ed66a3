// Package flagx pre-scans command-line arguments so that several loaders
// (config sources, the shell itself) can each parse only the flags they own.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps only the flags named in allowed, together with their
// values. Both "-f value" and "-f=value" forms are recognised; a following
// token that starts with '-' is never consumed as a value.
func FilterArgs(args []string, allowed []string) []string {
	names := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		names[f] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := names[name]; keep {
				out = append(out, arg)
			}
			continue
		}

		if _, keep := names[arg]; !keep {
			continue
		}
		out = append(out, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

// Sources names the optional configuration files given on the command line.
type Sources struct {
	JSON   string // -c / -config
	DotEnv string // -env
}

// SourceFlags extracts -c/-config and -env from args (usually os.Args[1:]).
// When a flag is repeated the last occurrence wins.
func SourceFlags(args []string) Sources {
	var s Sources

	fs := flag.NewFlagSet("sources", flag.ContinueOnError)
	fs.StringVar(&s.JSON, "config", "", "path to JSON config file")
	fs.StringVar(&s.JSON, "c", "", "path to JSON config file (short)")
	fs.StringVar(&s.DotEnv, "env", "", "path to .env file")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "-env"}))

	return s
}
