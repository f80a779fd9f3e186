// Package flagx lets several components parse their own subset of the
// command line without tripping over each other's flags.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps only the flags named in allowed, together with their
// values. Both "-c file" and "-c=file" spellings are recognised; a value is
// taken from the next argument only when it does not itself look like a flag.
func FilterArgs(args []string, allowed []string) []string {
	kept, _ := splitArgs(args, allowed)
	return kept
}

// StripArgs is the complement of FilterArgs: it drops the flags named in
// known together with their values and returns everything else in order.
func StripArgs(args []string, known []string) []string {
	_, rest := splitArgs(args, known)
	return rest
}

func splitArgs(args []string, names []string) (kept, rest []string) {
	set := make(map[string]struct{}, len(names))
	for _, f := range names {
		set[f] = struct{}{}
	}

	kept = make([]string, 0, len(args))
	rest = make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]

		if name, _, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(arg, "-") {
			if _, keep := set[name]; keep {
				kept = append(kept, arg)
			} else {
				rest = append(rest, arg)
			}
			continue
		}

		if _, keep := set[arg]; !keep {
			rest = append(rest, arg)
			continue
		}
		kept = append(kept, arg)
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			kept = append(kept, args[i+1])
			i++
		}
	}

	return kept, rest
}

// ConfigFileFlag extracts the config file path given via -c or -config.
// It returns "" when neither flag is present.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file (JSON or YAML)")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config", "--config"}))

	return path
}
