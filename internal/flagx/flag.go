// Package flagx lets several loaders share one command line. Each loader
// picks out only the flags it owns, so a flag set never fails on flags
// registered elsewhere.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// name strips one or two leading dashes, so "-c" and "--c" compare equal.
func name(arg string) string {
	return strings.TrimPrefix(strings.TrimPrefix(arg, "-"), "-")
}

// FilterArgs keeps only the allowed flags from args, together with their
// values. Both "-flag value" and "-flag=value" forms are understood, and a
// single or double leading dash is accepted for every allowed name.
//
//	FilterArgs([]string{"-c", "vault.json", "-x", "1"}, []string{"c"})
//	// -> []string{"-c", "vault.json"}
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[name(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if flagName, _, ok := strings.Cut(arg, "="); ok {
			if _, ok := allowed[name(flagName)]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[name(arg)]; !ok {
			continue
		}
		filtered = append(filtered, arg)
		// A following token that is not itself a flag is this flag's value.
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}
	return filtered
}

// ConfigFile returns the JSON config path given with -c or -config, or ""
// when neither is present. Later occurrences win.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"c", "config"}))

	return path
}
