// Package flagx lets several components share os.Args by parsing only the
// flags each of them owns.
package flagx

import (
	"flag"
	"strings"
)

// FilterArgs keeps only the flags listed in valueFlags or boolFlags, in their
// original order, and drops everything else.
//
// Value flags accept "-f value" and "-f=value". The token following a value
// flag is treated as its value unless it starts with '-'. Bool flags never
// consume the following token; "-f=false" is kept as is.
func FilterArgs(args []string, valueFlags []string, boolFlags ...string) []string {
	kinds := make(map[string]bool, len(valueFlags)+len(boolFlags))
	for _, f := range valueFlags {
		kinds[f] = true
	}
	for _, f := range boolFlags {
		kinds[f] = false
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		if name, _, found := strings.Cut(arg, "="); found {
			if _, ok := kinds[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		takesValue, ok := kinds[arg]
		if !ok {
			continue
		}
		filtered = append(filtered, arg)
		if takesValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

// ConfigFileFlag returns the value of -c / -config found in args, or "" when
// neither is present. The last occurrence wins.
func ConfigFileFlag(args []string) string {
	var path string

	fs := flag.NewFlagSet("config-file", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}
