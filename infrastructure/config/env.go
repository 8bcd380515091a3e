package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/vigil-agent/vigil/domain/config"
)

var envPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}`)

// expand replaces ${VAR} and ${VAR:-default} references with values
// from the process environment. Unset variables without a default
// become empty strings, or an error when strict is set.
func expand(input string, strict bool) (string, error) {
	var missing []string

	result := envPattern.ReplaceAllStringFunc(input, func(match string) string {
		inner := match[2 : len(match)-1]
		name, fallback, hasFallback := strings.Cut(inner, ":-")

		value, ok := os.LookupEnv(name)
		if ok && value != "" {
			return value
		}
		if hasFallback {
			return fallback
		}
		if strict {
			missing = append(missing, name)
		}
		return ""
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("%w: %s", config.ErrMissingEnv, strings.Join(missing, ", "))
	}
	return result, nil
}
