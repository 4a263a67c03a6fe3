package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envRefPattern matches ${env://NAME} and ${env://NAME:-default}.
var envRefPattern = regexp.MustCompile(`\$\{env://([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// MissingEnvError lists variables referenced without a default that were
// unset or empty.
type MissingEnvError struct {
	Names []string
}

func (e *MissingEnvError) Error() string {
	return fmt.Sprintf("environment variable substitution failed: required variables not set: %s",
		strings.Join(e.Names, ", "))
}

// ExpandEnv replaces ${env://NAME} references in content using the process
// environment.
func ExpandEnv(content string) (string, error) {
	return ExpandEnvWith(content, os.LookupEnv)
}

// ExpandEnvWith is ExpandEnv with an explicit lookup function. An empty value
// counts as unset, so the default (if any) is used.
func ExpandEnvWith(content string, lookup func(string) (string, bool)) (string, error) {
	var missing []string

	result := envRefPattern.ReplaceAllStringFunc(content, func(ref string) string {
		m := envRefPattern.FindStringSubmatch(ref)
		name := m[1]
		hasDefault := strings.Contains(ref, ":-")

		if v, ok := lookup(name); ok && v != "" {
			return v
		}
		if hasDefault {
			return m[2]
		}
		missing = append(missing, name)
		return ref
	})

	if len(missing) > 0 {
		return "", &MissingEnvError{Names: missing}
	}
	return result, nil
}

// HasEnvRefs reports whether content contains any ${env://...} reference.
func HasEnvRefs(content string) bool {
	return envRefPattern.MatchString(content)
}
