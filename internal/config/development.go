package config

import (
	"os"
	"strings"
)

// Development reports whether DEVELOPMENT is set to anything other than an
// off value ("", "0", "false", "no", "off").
func Development() bool {
	v, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}
