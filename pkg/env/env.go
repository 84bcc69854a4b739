// Package env reads the few process environment overrides that live outside
// the envconfig-managed configuration, such as a platform-injected PORT.
package env

import "os"

// Get looks up key, falling back when the variable is unset or empty.
func Get(key, fallback string) string {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return fallback
	}
	return val
}
