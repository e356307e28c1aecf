// Package envutil provides helper functions for environment variable handling.
package envutil

import (
	"os"
	"strings"
)

// LookupFunc resolves an environment variable. It matches the signature of os.LookupEnv
// so tests can substitute a map-backed lookup.
type LookupFunc func(key string) (string, bool)

// OS returns the process environment lookup.
func OS() LookupFunc {
	return os.LookupEnv
}

// FromMap returns a LookupFunc backed by a fixed map.
func FromMap(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}

// Get returns the trimmed value of key and whether it is set to a non-empty value.
// Example: Get(lookup, "APP_ENV") returns ("prod", true) when APP_ENV=prod
func Get(lookup LookupFunc, key string) (string, bool) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	value, ok := lookup(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}
	return value, true
}

// GetOr returns the value of key, or fallback when it is unset or blank.
func GetOr(lookup LookupFunc, key, fallback string) string {
	if value, ok := Get(lookup, key); ok {
		return value
	}
	return fallback
}

// Set sets a process-level environment variable, ignoring blank values.
// Example: Set("APP_ENV", "production") sets APP_ENV=production
func Set(key, value string) {
	if strings.TrimSpace(value) == "" {
		return
	}
	_ = os.Setenv(key, value)
}
