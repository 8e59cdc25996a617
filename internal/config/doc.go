// Package config loads and validates the YAML settings file.
package config
