// Package config loads Chronos configuration from a YAML file, a .env
// file, and the process environment, in that order of precedence (later
// sources win). Each consuming package defines its own Config struct with
// ApplyDefaults and Validate; this package only finds, merges, and
// unmarshals the sources.
package config
