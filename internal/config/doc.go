// Package config handles configuration loading, parsing, and validation
// from defaults, an optional YAML file and ANSWERNOTE_* environment variables.
// It provides type-safe access to the logging and storage settings the
// engines are wired with.
package config
