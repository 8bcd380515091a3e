package config

import "errors"

// Domain errors for configuration handling.
var (
	// ErrConfigNotFound indicates the configuration file does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidFormat indicates the file could not be parsed.
	ErrInvalidFormat = errors.New("invalid config format")

	// ErrUnsupportedFormat indicates an unrecognized file extension.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrValidation indicates the configuration failed validation.
	ErrValidation = errors.New("config validation failed")

	// ErrMissingEnv indicates a referenced environment variable is not set.
	ErrMissingEnv = errors.New("referenced environment variable not set")
)
