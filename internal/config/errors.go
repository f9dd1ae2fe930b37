package config

import "github.com/pkg/errors"

var (
	// ErrInvalidConfig is returned when loaded values fail validation.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig is returned when a config source cannot be read.
	ErrLoadConfig = errors.New("load config")
)
