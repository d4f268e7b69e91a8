package config

import "errors"

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config")
	ErrDataDirEmpty       = errors.New("data_dir cannot be empty")
	ErrCooldownInvalid    = errors.New("cooldown_ms must be positive")
	ErrPollInvalid        = errors.New("poll_ms must be positive")
	ErrLogLevelInvalid    = errors.New("unknown log_level")
)
