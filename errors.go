package gotcat

import (
	"errors"
	"fmt"
)

// ErrDirNotFound is wrapped by ConfigError when a configured directory is missing.
var ErrDirNotFound = errors.New("directory does not exist")

// ConfigError indicates invalid translator configuration, such as binding a
// domain to a directory that does not exist. It is never retried.
type ConfigError struct {
	Message string
	Path    string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := "config error: " + e.Message
	if e.Path != "" {
		msg += fmt.Sprintf(" (%s)", e.Path)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// SerializationError indicates a loaded catalog could not be encoded into a
// compiled snapshot. It signals a corrupt or unencodable translated value.
type SerializationError struct {
	Locale string
	Domain string
	Cause  error
}

func (e *SerializationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("serialization error (%s/%s): %v", e.Locale, e.Domain, e.Cause)
	}
	return fmt.Sprintf("serialization error (%s/%s)", e.Locale, e.Domain)
}

func (e *SerializationError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a cache backend operation failure.
type CacheError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the operation can be retried
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// LoadError indicates a catalog source file could not be read or parsed.
type LoadError struct {
	Domain string
	Path   string
	Cause  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load error (%s): %s: %v", e.Domain, e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
