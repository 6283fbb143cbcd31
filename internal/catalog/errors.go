package catalog

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidRecord marks a raw record that cannot become a Book.
	ErrInvalidRecord = errors.New("invalid catalog record")

	// ErrConfiguration is returned when the manager is initialized with unusable settings.
	ErrConfiguration = errors.New("invalid catalog configuration")

	// ErrNotFound is returned by Lookup when no source record carries the id.
	ErrNotFound = errors.New("book not found")

	// ErrNotReady is returned by operations invoked before Initialize.
	ErrNotReady = errors.New("catalog not initialized")
)

// InvalidRecordError describes why a raw record was rejected.
type InvalidRecordError struct {
	ID     string
	Fields []string
}

func (e *InvalidRecordError) Error() string {
	if e == nil {
		return ""
	}
	missing := strings.Join(e.Fields, ", ")
	if e.ID != "" {
		return fmt.Sprintf("invalid catalog record %q: missing %s", e.ID, missing)
	}
	return fmt.Sprintf("invalid catalog record: missing %s", missing)
}

// Unwrap allows errors.Is(err, ErrInvalidRecord).
func (e *InvalidRecordError) Unwrap() error {
	return ErrInvalidRecord
}

// ConfigurationError reports a rejected page size.
type ConfigurationError struct {
	PageSize int
}

func (e *ConfigurationError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invalid catalog configuration: page size must be positive, got %d", e.PageSize)
}

// Unwrap allows errors.Is(err, ErrConfiguration).
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}
