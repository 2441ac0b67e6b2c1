// Package errors provides custom error types for the lucro system.
// These errors let callers tell a failed upstream request from a corrupt
// local cache or a skipped catalog record, and keep the context needed
// for useful log lines.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is and As are re-exported so callers need a single errors import.
var (
	Is = errors.Is
	As = errors.As
)

// Common sentinel errors for the lucro system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrFetchFailed indicates an upstream catalog or price request failed
	ErrFetchFailed = errors.New("fetch failed")

	// ErrCacheCorrupt indicates a persisted snapshot file could not be parsed
	ErrCacheCorrupt = errors.New("cache corrupt")

	// ErrRecordSkipped indicates a raw catalog record was excluded from a batch
	ErrRecordSkipped = errors.New("record skipped")

	// ErrStartup indicates the core services could not be wired
	ErrStartup = errors.New("startup failed")

	// ErrTimeout indicates that an operation timed out
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimited indicates that the upstream rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// FetchError represents a failed upstream request: a bad status,
// a transport failure or a timeout.
type FetchError struct {
	Source     string // "catalog", "prices", "history"
	URL        string
	StatusCode int
	Message    string
	Timeout    bool
	Err        error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s from %s failed (status %d): %s", e.Source, e.URL, e.StatusCode, e.Message)
	case e.Timeout:
		return fmt.Sprintf("fetch %s from %s timed out: %s", e.Source, e.URL, e.Message)
	default:
		return fmt.Sprintf("fetch %s from %s failed: %s", e.Source, e.URL, e.Message)
	}
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrFetchFailed:
		return true
	case ErrTimeout:
		return e.Timeout
	case ErrRateLimited:
		return e.StatusCode == 429
	}
	return false
}

// NewFetchError creates a FetchError for a non-success status code
func NewFetchError(source, url string, statusCode int, message string) *FetchError {
	return &FetchError{
		Source:     source,
		URL:        url,
		StatusCode: statusCode,
		Message:    message,
	}
}

// WrapFetch wraps a transport error as a FetchError
func WrapFetch(source, url string, timeout bool, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{
		Source:  source,
		URL:     url,
		Message: err.Error(),
		Timeout: timeout,
		Err:     err,
	}
}

// CacheCorruptError represents a persisted snapshot file that exists but
// cannot be read or parsed. The store recovers from it with an empty mapping.
type CacheCorruptError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *CacheCorruptError) Error() string {
	return fmt.Sprintf("cache file %s is corrupt: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *CacheCorruptError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CacheCorruptError) Is(target error) bool {
	return target == ErrCacheCorrupt
}

// NewCacheCorruptError creates a new CacheCorruptError
func NewCacheCorruptError(path string, err error) *CacheCorruptError {
	return &CacheCorruptError{Path: path, Err: err}
}

// RecordSkippedError describes a raw catalog record left out of a batch.
type RecordSkippedError struct {
	Index  int
	ID     string
	Reason string
}

// Error implements the error interface
func (e *RecordSkippedError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("record %d (%s) skipped: %s", e.Index, e.ID, e.Reason)
	}
	return fmt.Sprintf("record %d skipped: %s", e.Index, e.Reason)
}

// Is implements errors.Is support
func (e *RecordSkippedError) Is(target error) bool {
	return target == ErrRecordSkipped
}

// NewRecordSkippedError creates a new RecordSkippedError
func NewRecordSkippedError(index int, id, reason string) *RecordSkippedError {
	return &RecordSkippedError{Index: index, ID: id, Reason: reason}
}

// CriticalStartupError represents a failure to construct a core service.
// The CLI exits with a non-zero status when it sees one.
type CriticalStartupError struct {
	Component string
	Err       error
}

// Error implements the error interface
func (e *CriticalStartupError) Error() string {
	return fmt.Sprintf("critical startup error in %s: %v", e.Component, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *CriticalStartupError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CriticalStartupError) Is(target error) bool {
	return target == ErrStartup
}

// NewCriticalStartupError creates a new CriticalStartupError
func NewCriticalStartupError(component string, err error) *CriticalStartupError {
	return &CriticalStartupError{Component: component, Err: err}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml", "timestamp"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "create", "rename"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// ResourceError represents an error during resource operations
type ResourceError struct {
	Operation string // "create", "load", "refresh"
	Resource  string // "store", "resolver", "client"
	ID        string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ResourceError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("failed to %s %s %s: %s", e.Operation, e.Resource, e.ID, e.Message)
	}
	return fmt.Sprintf("failed to %s %s: %s", e.Operation, e.Resource, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ResourceError) Unwrap() error {
	return e.Err
}

// NewResourceError creates a new ResourceError
func NewResourceError(operation, resource, id string, err error) *ResourceError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ResourceError{
		Operation: operation,
		Resource:  resource,
		ID:        id,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsFetchError checks if an error came from a failed upstream request
func IsFetchError(err error) bool {
	return errors.Is(err, ErrFetchFailed)
}

// IsCacheCorrupt checks if an error reports a corrupt cache file
func IsCacheCorrupt(err error) bool {
	return errors.Is(err, ErrCacheCorrupt)
}

// IsTimeout checks if an error is a timeout error
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapResource wraps an error as a ResourceError
func WrapResource(operation, resource, id string, err error) error {
	if err == nil {
		return nil
	}
	return NewResourceError(operation, resource, id, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}
