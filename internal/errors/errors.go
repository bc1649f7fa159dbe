// Package errors provides standardized error handling for v2browse.
// It defines the error kinds the browser distinguishes, typed errors for the
// directory service, local storage and configuration, and the mapping from an
// error to the flat message shown to the user.
package errors

import (
	"errors"
	"fmt"
)

// Standard errors package errors that we re-export for convenience
var (
	// Unwrap unwraps an error to access the underlying error
	Unwrap = errors.Unwrap
	// Is reports whether any error in err's chain matches target
	Is = errors.Is
	// As finds the first error in err's chain that matches target
	As = errors.As
)

// User-visible messages. The browser shows exactly one of these per failure.
const (
	MsgDirectoryLoad = "Failed to load directory contents"
	MsgFileLoad      = "Failed to load file"
	MsgStorageWrite  = "Failed to save container"
	MsgStorageRead   = "Failed to read saved container"
)

// ErrorKind represents the kind of error
type ErrorKind int

// Error kinds
const (
	Unknown ErrorKind = iota
	// Directory service error kinds
	DirectoryLoadFailed
	FileLoadFailed
	InvalidPath
	// Storage error kinds
	StorageReadFailed
	StorageWriteFailed
	StorageUnavailable
	// Config error kinds
	InvalidConfig
	ConfigNotFound
)

// Common error constants for frequently occurring errors
var (
	ErrInvalidPath   = NewServiceError("invalid path", "", "", InvalidPath, nil)
	ErrInvalidConfig = NewConfigError("invalid configuration", "", InvalidConfig, nil)
	ErrStoreClosed   = NewStorageError("store is closed", "", StorageUnavailable, nil)
)

// ApplicationError is the base error type for all application errors
type ApplicationError struct {
	msg  string
	err  error
	kind ErrorKind
}

// Error returns the error message
func (e *ApplicationError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

// Unwrap returns the wrapped error
func (e *ApplicationError) Unwrap() error {
	return e.err
}

// Kind returns the kind of error
func (e *ApplicationError) Kind() ErrorKind {
	return e.kind
}

// ServiceError represents a failed call to the directory service
type ServiceError struct {
	ApplicationError
	op     string
	path   string
	status int
}

// NewServiceError creates a new directory service error
func NewServiceError(msg, op, path string, kind ErrorKind, err error) *ServiceError {
	return &ServiceError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		op:   op,
		path: path,
	}
}

// NewDirectoryLoadError creates the error returned when a listing cannot be fetched
func NewDirectoryLoadError(path string, err error) *ServiceError {
	return NewServiceError("list directory failed", "list-directory", path, DirectoryLoadFailed, err)
}

// NewFileLoadError creates the error returned when a file body cannot be fetched
func NewFileLoadError(path string, err error) *ServiceError {
	return NewServiceError("read file failed", "static", path, FileLoadFailed, err)
}

// WithStatus records the HTTP status code returned by the service
func (e *ServiceError) WithStatus(status int) *ServiceError {
	e.status = status
	return e
}

// Error returns the service error message
func (e *ServiceError) Error() string {
	msg := e.msg
	if e.path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.path)
	}
	if e.status != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.status)
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// Op returns the service operation that failed
func (e *ServiceError) Op() string {
	return e.op
}

// Path returns the service path associated with the error
func (e *ServiceError) Path() string {
	return e.path
}

// Status returns the HTTP status code, or 0 for transport failures
func (e *ServiceError) Status() int {
	return e.status
}

// StorageError represents errors reading or writing local storage
type StorageError struct {
	ApplicationError
	key string
}

// NewStorageError creates a new storage error
func NewStorageError(msg string, key string, kind ErrorKind, err error) *StorageError {
	return &StorageError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		key: key,
	}
}

// Error returns the storage error message
func (e *StorageError) Error() string {
	if e.key != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.key, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.key)
	}
	return e.ApplicationError.Error()
}

// Key returns the storage key associated with the error
func (e *StorageError) Key() string {
	return e.key
}

// ConfigError represents errors related to configuration
type ConfigError struct {
	ApplicationError
	param string
}

// NewConfigError creates a new configuration error
func NewConfigError(msg string, param string, kind ErrorKind, err error) *ConfigError {
	return &ConfigError{
		ApplicationError: ApplicationError{
			msg:  msg,
			err:  err,
			kind: kind,
		},
		param: param,
	}
}

// Error returns the config error message
func (e *ConfigError) Error() string {
	if e.param != "" {
		if e.err != nil {
			return fmt.Sprintf("%s: %s: %v", e.msg, e.param, e.err)
		}
		return fmt.Sprintf("%s: %s", e.msg, e.param)
	}
	return e.ApplicationError.Error()
}

// Param returns the configuration parameter associated with the error
func (e *ConfigError) Param() string {
	return e.param
}

// New creates a new error with a message
func New(msg string) error {
	return &ApplicationError{
		msg:  msg,
		kind: Unknown,
	}
}

// Newf creates a new error with a formatted message
func Newf(format string, args ...interface{}) error {
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		kind: Unknown,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  msg,
		err:  err,
		kind: Unknown,
	}
}

// Wrapf wraps an existing error with additional formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &ApplicationError{
		msg:  fmt.Sprintf(format, args...),
		err:  err,
		kind: Unknown,
	}
}

// KindOf returns the kind of the first kinded error in err's chain
func KindOf(err error) ErrorKind {
	for err != nil {
		if k, ok := err.(interface{ Kind() ErrorKind }); ok && k.Kind() != Unknown {
			return k.Kind()
		}
		err = errors.Unwrap(err)
	}
	return Unknown
}

// IsDirectoryLoad checks if the error is a failed directory listing
func IsDirectoryLoad(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind() == DirectoryLoadFailed
	}
	return false
}

// IsFileLoad checks if the error is a failed file fetch
func IsFileLoad(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Kind() == FileLoadFailed
	}
	return false
}

// IsStorage checks if the error is a local storage error
func IsStorage(err error) bool {
	var stErr *StorageError
	return errors.As(err, &stErr)
}

// IsInvalidConfig checks if the error is an invalid configuration error
func IsInvalidConfig(err error) bool {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr.Kind() == InvalidConfig
	}
	return false
}

// UserMessage maps an error to the single flat message shown in the UI.
// Errors without a user-facing kind fall back to their own text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	switch KindOf(err) {
	case DirectoryLoadFailed:
		return MsgDirectoryLoad
	case FileLoadFailed:
		return MsgFileLoad
	case StorageWriteFailed, StorageUnavailable:
		return MsgStorageWrite
	case StorageReadFailed:
		return MsgStorageRead
	}
	return err.Error()
}
