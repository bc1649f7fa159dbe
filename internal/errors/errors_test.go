package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	// Test creating a new error
	err := New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())

	// Test creating a new formatted error
	err = Newf("formatted %s", "error")
	assert.NotNil(t, err)
	assert.Equal(t, "formatted error", err.Error())

	// Check that the error is an ApplicationError
	var appErr *ApplicationError
	assert.True(t, As(err, &appErr))
	assert.Equal(t, "formatted error", appErr.Error())
	assert.Equal(t, Unknown, appErr.Kind())
}

func TestWrapping(t *testing.T) {
	origErr := New("original error")
	wrappedErr := Wrap(origErr, "wrapped")
	assert.NotNil(t, wrappedErr)
	assert.Equal(t, "wrapped: original error", wrappedErr.Error())

	unwrappedErr := Unwrap(wrappedErr)
	assert.Equal(t, origErr, unwrappedErr)

	wrappedFormatted := Wrapf(origErr, "formatted %s", "wrapper")
	assert.Equal(t, "formatted wrapper: original error", wrappedFormatted.Error())

	// Test wrapping nil returns nil
	assert.Nil(t, Wrap(nil, "wrapper"))
	assert.Nil(t, Wrapf(nil, "formatted %s", "wrapper"))

	deepWrapped := Wrap(wrappedErr, "deeper")
	assert.Equal(t, "deeper: wrapped: original error", deepWrapped.Error())
	assert.True(t, Is(deepWrapped, origErr))
}

func TestServiceError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewDirectoryLoadError("docs/2024", cause)
	assert.Equal(t, "list directory failed: docs/2024: connection refused", err.Error())
	assert.Equal(t, "docs/2024", err.Path())
	assert.Equal(t, "list-directory", err.Op())
	assert.Equal(t, DirectoryLoadFailed, err.Kind())
	assert.Equal(t, cause, Unwrap(err))

	withStatus := NewFileLoadError("docs/a.txt", nil).WithStatus(404)
	assert.Equal(t, "read file failed: docs/a.txt: status 404", withStatus.Error())
	assert.Equal(t, 404, withStatus.Status())

	assert.True(t, IsDirectoryLoad(err))
	assert.False(t, IsFileLoad(err))
	assert.True(t, IsFileLoad(Wrap(withStatus, "outer")))
}

func TestStorageError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStorageError("write failed", "selectedContainer", StorageWriteFailed, cause)
	assert.Equal(t, "write failed: selectedContainer: disk full", err.Error())
	assert.Equal(t, "selectedContainer", err.Key())
	assert.True(t, IsStorage(err))
	assert.False(t, IsStorage(cause))

	noKey := NewStorageError("closed", "", StorageUnavailable, nil)
	assert.Equal(t, "closed", noKey.Error())
}

func TestConfigError(t *testing.T) {
	configErr := NewConfigError("invalid value", "service.base_url", InvalidConfig, nil)
	assert.Equal(t, "invalid value: service.base_url", configErr.Error())
	assert.Equal(t, "service.base_url", configErr.Param())
	assert.True(t, IsInvalidConfig(configErr))

	origErr := fmt.Errorf("parse error")
	configErr = NewConfigError("invalid value", "timeout", InvalidConfig, origErr)
	assert.Equal(t, "invalid value: timeout: parse error", configErr.Error())

	notFound := NewConfigError("missing", "", ConfigNotFound, nil)
	assert.False(t, IsInvalidConfig(notFound))
	assert.Equal(t, "invalid configuration", ErrInvalidConfig.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, Unknown, KindOf(nil))
	assert.Equal(t, Unknown, KindOf(errors.New("plain")))

	inner := NewFileLoadError("a", nil)
	assert.Equal(t, FileLoadFailed, KindOf(Wrap(inner, "outer")))
	assert.Equal(t, FileLoadFailed, KindOf(fmt.Errorf("fmt wrap: %w", inner)))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, MsgDirectoryLoad, UserMessage(NewDirectoryLoadError("x", errors.New("boom"))))
	assert.Equal(t, MsgFileLoad, UserMessage(NewFileLoadError("x", nil).WithStatus(500)))
	assert.Equal(t, MsgStorageWrite, UserMessage(NewStorageError("w", "k", StorageWriteFailed, nil)))
	assert.Equal(t, MsgStorageRead, UserMessage(NewStorageError("r", "k", StorageReadFailed, nil)))
	assert.Equal(t, MsgStorageWrite, UserMessage(ErrStoreClosed))
	assert.Equal(t, "something else", UserMessage(errors.New("something else")))
}
