package fs

import (
	"errors"
	iofs "io/fs"
	"sync"
)

// InjectedError marks an error as intentionally injected by [Chaos].
//
// It wraps the underlying error so errors.Is/As continue to work.
// Errno-style failures are returned as plain *fs.PathError values instead;
// those are tracked separately so [IsInjected] still recognises them.
type InjectedError struct {
	Err error
}

func (e *InjectedError) Error() string {
	return e.Err.Error()
}

func (e *InjectedError) Unwrap() error {
	return e.Err
}

// IsInjected reports whether err (or any wrapped error) was injected by [Chaos].
func IsInjected(err error) bool {
	if err == nil {
		return false
	}

	var injected *InjectedError
	if errors.As(err, &injected) {
		return true
	}

	var pathErr *iofs.PathError
	if errors.As(err, &pathErr) {
		_, ok := injectedPathErrors.Load(pathErr)

		return ok
	}

	return false
}

var injectedPathErrors sync.Map // map[*fs.PathError]struct{}

func markInjectedPathError(err *iofs.PathError) {
	injectedPathErrors.Store(err, struct{}{})
}

// inject wraps err in an InjectedError unless it already is one.
func inject(err error) error {
	if IsInjected(err) {
		return err
	}

	return &InjectedError{Err: err}
}
