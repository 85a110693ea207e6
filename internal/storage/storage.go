// Package storage holds the key→blob persistence adapters the task store
// mirrors its collections into.
package storage

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by adapters used after Close
var ErrClosed = errors.New("storage closed")

// Adapter is an opaque string store. Get reports ok=false when the key has
// never been written.
type Adapter interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Close() error
}

// StorageError wraps a failed adapter call
type StorageError struct {
	Op  string // "get" or "set"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func wrap(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if errors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Key: key, Err: err}
}
