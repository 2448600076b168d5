package store

import (
	"errors"
	"fmt"
)

var (
	ErrStorageRead  = errors.New("storage read error")
	ErrStorageWrite = errors.New("storage write error")
)

// StorageError envuelve una falla del sustrato kv. errors.Is(err, ErrStorageRead)
// o ErrStorageWrite distingue el tipo.
type StorageError struct {
	Op  string // "read" | "write"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() []error {
	kind := ErrStorageRead
	if e.Op == "write" {
		kind = ErrStorageWrite
	}
	return []error{kind, e.Err}
}

func readError(key string, err error) error {
	return &StorageError{Op: "read", Key: key, Err: err}
}

func writeError(key string, err error) error {
	return &StorageError{Op: "write", Key: key, Err: err}
}
