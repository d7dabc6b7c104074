package storage

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNotFound is returned by backends and Snapshots when a key has no value.
var ErrNotFound = errors.New("not found")

// IsNotFound reports whether the cause of err is ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Cause(err) == ErrNotFound
}

// A KeyError is returned for keys that cannot be stored.
type KeyError struct {
	Key    string
	Reason string
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("invalid key %q: %s", e.Key, e.Reason)
}
