package ctyext

import (
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// PathError reports an error in a nested value, such as a container
// definition inside a task definition. The message is prefixed with the path
// in PathString form:
//
//   container_definitions[1].port_mappings[0].container_port: value is string, not number
type PathError struct {
	Path cty.Path
	Err  error
}

// WithPath wraps err in a PathError. Nil errors stay nil, and errors that
// already carry a path get path prepended to it.
func WithPath(path cty.Path, err error) error {
	if err == nil {
		return nil
	}
	if pe, ok := err.(PathError); ok {
		full := append(path.Copy(), pe.Path...)
		return PathError{Path: full, Err: pe.Err}
	}
	return PathError{Path: path.Copy(), Err: err}
}

func (e PathError) Error() string {
	if len(e.Path) == 0 {
		return e.Err.Error()
	}
	return errors.Wrap(e.Err, PathString(e.Path)).Error()
}

// Cause implements the causer interface of github.com/pkg/errors.
func (e PathError) Cause() error { return e.Err }
