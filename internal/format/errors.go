package format

import (
	"errors"
	"fmt"
)

// Fatal error classes. Any other error returned by a codec ends the current
// branch without aborting the whole run.
var (
	ErrOpen      = errors.New("cannot open file")
	ErrShortRead = errors.New("short read")
)

var (
	ErrPathCollision   = errors.New("destination path equals source path")
	ErrToolUnavailable = errors.New("external tool unavailable")
)

// FatalError reports a failure that must abort the run.
type FatalError struct {
	Kind error  // ErrOpen or ErrShortRead
	Path string // file being opened or read
	Err  error  // underlying cause, may be nil
}

func (e *FatalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s %q: %s", e.Kind, e.Path, e.Err)
}

func (e *FatalError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func openError(path string, err error) error {
	return &FatalError{Kind: ErrOpen, Path: path, Err: err}
}

func shortReadError(path string, read, expected int64) error {
	return &FatalError{
		Kind: ErrShortRead,
		Path: path,
		Err:  fmt.Errorf("read %d bytes from %d", read, expected),
	}
}

// IsFatal reports whether err belongs to one of the fatal classes.
func IsFatal(err error) bool {
	var fe *FatalError
	return errors.As(err, &fe)
}
