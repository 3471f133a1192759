package linkhub

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUsernameTaken    = errors.New("username taken")
	ErrVersionConflict  = errors.New("profile was modified concurrently")
	ErrRemoteCallFailed = errors.New("remote call failed")
	ErrEditorClosed     = errors.New("editor closed")
)

// RemoteCallError is returned when the profile store rejects or fails a write.
// Local state is left untouched when it is returned.
type RemoteCallError struct {
	Op  string
	Err error
}

func (e *RemoteCallError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrRemoteCallFailed, e.Op, e.Err)
}

func (e *RemoteCallError) Unwrap() error { return e.Err }

func (e *RemoteCallError) Is(target error) bool { return target == ErrRemoteCallFailed }

func invalid(format string, args ...interface{}) error {
	return errors.Wrapf(ErrValidationFailed, format, args...)
}
