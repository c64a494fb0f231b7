package domain

import (
	"errors"
	"fmt"
)

// Terminal pipeline failures. The first four abort the run before any
// history write; ErrDangerDeclined aborts after recording a blocked entry.
var (
	ErrQueryEmpty      = errors.New("query is empty")
	ErrModelTimeout    = errors.New("model backend timed out")
	ErrModelProcess    = errors.New("model backend failed")
	ErrExtractionEmpty = errors.New("no command found in model output")
	ErrDangerDeclined  = errors.New("dangerous command declined")
)

// ExitError carries a pass-through exit code from an executed command. The
// dispatcher never translates or hides the command's exit status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with status %d", e.Code)
}

// ExitCode returns the wrapped status.
func (e *ExitError) ExitCode() int {
	return e.Code
}
