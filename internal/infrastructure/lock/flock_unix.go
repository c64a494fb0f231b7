//go:build unix

package lock

import (
	"os"

	"golang.org/x/sys/unix"
)

type flockScope struct {
	path string
}

func newFlockScope(path string) Scope {
	return &flockScope{path: path}
}

// Acquire takes a blocking exclusive advisory lock on the sentinel file.
func (s *flockScope) Acquire() (func(), error) {
	file, err := os.OpenFile(s.path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX); err != nil {
		_ = file.Close()
		return nil, err
	}
	return func() {
		_ = unix.Flock(int(file.Fd()), unix.LOCK_UN)
		_ = file.Close()
	}, nil
}

func (s *flockScope) Backend() string {
	return "flock"
}
