//go:build !unix

package lock

import "errors"

type flockScope struct {
	path string
}

func newFlockScope(path string) Scope {
	return &flockScope{path: path}
}

// Acquire always fails so fileScope falls through to the directory backend.
func (s *flockScope) Acquire() (func(), error) {
	return nil, errors.ErrUnsupported
}

func (s *flockScope) Backend() string {
	return "dir"
}
