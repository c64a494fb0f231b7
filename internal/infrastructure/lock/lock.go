// Package lock provides an exclusive scope over a named file resource,
// usable across independent processes.
//
// Two backends exist: an advisory flock where the platform supports it, and
// a spin lock based on atomic directory creation everywhere else. The flock
// backend is preferred; the directory backend also serves as a runtime
// fallback when flock fails (e.g. on network filesystems).
package lock

import (
	"fmt"
	"os"
	"time"
)

// Scope is an exclusive lock over a named resource. Acquire blocks (with a
// bounded number of retries for the fallback backend) and returns a release
// function that must be called on every exit path.
type Scope interface {
	Acquire() (release func(), err error)
	Backend() string
}

// ForFile returns the exclusive scope guarding the given file path.
func ForFile(path string) Scope {
	return &fileScope{
		flock: newFlockScope(path + ".lock"),
		dir:   newDirScope(path + ".lock.d"),
	}
}

type fileScope struct {
	flock Scope
	dir   *dirScope
}

func (s *fileScope) Acquire() (func(), error) {
	if release, err := s.flock.Acquire(); err == nil {
		return release, nil
	}
	return s.dir.Acquire()
}

func (s *fileScope) Backend() string {
	return s.flock.Backend()
}

// dirScope is the degraded mutual-exclusion fallback: os.Mkdir is atomic, so
// whoever creates the directory holds the lock.
type dirScope struct {
	path       string
	attempts   int
	delay      time.Duration
	staleAfter time.Duration
}

func newDirScope(path string) *dirScope {
	return &dirScope{
		path:       path,
		attempts:   50,
		delay:      20 * time.Millisecond,
		staleAfter: 10 * time.Second,
	}
}

func (s *dirScope) Acquire() (func(), error) {
	for i := 0; i < s.attempts; i++ {
		err := os.Mkdir(s.path, 0o755)
		if err == nil {
			return func() { _ = os.Remove(s.path) }, nil
		}
		if !os.IsExist(err) {
			return nil, err
		}
		s.reclaimStale()
		time.Sleep(s.delay)
	}
	return nil, fmt.Errorf("lock %s busy after %d attempts", s.path, s.attempts)
}

// reclaimStale removes a lock directory abandoned by a crashed writer.
func (s *dirScope) reclaimStale() {
	info, err := os.Stat(s.path)
	if err != nil {
		return
	}
	if time.Since(info.ModTime()) > s.staleAfter {
		_ = os.Remove(s.path)
	}
}

func (s *dirScope) Backend() string {
	return "dir"
}
