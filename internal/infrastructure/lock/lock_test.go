package lock

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestFileScopeAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resource")
	scope := ForFile(path)

	release, err := scope.Acquire()
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	release()

	// Reacquirable after release.
	release, err = scope.Acquire()
	if err != nil {
		t.Fatalf("second Acquire error: %v", err)
	}
	release()
}

func TestDirScopeMutualExclusion(t *testing.T) {
	scope := newDirScope(filepath.Join(t.TempDir(), "resource.lock.d"))

	const workers = 10
	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := scope.Acquire()
			if err != nil {
				t.Errorf("Acquire error: %v", err)
				return
			}
			defer release()
			// Unsynchronized increment; only the lock protects it.
			value := counter
			time.Sleep(time.Millisecond)
			counter = value + 1
		}()
	}
	wg.Wait()

	if counter != workers {
		t.Fatalf("lost updates under lock: counter = %d, want %d", counter, workers)
	}
}

func TestDirScopeBoundedRetries(t *testing.T) {
	scope := newDirScope(filepath.Join(t.TempDir(), "resource.lock.d"))
	scope.attempts = 3
	scope.delay = time.Millisecond
	scope.staleAfter = time.Hour

	release, err := scope.Acquire()
	if err != nil {
		t.Fatalf("Acquire error: %v", err)
	}
	defer release()

	if _, err := scope.Acquire(); err == nil {
		t.Fatal("expected bounded retries to give up while held")
	}
}

func TestDirScopeReclaimsStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resource.lock.d")
	scope := newDirScope(path)
	scope.attempts = 5
	scope.delay = time.Millisecond
	scope.staleAfter = 10 * time.Millisecond

	// Simulate a crashed writer's leftover lock.
	if err := os.Mkdir(path, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	old := time.Now().Add(-time.Minute)
	if err := os.Chtimes(path, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	release, err := scope.Acquire()
	if err != nil {
		t.Fatalf("stale lock not reclaimed: %v", err)
	}
	release()
}
