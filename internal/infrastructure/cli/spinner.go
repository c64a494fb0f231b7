package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/doeshing/askcmd/internal/ports"
)

// Spinner displays an animated frame while the model backend call is in
// flight. It runs as its own goroutine joined to the worker via the stop
// channel; the display line is cleared on every exit path.
type Spinner struct {
	frames   []string
	interval time.Duration
	writer   io.Writer

	mu       sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

// NewSpinner creates a new spinner writing to w.
func NewSpinner(w io.Writer) *Spinner {
	return &Spinner{
		frames:   []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		interval: 80 * time.Millisecond,
		writer:   w,
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopChan = make(chan struct{})

	s.wg.Add(1)
	go s.spin(s.stopChan)
}

func (s *Spinner) spin(stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer fmt.Fprint(s.writer, "\r\033[K")

	idx := 0
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			fmt.Fprintf(s.writer, "\r%s ", s.frames[idx%len(s.frames)])
			idx++
		}
	}
}

// Stop ends the animation and waits for the line to be cleared. Safe to call
// more than once.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	s.wg.Wait()
}

var _ ports.ProgressIndicator = (*Spinner)(nil)
