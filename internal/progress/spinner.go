// Package progress draws a transient lookup spinner on a terminal stream.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
)

const clearLine = "\r\x1b[K"

// Spinner renders "<frame> checking n/total" on a single line until stopped.
// A disabled spinner never writes anything.
type Spinner struct {
	w       io.Writer
	enabled bool
	frames  spinner.Spinner
	style   lipgloss.Style

	mu    sync.Mutex
	done  int
	total int

	startOnce sync.Once
	stopOnce  sync.Once
	stop      chan struct{}
	wg        sync.WaitGroup
}

// New returns a spinner for total lookups writing to w.
func New(w io.Writer, total int, enabled bool) *Spinner {
	return &Spinner{
		w:       w,
		enabled: enabled && w != nil,
		frames:  spinner.Dot,
		style:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		total:   total,
		stop:    make(chan struct{}),
	}
}

// Start begins drawing frames in the background.
func (s *Spinner) Start() {
	if s == nil || !s.enabled {
		return
	}
	s.startOnce.Do(func() {
		s.wg.Add(1)
		go s.loop()
	})
}

// Increment records one completed lookup.
func (s *Spinner) Increment() {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.done++
	s.mu.Unlock()
}

// Stop halts the spinner and clears its line. Safe to call more than once.
func (s *Spinner) Stop() {
	if s == nil || !s.enabled {
		return
	}
	s.stopOnce.Do(func() {
		close(s.stop)
		s.wg.Wait()
		s.mu.Lock()
		_, _ = io.WriteString(s.w, clearLine)
		s.mu.Unlock()
	})
}

func (s *Spinner) loop() {
	defer s.wg.Done()

	fps := s.frames.FPS
	if fps <= 0 {
		fps = time.Second / 10
	}
	ticker := time.NewTicker(fps)
	defer ticker.Stop()

	frame := 0
	for {
		s.draw(frame)
		frame = (frame + 1) % len(s.frames.Frames)

		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

func (s *Spinner) draw(frame int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintf(s.w, "%s%s checking %d/%d", clearLine, s.style.Render(s.frames.Frames[frame]), s.done, s.total)
}
