package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on stderr until stopped or until its
// context ends. With a total it also counts finished items.
type Spinner struct {
	message string
	total   int
	done    atomic.Int64
	start   time.Time

	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu    sync.Mutex
	width int
}

// newSpinner creates a spinner for message. total > 0 shows an n/total
// counter advanced by Advance.
func newSpinner(ctx context.Context, message string, total int) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		total:   total,
		ctx:     ctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation.
func (s *Spinner) Start() {
	s.start = time.Now()
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(s.line(spinnerFrames[i%len(spinnerFrames)]))
			}
		}
	}()
}

// Advance marks one more item finished. It is safe for concurrent use.
func (s *Spinner) Advance() {
	s.done.Add(1)
}

func (s *Spinner) line(frame string) string {
	msg := s.message
	if s.total > 0 {
		msg += fmt.Sprintf(" %d/%d", s.done.Load(), s.total)
	}
	elapsed := time.Since(s.start).Truncate(100 * time.Millisecond)
	return styleIconSpinner.Render(frame) + " " + StyleDim.Render(fmt.Sprintf("%s (%s)", msg, elapsed))
}

func (s *Spinner) draw(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprint(os.Stderr, "\r"+strings.Repeat(" ", s.width))
	}
	fmt.Fprint(os.Stderr, "\r"+line)
	s.width = len(line)
}

// Stop ends the animation and clears the line. Further calls do nothing.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if !s.start.IsZero() {
			<-s.stopped
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.width > 0 {
			fmt.Fprint(os.Stderr, "\r"+strings.Repeat(" ", s.width)+"\r")
			s.width = 0
		}
	})
}

// Done returns how many items were advanced.
func (s *Spinner) Done() int {
	return int(s.done.Load())
}

// Cancelled reports whether the spinner's context has ended.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
