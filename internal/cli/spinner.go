package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/bumper/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// spinner animates a status line on w until it is stopped or ctx is done.
type spinner struct {
	w io.Writer

	mu    sync.Mutex
	msg   string
	drawn int // width of the widest line written, for clearing

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// startSpinner draws msg on w and keeps animating it in the background.
func startSpinner(ctx context.Context, w io.Writer, msg string) *spinner {
	s := &spinner{
		w:       w,
		msg:     msg,
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

func (s *spinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			s.clear()
			return
		case <-s.stop:
			return
		case <-ticker.C:
			s.draw(spinnerFrames[i%len(spinnerFrames)])
		}
	}
}

// Set replaces the status message shown from the next frame on.
func (s *spinner) Set(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop ends the animation and clears the line. It is safe to call more
// than once.
func (s *spinner) Stop() {
	s.once.Do(func() {
		close(s.stop)
		<-s.stopped
		s.clear()
	})
}

func (s *spinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.msg)
	pad := ""
	if n := len(s.msg) + 2; n < s.drawn {
		pad = strings.Repeat(" ", s.drawn-n)
	} else {
		s.drawn = n
	}
	fmt.Fprintf(s.w, "\r%s%s", line, pad)
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.drawn))
	}
}

// spinnerHooks shows the package being resolved on the spinner.
type spinnerHooks struct {
	observability.NoopResolveHooks
	s *spinner
}

func (h spinnerHooks) OnResolveStart(_ context.Context, _, pkg string) {
	h.s.Set("Resolving " + pkg + "...")
}
