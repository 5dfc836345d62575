package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bumper/pkg/observability"
)

// newLogger creates a logger with timestamps formatted as "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with
// the elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Checked 12 packages (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports cache and repository traffic at debug level.
type logHooks struct {
	observability.NoopCacheHooks
	logger *log.Logger
}

func (h logHooks) OnCacheHit(_ context.Context, key string) {
	h.logger.Debug("cache hit", "key", key)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http", "method", method, "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h logHooks) OnRequest(context.Context, string, string, string) {}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("http failed", "method", method, "host", host, "path", path, "err", err)
}

// registerHooks routes observability events to the debug log.
func (c *CLI) registerHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}
