// Package debuglog implements the single debug_log sink of spec §7: a
// logrus-backed logger, disabled by default, that tags every entry with the
// generation run's id.
package debuglog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps a *logrus.Entry scoped to one generation run.
type Logger struct {
	entry   *logrus.Entry
	enabled bool
}

var enabled = false

// Enable turns on debug_log output for all Loggers created afterward,
// optionally tee-ing to an extra writer (e.g. a file opened by the CLI).
func Enable(w io.Writer) {
	enabled = true
	if w != nil {
		logrus.SetOutput(io.MultiWriter(os.Stderr, w))
	}
}

// Disable turns debug_log output back off (spec §7 "disabled by default").
func Disable() { enabled = false }

// New returns a Logger tagged with runID. Output is suppressed unless
// Enable has been called.
func New(runID string) *Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)
	return &Logger{entry: logger.WithField("run_id", runID), enabled: enabled}
}

// Debugf writes one debug_log entry if the sink is enabled.
func (l *Logger) Debugf(format string, args ...interface{}) {
	if l == nil || !l.enabled {
		return
	}
	l.entry.Debugf(format, args...)
}

// Warnf writes a counted-warning entry (spec §7 "counted warnings") with
// structured fields instead of bare printf text, only when the sink is
// enabled; counted warnings are surfaced through CityStats either way.
func (l *Logger) Warnf(fields map[string]interface{}, format string, args ...interface{}) {
	if l == nil || !l.enabled {
		return
	}
	l.entry.WithFields(fields).Warnf(format, args...)
}
