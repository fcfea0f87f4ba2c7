package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the audit log file created in the configured directory.
const FileName = "audit.jsonl"

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp   time.Time `json:"ts"`
	Command     string    `json:"command"`
	SW8         string    `json:"sw8"`
	SW9         string    `json:"sw9"`
	Profile     string    `json:"profile"`
	Backend     string    `json:"backend,omitempty"`
	FrequencyHz int64     `json:"frequencyHz,omitempty"`
	Frame       string    `json:"frame"`
	Attempts    int       `json:"attempts"`
	Outcome     string    `json:"outcome"`
	Code        string    `json:"code"`
	LatencyMs   int64     `json:"latencyMs"`
	Error       string    `json:"error,omitempty"`
}

// Options configures the audit file.
type Options struct {
	Dir        string
	MaxSizeMB  int // rotate after this many megabytes, 0 means lumberjack's default
	MaxBackups int

	// Logger receives write failures. Defaults to the standard logger.
	Logger logrus.FieldLogger
}

// Logger implements the audit logging functionality.
type Logger struct {
	mu       sync.Mutex
	filePath string
	out      *lumberjack.Logger
	log      logrus.FieldLogger
	closed   bool
}

// NewLogger creates the audit directory and returns a logger appending to
// FileName inside it.
func NewLogger(opts Options) (*Logger, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("audit directory is required")
	}
	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	filePath := filepath.Join(opts.Dir, FileName)
	return &Logger{
		filePath: filePath,
		out: &lumberjack.Logger{
			Filename:   filePath,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
		},
		log: log.WithField("component", "audit"),
	}, nil
}

// LogTransmission appends e. A zero timestamp is set to the current UTC time.
// Write failures are logged and never returned to the caller.
func (l *Logger) LogTransmission(ctx context.Context, e Entry) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.Outcome == "" {
		e.Outcome = outcomeOf(e.Code)
	}
	l.writeEntry(e)
}

func outcomeOf(code string) string {
	if code == "SUCCESS" {
		return "SUCCESS"
	}
	return "FAILED"
}

// writeEntry writes an audit entry to the log file.
func (l *Logger) writeEntry(e Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		l.log.WithField("cmd", e.Command).Warn("audit entry dropped after close")
		return
	}

	data, err := json.Marshal(e)
	if err != nil {
		l.log.WithError(err).Error("failed to marshal audit entry")
		return
	}
	if _, err := l.out.Write(append(data, '\n')); err != nil {
		l.log.WithError(err).Error("failed to write audit entry")
	}
}

// Close closes the audit file. Entries logged afterwards are dropped.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return nil
	}
	l.closed = true
	return l.out.Close()
}

// GetFilePath returns the path to the audit log file.
func (l *Logger) GetFilePath() string {
	return l.filePath
}

// Rotate moves the current file aside with a timestamp suffix and starts a
// new one.
func (l *Logger) Rotate() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return fmt.Errorf("audit logger is closed")
	}
	if err := l.out.Rotate(); err != nil {
		return fmt.Errorf("failed to rotate audit log: %w", err)
	}
	return nil
}
