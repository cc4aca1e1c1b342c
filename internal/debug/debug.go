// Package debug provides debug logging utilities.
package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/wholes0meglock/rehab-ai/internal/dirs"
)

var enabled = os.Getenv("REHABAI_DEBUG") == "1"

var (
	mu  sync.Mutex
	out io.Writer = os.Stderr
)

// Logf writes a debug message if REHABAI_DEBUG=1. Output goes to stderr, or
// to a log file after UseLogFile.
func Logf(format string, args ...any) {
	if !enabled {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	msg := fmt.Sprintf(format, args...)
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "[DEBUG %s] %s\n", timestamp, msg)
}

// Enabled returns true if debug logging is enabled
func Enabled() bool {
	return enabled
}

// UseLogFile redirects debug output to a per-run file under the logs
// directory. The TUI switches to a file before entering the alt screen,
// where stderr writes would tear the display.
func UseLogFile() (string, error) {
	if !enabled {
		return "", nil
	}
	logsDir := dirs.LogsDir()
	if err := os.MkdirAll(logsDir, 0o700); err != nil {
		return "", fmt.Errorf("create logs dir: %w", err)
	}
	path := filepath.Join(logsDir, time.Now().Format("20060102-150405")+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600) //nolint:gosec
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	mu.Lock()
	out = f
	mu.Unlock()
	return path, nil
}
