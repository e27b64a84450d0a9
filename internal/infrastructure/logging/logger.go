// Package logging implements the application Logger on the standard log package.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/andrescamacho/colony-engine/internal/application/common"
	"github.com/andrescamacho/colony-engine/internal/infrastructure/config"
)

var levelRank = map[string]int{
	common.LevelDebug: 0,
	common.LevelInfo:  1,
	common.LevelWarn:  2,
	common.LevelError: 3,
}

// StdLogger writes one line per entry, as text or JSON, dropping entries below its level
type StdLogger struct {
	mu       sync.Mutex
	out      *log.Logger
	minLevel int
	json     bool
	now      func() time.Time
}

// NewStdLogger creates a logger writing to w
func NewStdLogger(w io.Writer, level, format string) *StdLogger {
	return &StdLogger{
		out:      log.New(w, "", 0),
		minLevel: rankOf(level),
		json:     strings.EqualFold(format, "json"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// FromConfig builds a logger from LoggingConfig. The returned closer releases the log file, if any.
func FromConfig(cfg config.LoggingConfig) (*StdLogger, io.Closer, error) {
	var (
		w      io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	switch cfg.Output {
	case "stderr":
		w = os.Stderr
	case "file":
		f, err := os.OpenFile(cfg.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w, closer = f, f
	}
	return NewStdLogger(w, cfg.Level, cfg.Format), closer, nil
}

// Log implements common.Logger
func (l *StdLogger) Log(level, message string, metadata map[string]interface{}) {
	level = strings.ToUpper(level)
	if rankOf(level) < l.minLevel {
		return
	}

	var line string
	if l.json {
		line = l.jsonLine(level, message, metadata)
	} else {
		line = l.textLine(level, message, metadata)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.out.Print(line)
}

func (l *StdLogger) textLine(level, message string, metadata map[string]interface{}) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", l.now().Format(time.RFC3339), level, message)
	for _, key := range sortedKeys(metadata) {
		fmt.Fprintf(&b, " %s=%v", key, metadata[key])
	}
	return b.String()
}

func (l *StdLogger) jsonLine(level, message string, metadata map[string]interface{}) string {
	entry := make(map[string]interface{}, len(metadata)+3)
	for key, value := range metadata {
		entry[key] = value
	}
	entry["time"] = l.now().Format(time.RFC3339)
	entry["level"] = level
	entry["message"] = message

	data, err := json.Marshal(entry)
	if err != nil {
		return l.textLine(level, message, metadata)
	}
	return string(data)
}

// rankOf accepts config spellings ("warn") as well as the Logger constants ("WARNING")
func rankOf(level string) int {
	level = strings.ToUpper(level)
	if level == "WARN" {
		level = common.LevelWarn
	}
	if rank, ok := levelRank[level]; ok {
		return rank
	}
	return levelRank[common.LevelInfo]
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
