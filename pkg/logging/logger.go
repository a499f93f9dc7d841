// Package logging writes structured JSONL events for a UI session.
package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Level represents log severity
type Level string

const (
	LevelDebug Level = "debug"
	LevelInfo  Level = "info"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

var levelRank = map[Level]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := levelRank[level]; !ok {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

// Category represents the subsystem generating the log
type Category string

const (
	CategoryDriver       Category = "driver"
	CategoryRender       Category = "render"
	CategoryCommand      Category = "command"
	CategorySubscription Category = "subscription"
	CategoryNetwork      Category = "network"
	CategoryStore        Category = "store"
	CategoryBus          Category = "bus"
	CategoryHost         Category = "host"
)

// Event represents a structured log event
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Level     Level          `json:"level"`
	Category  Category       `json:"category"`
	EventType string         `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
	Message   string         `json:"message,omitempty"`
}

// Logger writes events as JSON lines. A nil *Logger discards everything, so
// components can hold one unconditionally.
type Logger struct {
	sessionID string
	out       io.Writer
	errors    io.Writer
	closers   []io.Closer
	mu        sync.Mutex
	minLevel  Level
}

// NewSessionID returns a fresh, time-ordered session id.
func NewSessionID() string {
	return ulid.Make().String()
}

// NewLogger writes every event to w.
func NewLogger(w io.Writer, sessionID string) *Logger {
	return &Logger{sessionID: sessionID, out: w, minLevel: LevelInfo}
}

// OpenLogger writes to dir/sessions/<sessionID>.jsonl and copies error
// events to dir/errors.jsonl.
func OpenLogger(dir, sessionID string) (*Logger, error) {
	sessionsDir := filepath.Join(dir, "sessions")
	if err := os.MkdirAll(sessionsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sessions directory: %w", err)
	}

	sessionFile, err := os.OpenFile(SessionPath(dir, sessionID), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open session log: %w", err)
	}

	errorFile, err := os.OpenFile(filepath.Join(dir, "errors.jsonl"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		sessionFile.Close()
		return nil, fmt.Errorf("failed to open error log: %w", err)
	}

	return &Logger{
		sessionID: sessionID,
		out:       sessionFile,
		errors:    errorFile,
		closers:   []io.Closer{sessionFile, errorFile},
		minLevel:  LevelInfo,
	}, nil
}

// SessionPath is the session log file OpenLogger writes for sessionID.
func SessionPath(dir, sessionID string) string {
	return filepath.Join(dir, "sessions", sessionID+".jsonl")
}

// SessionID returns the id stamped on every event.
func (l *Logger) SessionID() string {
	if l == nil {
		return ""
	}
	return l.sessionID
}

// SetMinLevel sets the minimum log level
func (l *Logger) SetMinLevel(level Level) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minLevel = level
}

// Enabled reports whether events at level are written.
func (l *Logger) Enabled(level Level) bool {
	if l == nil {
		return false
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return levelRank[level] >= levelRank[l.minLevel]
}

// Log writes an event to the session log, and error events to the error log.
func (l *Logger) Log(event Event) error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if levelRank[event.Level] < levelRank[l.minLevel] {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.SessionID == "" {
		event.SessionID = l.sessionID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	data = append(data, '\n')

	if l.out != nil {
		if _, err := l.out.Write(data); err != nil {
			return fmt.Errorf("failed to write to session log: %w", err)
		}
	}
	if event.Level == LevelError && l.errors != nil {
		if _, err := l.errors.Write(data); err != nil {
			return fmt.Errorf("failed to write to error log: %w", err)
		}
	}
	return nil
}

// Debug logs a debug event
func (l *Logger) Debug(category Category, eventType string, message string, details map[string]any) error {
	return l.Log(Event{Level: LevelDebug, Category: category, EventType: eventType, Message: message, Details: details})
}

// Info logs an info event
func (l *Logger) Info(category Category, eventType string, message string, details map[string]any) error {
	return l.Log(Event{Level: LevelInfo, Category: category, EventType: eventType, Message: message, Details: details})
}

// Warn logs a warning event
func (l *Logger) Warn(category Category, eventType string, message string, details map[string]any) error {
	return l.Log(Event{Level: LevelWarn, Category: category, EventType: eventType, Message: message, Details: details})
}

// Error logs an error event
func (l *Logger) Error(category Category, eventType string, message string, details map[string]any) error {
	return l.Log(Event{Level: LevelError, Category: category, EventType: eventType, Message: message, Details: details})
}

// Close closes any files opened by OpenLogger.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	var errs []error
	for _, c := range l.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	l.closers = nil
	if len(errs) > 0 {
		return fmt.Errorf("errors closing log files: %v", errs)
	}
	return nil
}

// ReadRecentEvents returns the last count events of a session log. Lines
// that do not parse are skipped.
func ReadRecentEvents(logPath string, count int) ([]Event, error) {
	file, err := os.Open(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	defer file.Close()

	var events []Event
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var event Event
		if err := json.Unmarshal(scanner.Bytes(), &event); err != nil {
			continue
		}
		events = append(events, event)
		if count > 0 && len(events) > count {
			events = events[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log: %w", err)
	}
	return events, nil
}

// LatestSession returns the path of the most recently modified session log
// under dir.
func LatestSession(dir string) (string, error) {
	entries, err := os.ReadDir(filepath.Join(dir, "sessions"))
	if err != nil {
		return "", fmt.Errorf("failed to list sessions: %w", err)
	}
	var latest string
	var latestMod time.Time
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".jsonl" {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if latest == "" || info.ModTime().After(latestMod) {
			latest = filepath.Join(dir, "sessions", e.Name())
			latestMod = info.ModTime()
		}
	}
	if latest == "" {
		return "", fmt.Errorf("no session logs in %s", dir)
	}
	return latest, nil
}
