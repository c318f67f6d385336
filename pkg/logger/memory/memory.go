package memory

import (
	"fmt"
	"sync"
)

// Entry is one recorded log call.
type Entry struct {
	Level   string
	Message string
	Keyvals []any
}

// Value returns the value logged for key, if any.
func (e Entry) Value(key string) (any, bool) {
	for i := 0; i+1 < len(e.Keyvals); i += 2 {
		if k, ok := e.Keyvals[i].(string); ok && k == key {
			return e.Keyvals[i+1], true
		}
	}
	return nil, false
}

// MemoryLogger implements LoggerInstance by keeping every entry in memory.
// It is meant for tests that assert on what was logged. Fatal is recorded
// and does not exit.
type MemoryLogger struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemoryLogger creates an empty MemoryLogger.
func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (m *MemoryLogger) record(level, message string, keyvals []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Level: level, Message: message, Keyvals: keyvals})
}

// Entries returns a copy of all recorded entries.
func (m *MemoryLogger) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Level returns the entries recorded at the given level.
func (m *MemoryLogger) Level(level string) []Entry {
	var out []Entry
	for _, e := range m.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (m *MemoryLogger) String() string {
	return fmt.Sprintf("%d log entries", len(m.Entries()))
}

func (m *MemoryLogger) Log(message string, keyvals ...any)   { m.record("log", message, keyvals) }
func (m *MemoryLogger) Debug(message string, keyvals ...any) { m.record("debug", message, keyvals) }
func (m *MemoryLogger) Info(message string, keyvals ...any)  { m.record("info", message, keyvals) }
func (m *MemoryLogger) Warn(message string, keyvals ...any)  { m.record("warn", message, keyvals) }
func (m *MemoryLogger) Error(message string, keyvals ...any) { m.record("error", message, keyvals) }
func (m *MemoryLogger) Fatal(message string, keyvals ...any) { m.record("fatal", message, keyvals) }
