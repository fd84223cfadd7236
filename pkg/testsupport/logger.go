package testsupport

import (
	"context"
	"maps"
	"sync"

	"github.com/goliatone/go-sitewidgets/pkg/interfaces"
)

// LogEntry is one recorded log call.
type LogEntry struct {
	Level   string
	Message string
	Args    []any
	Fields  map[string]any
}

type logSink struct {
	mu      sync.Mutex
	entries []LogEntry
}

// RecordingLogger captures log calls. Loggers derived through WithFields share the
// parent's entries.
type RecordingLogger struct {
	sink   *logSink
	once   sync.Once
	fields map[string]any
}

var (
	_ interfaces.Logger       = (*RecordingLogger)(nil)
	_ interfaces.FieldsLogger = (*RecordingLogger)(nil)
)

func (l *RecordingLogger) record(level, msg string, args []any) {
	l.once.Do(func() {
		if l.sink == nil {
			l.sink = &logSink{}
		}
	})
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.entries = append(l.sink.entries, LogEntry{
		Level:   level,
		Message: msg,
		Args:    append([]any(nil), args...),
		Fields:  maps.Clone(l.fields),
	})
}

func (l *RecordingLogger) Trace(msg string, args ...any) { l.record("trace", msg, args) }
func (l *RecordingLogger) Debug(msg string, args ...any) { l.record("debug", msg, args) }
func (l *RecordingLogger) Info(msg string, args ...any)  { l.record("info", msg, args) }
func (l *RecordingLogger) Warn(msg string, args ...any)  { l.record("warn", msg, args) }
func (l *RecordingLogger) Error(msg string, args ...any) { l.record("error", msg, args) }
func (l *RecordingLogger) Fatal(msg string, args ...any) { l.record("fatal", msg, args) }

func (l *RecordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	l.once.Do(func() {
		if l.sink == nil {
			l.sink = &logSink{}
		}
	})
	merged := maps.Clone(l.fields)
	if merged == nil {
		merged = map[string]any{}
	}
	maps.Copy(merged, fields)
	child := &RecordingLogger{sink: l.sink, fields: merged}
	child.once.Do(func() {})
	return child
}

func (l *RecordingLogger) WithContext(context.Context) interfaces.Logger { return l }

// Entries returns the recorded entries.
func (l *RecordingLogger) Entries() []LogEntry {
	l.once.Do(func() {
		if l.sink == nil {
			l.sink = &logSink{}
		}
	})
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	return append([]LogEntry(nil), l.sink.entries...)
}

// Has reports whether a message was logged at any level.
func (l *RecordingLogger) Has(msg string) bool {
	for _, entry := range l.Entries() {
		if entry.Message == msg {
			return true
		}
	}
	return false
}
