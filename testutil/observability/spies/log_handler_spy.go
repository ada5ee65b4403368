package spies

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogHandlerSpy is a slog.Handler implementation that captures log records for testing.
type LogHandlerSpy struct {
	records     []slog.Record
	mu          sync.Mutex
	logToStdout bool
}

// NewLogHandlerSpy creates a new LogHandlerSpy.
// Switchable to log to stdout, which can be useful for debugging tests by seeing the actual log output.
func NewLogHandlerSpy(logToStdOut bool) *LogHandlerSpy {
	return &LogHandlerSpy{
		records:     make([]slog.Record, 0),
		logToStdout: logToStdOut,
	}
}

// Handle implements slog.Handler interface.
func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record.Clone())

	if s.logToStdout {
		jsonHandler := slog.NewJSONHandler(os.Stdout, nil)
		_ = jsonHandler.Handle(ctx, record)
	}

	return nil
}

// Enabled implements slog.Handler interface.
func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

// WithAttrs implements slog.Handler interface.
func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return s
}

// WithGroup implements slog.Handler interface.
func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// GetRecordCount returns the number of captured log records.
func (s *LogHandlerSpy) GetRecordCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.records)
}

// GetRecords returns a copy of all captured log records.
func (s *LogHandlerSpy) GetRecords() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]slog.Record, len(s.records))
	copy(records, s.records)

	return records
}

// Reset clears all captured log records.
func (s *LogHandlerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = s.records[:0]
}

// SpyLogRecordMatcher narrows down captured records step by step.
type SpyLogRecordMatcher struct {
	records []slog.Record
}

// HasLog starts a matcher for records of the given level whose message contains the given text.
func (s *LogHandlerSpy) HasLog(level slog.Level, message string) *SpyLogRecordMatcher {
	matching := make([]slog.Record, 0)

	for _, record := range s.GetRecords() {
		if record.Level == level && strings.Contains(record.Message, message) {
			matching = append(matching, record)
		}
	}

	return &SpyLogRecordMatcher{records: matching}
}

// HasDebugLog starts a matcher for debug records containing message.
func (s *LogHandlerSpy) HasDebugLog(message string) *SpyLogRecordMatcher {
	return s.HasLog(slog.LevelDebug, message)
}

// HasInfoLog starts a matcher for info records containing message.
func (s *LogHandlerSpy) HasInfoLog(message string) *SpyLogRecordMatcher {
	return s.HasLog(slog.LevelInfo, message)
}

// HasWarnLog starts a matcher for warn records containing message.
func (s *LogHandlerSpy) HasWarnLog(message string) *SpyLogRecordMatcher {
	return s.HasLog(slog.LevelWarn, message)
}

// HasErrorLog starts a matcher for error records containing message.
func (s *LogHandlerSpy) HasErrorLog(message string) *SpyLogRecordMatcher {
	return s.HasLog(slog.LevelError, message)
}

// WithAttribute keeps only records carrying the attribute key.
func (m *SpyLogRecordMatcher) WithAttribute(key string) *SpyLogRecordMatcher {
	return m.filter(func(attr slog.Attr) bool { return attr.Key == key })
}

// WithAttributeValue keeps only records carrying the attribute key with the given value in its string form.
func (m *SpyLogRecordMatcher) WithAttributeValue(key, value string) *SpyLogRecordMatcher {
	return m.filter(func(attr slog.Attr) bool { return attr.Key == key && attr.Value.String() == value })
}

func (m *SpyLogRecordMatcher) filter(predicate func(attr slog.Attr) bool) *SpyLogRecordMatcher {
	matching := make([]slog.Record, 0)

	for _, record := range m.records {
		found := false
		record.Attrs(func(attr slog.Attr) bool {
			if predicate(attr) {
				found = true
				return false
			}

			return true
		})

		if found {
			matching = append(matching, record)
		}
	}

	return &SpyLogRecordMatcher{records: matching}
}

// Assert reports whether at least one record matched.
func (m *SpyLogRecordMatcher) Assert() bool {
	return len(m.records) > 0
}
