package spies

import (
	"context"
	"maps"
	"sync"

	"github.com/johnmillerATcodemag-com/Zeus.People-sub005/eventstore"
)

// SpySpanContext is the span handed out by TracingCollectorSpy.
type SpySpanContext struct {
	mu         sync.Mutex
	name       string
	status     string
	attributes map[string]string
}

func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = status
}

func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attributes[key] = value
}

// SpySpanRecord is a finished span.
type SpySpanRecord struct {
	Name            string
	Status          string
	StartAttributes map[string]string
	EndAttributes   map[string]string
	SpanAttributes  map[string]string
}

// TracingCollectorSpy captures started and finished spans.
type TracingCollectorSpy struct {
	mu       sync.Mutex
	started  map[*SpySpanContext]map[string]string
	finished []SpySpanRecord
}

// NewTracingCollectorSpy creates a new TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{started: make(map[*SpySpanContext]map[string]string)}
}

func (s *TracingCollectorSpy) StartSpan(
	ctx context.Context,
	name string,
	attrs map[string]string,
) (context.Context, eventstore.SpanContext) {

	span := &SpySpanContext{name: name, attributes: make(map[string]string)}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.started[span] = maps.Clone(attrs)

	return ctx, span
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpySpanContext)
	if !ok {
		return
	}

	span.mu.Lock()
	spanAttributes := maps.Clone(span.attributes)
	span.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.finished = append(s.finished, SpySpanRecord{
		Name:            span.name,
		Status:          status,
		StartAttributes: s.started[span],
		EndAttributes:   maps.Clone(attrs),
		SpanAttributes:  spanAttributes,
	})
	delete(s.started, span)
}

// GetSpanRecords returns a copy of all finished spans.
func (s *TracingCollectorSpy) GetSpanRecords() []SpySpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := make([]SpySpanRecord, len(s.finished))
	copy(records, s.finished)

	return records
}

// SpanRecordMatcher narrows down finished spans step by step.
type SpanRecordMatcher struct {
	records []SpySpanRecord
}

// HasSpanRecordForName starts a matcher over finished spans with the given name.
func (s *TracingCollectorSpy) HasSpanRecordForName(name string) *SpanRecordMatcher {
	matching := make([]SpySpanRecord, 0)

	for _, record := range s.GetSpanRecords() {
		if record.Name == name {
			matching = append(matching, record)
		}
	}

	return &SpanRecordMatcher{records: matching}
}

// WithStatus keeps only spans finished with status.
func (m *SpanRecordMatcher) WithStatus(status string) *SpanRecordMatcher {
	return m.filter(func(r SpySpanRecord) bool { return r.Status == status })
}

// WithStartAttribute keeps only spans started with the attribute.
func (m *SpanRecordMatcher) WithStartAttribute(key, value string) *SpanRecordMatcher {
	return m.filter(func(r SpySpanRecord) bool { return r.StartAttributes[key] == value })
}

// WithEndAttribute keeps only spans finished with the attribute.
func (m *SpanRecordMatcher) WithEndAttribute(key, value string) *SpanRecordMatcher {
	return m.filter(func(r SpySpanRecord) bool { return r.EndAttributes[key] == value })
}

func (m *SpanRecordMatcher) filter(predicate func(SpySpanRecord) bool) *SpanRecordMatcher {
	matching := make([]SpySpanRecord, 0)

	for _, record := range m.records {
		if predicate(record) {
			matching = append(matching, record)
		}
	}

	return &SpanRecordMatcher{records: matching}
}

// Assert reports whether at least one span matched.
func (m *SpanRecordMatcher) Assert() bool {
	return len(m.records) > 0
}
