// Package classifier turns raw journal records into classified, enriched events.
//
// Classify is a pure transform: the same record always yields the same category,
// key data, and summary. The only state a Classifier keeps is a de-duplicated
// set of event type names it has seen but has no category mapping for, exposed
// for diagnostics.
package classifier

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"starlog/internal/model"
)

// timestampLayouts are tried in order when parsing the journal timestamp.
// The journal writes RFC3339 with a Z suffix; explicit offsets and a bare
// date-time (assumed UTC) are accepted too.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Classifier validates, categorizes, and summarizes raw journal records.
type Classifier struct {
	now func() time.Time

	mu       sync.Mutex
	unmapped map[string]struct{}
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithClock overrides the time source used for fallback timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Classifier) { c.now = now }
}

// New creates a Classifier.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		now:      time.Now,
		unmapped: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify converts a raw record into a ProcessedEvent. It never fails: records
// missing required fields come back marked invalid with type "Unknown" so gaps
// stay visible to diagnostics instead of silently disappearing.
func (c *Classifier) Classify(r model.RawRecord) model.ProcessedEvent {
	ev := model.ProcessedEvent{
		ID:      uuid.NewString(),
		IsValid: true,
		Raw:     r,
	}

	eventType, errs := validateEventName(r)
	ev.EventType = eventType

	ts, tsErrs := c.parseTimestamp(r)
	ev.Timestamp = ts
	errs = append(errs, tsErrs...)

	if len(errs) > 0 {
		ev.IsValid = false
		ev.ValidationErrors = errs
		ev.EventType = model.UnknownEventType
	}

	ev.Category = CategoryFor(ev.EventType)
	if ev.Category == model.CategoryOther && ev.EventType != model.UnknownEventType {
		c.recordUnmapped(ev.EventType)
	}

	if h, ok := handlers[ev.EventType]; ok {
		kd := h.extract(r)
		ev.KeyData = kd
		ev.Summary = h.summarize(r, kd)
	} else {
		ev.KeyData = map[string]any{}
		ev.Summary = fmt.Sprintf("%s event occurred", ev.EventType)
	}

	return ev
}

// validateEventName checks the "event" field and returns the declared type
// plus any validation errors.
func validateEventName(r model.RawRecord) (string, []string) {
	v, present := r["event"]
	if !present {
		return model.UnknownEventType, []string{"missing required field: event"}
	}
	s, ok := v.(string)
	if !ok {
		return model.UnknownEventType, []string{fmt.Sprintf("event field has invalid type %T", v)}
	}
	if s == "" {
		return model.UnknownEventType, []string{"event field is empty"}
	}
	return s, nil
}

// parseTimestamp reads the "timestamp" field. A missing or empty timestamp is
// a validation error; a present-but-unparsable one falls back to now without
// invalidating the event. Either way the result is normalized to UTC.
func (c *Classifier) parseTimestamp(r model.RawRecord) (time.Time, []string) {
	v, present := r["timestamp"]
	if !present {
		return c.now().UTC(), []string{"missing required field: timestamp"}
	}
	s, ok := v.(string)
	if !ok {
		return c.now().UTC(), []string{fmt.Sprintf("timestamp field has invalid type %T", v)}
	}
	if s == "" {
		return c.now().UTC(), []string{"timestamp field is empty"}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	// Present but unparsable: fall back to now, stay valid.
	return c.now().UTC(), nil
}

// recordUnmapped remembers a type name that has no category mapping.
func (c *Classifier) recordUnmapped(eventType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.unmapped[eventType] = struct{}{}
}

// UnmappedTypes returns the sorted set of event type names seen so far that
// fell through to CategoryOther.
func (c *Classifier) UnmappedTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.unmapped))
	for t := range c.unmapped {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
