// Package store owns the bounded event buffer, its indices, and the derived
// game-state snapshot. It is the single point of serialization for concurrent
// access: one RWMutex guards every read and write, and the lock is never held
// across a call outside the package.
package store

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"starlog/internal/daterange"
	"starlog/internal/model"
)

// DefaultCapacity bounds the ring buffer when no capacity is configured.
const DefaultCapacity = 10000

// StorageError wraps an ingestion-time failure, typically a reducer panic.
// Buffer and index updates applied before the failure are kept.
type StorageError struct {
	EventType string
	Err       error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storing %s event: %v", e.EventType, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Statistics is a point-in-time snapshot of store counters.
type Statistics struct {
	TotalProcessed int64                          `json:"total_processed"`
	ByType         map[string]int64               `json:"by_type"`
	ByCategory     map[model.EventCategory]int64  `json:"by_category"`
	BufferSize     int                            `json:"buffer_size"`
	BufferCapacity int                            `json:"buffer_capacity"`
	Uptime         string                         `json:"uptime"`
}

// HistoricalResult is the answer to a date-bounded query.
type HistoricalResult struct {
	Events     []model.ProcessedEvent `json:"events"`
	TotalCount int                    `json:"total_count"`
	StartTime  time.Time              `json:"start_time"`
	EndTime    time.Time              `json:"end_time"`
	Truncated  bool                   `json:"truncated"`
}

// HistoricalQuery describes a date-bounded query before resolution.
type HistoricalQuery struct {
	StartExpr  string
	EndExpr    string
	EventTypes []string
	Categories []model.EventCategory
	SystemName string
	Limit      int
	SortOrder  model.SortOrder
}

// Store is the concurrent, bounded, indexed event store.
type Store struct {
	mu sync.RWMutex

	capacity int
	order    []string // event IDs, oldest first
	events   map[string]model.ProcessedEvent
	byType   map[string][]string
	byCat    map[model.EventCategory][]string

	state model.GameState

	// Lifetime counters; Clear does not reset these.
	totalProcessed int64
	typeCounts     map[string]int64
	catCounts      map[model.EventCategory]int64

	startTime time.Time
	now       func() time.Time
	resolver  *daterange.Resolver
	log       *zap.Logger
	observer  func(ev model.ProcessedEvent, evicted int)
}

// Option configures a Store.
type Option func(*Store)

// WithCapacity sets the ring buffer capacity.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.capacity = n
		}
	}
}

// WithClock overrides the store's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store's logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithObserver registers a callback invoked after each successful ingestion,
// outside the lock. Used for metrics.
func WithObserver(fn func(ev model.ProcessedEvent, evicted int)) Option {
	return func(s *Store) { s.observer = fn }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		capacity:   DefaultCapacity,
		events:     make(map[string]model.ProcessedEvent),
		byType:     make(map[string][]string),
		byCat:      make(map[model.EventCategory][]string),
		typeCounts: make(map[string]int64),
		catCounts:  make(map[model.EventCategory]int64),
		now:        time.Now,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.startTime = s.now()
	s.resolver = daterange.New(s.now)
	return s
}

// StoreEvent appends an event to the buffer, updates the indices and counters,
// and runs the reducer registered for the event's type. The whole operation
// happens under one critical section. A reducer panic is recovered and
// surfaced as a StorageError without undoing the buffer/index updates.
func (s *Store) StoreEvent(ev model.ProcessedEvent) error {
	evicted, err := s.ingest(ev)
	if s.observer != nil {
		s.observer(ev, evicted)
	}
	return err
}

// ingest performs the locked portion of StoreEvent.
func (s *Store) ingest(ev model.ProcessedEvent) (evicted int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted = s.append(ev)

	s.totalProcessed++
	s.typeCounts[ev.EventType]++
	s.catCounts[ev.Category]++

	if reduce, ok := reducers[ev.EventType]; ok {
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = &StorageError{EventType: ev.EventType, Err: fmt.Errorf("reducer panic: %v", r)}
					s.log.Error("reducer failed",
						zap.String("event_type", ev.EventType),
						zap.Any("panic", r))
				}
			}()
			s.state = reduce(s.state, ev)
			s.state.LastUpdated = ev.Timestamp
		}()
	}

	return evicted, err
}

// append adds the event to the ring and indices, evicting the oldest entry
// if the buffer is at capacity. Returns how many events were evicted.
func (s *Store) append(ev model.ProcessedEvent) int {
	evicted := 0
	for len(s.order) >= s.capacity {
		s.evictOldest()
		evicted++
	}
	s.order = append(s.order, ev.ID)
	s.events[ev.ID] = ev
	s.byType[ev.EventType] = append(s.byType[ev.EventType], ev.ID)
	s.byCat[ev.Category] = append(s.byCat[ev.Category], ev.ID)
	return evicted
}

// evictOldest drops the globally oldest event. Because per-type and
// per-category index slices are in insertion order, the evicted ID is always
// at the front of its slices.
func (s *Store) evictOldest() {
	id := s.order[0]
	s.order = s.order[1:]
	ev, ok := s.events[id]
	if !ok {
		return
	}
	delete(s.events, id)
	s.byType[ev.EventType] = dropFirst(s.byType[ev.EventType], id)
	if len(s.byType[ev.EventType]) == 0 {
		delete(s.byType, ev.EventType)
	}
	s.byCat[ev.Category] = dropFirst(s.byCat[ev.Category], id)
	if len(s.byCat[ev.Category]) == 0 {
		delete(s.byCat, ev.Category)
	}
}

func dropFirst(ids []string, id string) []string {
	if len(ids) > 0 && ids[0] == id {
		return ids[1:]
	}
	// Fallback scan; should not happen given FIFO eviction.
	for i, v := range ids {
		if v == id {
			return append(ids[:i:i], ids[i+1:]...)
		}
	}
	return ids
}

// QueryEvents snapshots the buffer, applies the filter, sorts, and truncates.
func (s *Store) QueryEvents(filter model.EventFilter) []model.ProcessedEvent {
	s.mu.RLock()
	matched := make([]model.ProcessedEvent, 0, len(s.order))
	for _, id := range s.candidateIDs(filter) {
		ev, ok := s.events[id]
		if !ok {
			continue
		}
		if matches(ev, filter) {
			matched = append(matched, ev)
		}
	}
	s.mu.RUnlock()

	sortEvents(matched, filter.SortOrder)
	if filter.MaxResults > 0 && len(matched) > filter.MaxResults {
		matched = matched[:filter.MaxResults]
	}
	return matched
}

// candidateIDs narrows the scan using the by-type index when the filter names
// exactly one event type; otherwise it walks the whole buffer in order.
func (s *Store) candidateIDs(filter model.EventFilter) []string {
	if len(filter.EventTypes) == 1 {
		return s.byType[filter.EventTypes[0]]
	}
	if len(filter.EventTypes) == 0 && len(filter.Categories) == 1 {
		return s.byCat[filter.Categories[0]]
	}
	return s.order
}

// GetEventsByType returns the most recent events of one type, newest first.
// A limit of 0 means no limit.
func (s *Store) GetEventsByType(eventType string, limit int) []model.ProcessedEvent {
	return s.QueryEvents(model.EventFilter{
		EventTypes: []string{eventType},
		MaxResults: limit,
		SortOrder:  model.SortNewestFirst,
	})
}

// GetEventsByCategory returns the most recent events of one category, newest
// first. A limit of 0 means no limit.
func (s *Store) GetEventsByCategory(cat model.EventCategory, limit int) []model.ProcessedEvent {
	return s.QueryEvents(model.EventFilter{
		Categories: []model.EventCategory{cat},
		MaxResults: limit,
		SortOrder:  model.SortNewestFirst,
	})
}

// GetRecentEvents returns events from the last N minutes, newest first.
func (s *Store) GetRecentEvents(minutes int) []model.ProcessedEvent {
	cutoff := s.now().UTC().Add(-time.Duration(minutes) * time.Minute)
	return s.QueryEvents(model.EventFilter{
		StartTime: &cutoff,
		SortOrder: model.SortNewestFirst,
	})
}

// QueryHistorical resolves the date expressions, filters the buffer, and
// reports the resolved range plus whether the limit truncated the result.
func (s *Store) QueryHistorical(q HistoricalQuery) (HistoricalResult, error) {
	start, end, err := s.resolver.ResolveRange(q.StartExpr, q.EndExpr)
	if err != nil {
		return HistoricalResult{}, err
	}

	filter := model.EventFilter{
		EventTypes: q.EventTypes,
		Categories: q.Categories,
		EndTime:    &end,
		SortOrder:  q.SortOrder,
	}
	if !start.IsZero() {
		filter.StartTime = &start
	}
	if q.SystemName != "" {
		filter.SystemNames = []string{q.SystemName}
	}
	if filter.SortOrder == "" {
		filter.SortOrder = model.SortNewestFirst
	}

	events := s.QueryEvents(filter)
	total := len(events)
	truncated := false
	if q.Limit > 0 && total > q.Limit {
		events = events[:q.Limit]
		truncated = true
	}

	return HistoricalResult{
		Events:     events,
		TotalCount: total,
		StartTime:  start,
		EndTime:    end,
		Truncated:  truncated,
	}, nil
}

// GetGameState returns a deep copy of the current game state.
func (s *Store) GetGameState() model.GameState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Copy()
}

// Statistics returns running totals. Counters are lifetime values and survive
// Clear.
func (s *Store) Statistics() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byType := make(map[string]int64, len(s.typeCounts))
	for k, v := range s.typeCounts {
		byType[k] = v
	}
	byCat := make(map[model.EventCategory]int64, len(s.catCounts))
	for k, v := range s.catCounts {
		byCat[k] = v
	}

	return Statistics{
		TotalProcessed: s.totalProcessed,
		ByType:         byType,
		ByCategory:     byCat,
		BufferSize:     len(s.order),
		BufferCapacity: s.capacity,
		Uptime:         s.now().Sub(s.startTime).Truncate(time.Second).String(),
	}
}

// CleanupOlderThan removes events strictly older than the given age and
// rebuilds the indices. Returns the number of removed events.
func (s *Store) CleanupOlderThan(hours int) int {
	cutoff := s.now().UTC().Add(-time.Duration(hours) * time.Hour)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]string, 0, len(s.order))
	removed := 0
	for _, id := range s.order {
		ev, ok := s.events[id]
		if !ok {
			continue
		}
		if ev.Timestamp.Before(cutoff) {
			delete(s.events, id)
			removed++
			continue
		}
		kept = append(kept, id)
	}
	s.order = kept
	s.rebuildIndices()

	if removed > 0 {
		s.log.Info("cleanup removed old events",
			zap.Int("removed", removed),
			zap.Int("remaining", len(s.order)))
	}
	return removed
}

// rebuildIndices reconstructs the by-type and by-category indices from the
// buffer order. Caller must hold the write lock.
func (s *Store) rebuildIndices() {
	s.byType = make(map[string][]string)
	s.byCat = make(map[model.EventCategory][]string)
	for _, id := range s.order {
		ev := s.events[id]
		s.byType[ev.EventType] = append(s.byType[ev.EventType], id)
		s.byCat[ev.Category] = append(s.byCat[ev.Category], id)
	}
}

// Clear empties the buffer, indices, and game state. Lifetime counters are
// not reset.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = nil
	s.events = make(map[string]model.ProcessedEvent)
	s.byType = make(map[string][]string)
	s.byCat = make(map[model.EventCategory][]string)
	s.state = model.GameState{}
	s.log.Info("store cleared")
}

// matches applies every filter predicate to one event.
func matches(ev model.ProcessedEvent, f model.EventFilter) bool {
	if len(f.EventTypes) > 0 && !containsString(f.EventTypes, ev.EventType) {
		return false
	}
	if len(f.Categories) > 0 && !containsCategory(f.Categories, ev.Category) {
		return false
	}
	if f.StartTime != nil && ev.Timestamp.Before(*f.StartTime) {
		return false
	}
	if f.EndTime != nil && ev.Timestamp.After(*f.EndTime) {
		return false
	}
	if len(f.SystemNames) > 0 && !matchesSystem(ev, f.SystemNames) {
		return false
	}
	if f.ContainsText != "" && !matchesText(ev, f.ContainsText) {
		return false
	}
	if f.MinImportance > 0 && ev.Importance() < f.MinImportance {
		return false
	}
	return true
}

// matchesSystem checks the extracted system name in key data.
func matchesSystem(ev model.ProcessedEvent, systems []string) bool {
	sys, ok := ev.KeyData["system"].(string)
	if !ok {
		return false
	}
	for _, want := range systems {
		if strings.EqualFold(sys, want) {
			return true
		}
	}
	return false
}

// matchesText does a case-insensitive substring search over the summary and
// the raw record's string values.
func matchesText(ev model.ProcessedEvent, text string) bool {
	needle := strings.ToLower(text)
	if strings.Contains(strings.ToLower(ev.Summary), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(ev.EventType), needle) {
		return true
	}
	for _, v := range ev.Raw {
		if sv, ok := v.(string); ok && strings.Contains(strings.ToLower(sv), needle) {
			return true
		}
	}
	return false
}

func containsString(hay []string, needle string) bool {
	for _, v := range hay {
		if v == needle {
			return true
		}
	}
	return false
}

func containsCategory(hay []model.EventCategory, needle model.EventCategory) bool {
	for _, v := range hay {
		if v == needle {
			return true
		}
	}
	return false
}

// sortEvents orders the slice per the requested sort order. The default is
// newest first.
func sortEvents(events []model.ProcessedEvent, order model.SortOrder) {
	switch order {
	case model.SortOldestFirst:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Timestamp.Before(events[j].Timestamp)
		})
	case model.SortByImportance:
		sort.SliceStable(events, func(i, j int) bool {
			ii, ji := events[i].Importance(), events[j].Importance()
			if ii != ji {
				return ii > ji
			}
			return events[i].Timestamp.After(events[j].Timestamp)
		})
	default:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Timestamp.After(events[j].Timestamp)
		})
	}
}
