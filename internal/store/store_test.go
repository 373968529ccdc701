package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starlog/internal/classifier"
	"starlog/internal/daterange"
	"starlog/internal/model"
)

var fixedNow = time.Date(2026, 3, 18, 15, 0, 0, 0, time.UTC)

func newTestStore(opts ...Option) *Store {
	base := []Option{WithClock(func() time.Time { return fixedNow })}
	return New(append(base, opts...)...)
}

// event builds a valid ProcessedEvent through the real classifier so key data
// and categories match production behavior.
func event(t *testing.T, raw model.RawRecord) model.ProcessedEvent {
	t.Helper()
	c := classifier.New(classifier.WithClock(func() time.Time { return fixedNow }))
	return c.Classify(raw)
}

func jumpEvent(t *testing.T, system string, ts time.Time) model.ProcessedEvent {
	return event(t, model.RawRecord{
		"event":      "FSDJump",
		"timestamp":  ts.Format(time.RFC3339),
		"StarSystem": system,
		"JumpDist":   float64(10.5),
	})
}

func TestFIFOEvictionAtCapacity(t *testing.T) {
	s := newTestStore(WithCapacity(5))

	for i := 0; i < 8; i++ {
		ev := jumpEvent(t, fmt.Sprintf("System %d", i), fixedNow.Add(time.Duration(i)*time.Minute))
		require.NoError(t, s.StoreEvent(ev))
	}

	stats := s.Statistics()
	assert.Equal(t, 5, stats.BufferSize)
	assert.Equal(t, int64(8), stats.TotalProcessed)

	events := s.QueryEvents(model.EventFilter{SortOrder: model.SortOldestFirst})
	require.Len(t, events, 5)
	// Oldest three were evicted.
	assert.Equal(t, "System 3", events[0].KeyData["system"])
	// Most recently appended event is always retrievable.
	assert.Equal(t, "System 7", events[4].KeyData["system"])
}

func TestSortOrderStrictness(t *testing.T) {
	s := newTestStore()

	for i := 0; i < 10; i++ {
		require.NoError(t, s.StoreEvent(jumpEvent(t, "S", fixedNow.Add(time.Duration(i)*time.Second))))
	}

	newest := s.QueryEvents(model.EventFilter{SortOrder: model.SortNewestFirst})
	for i := 1; i < len(newest); i++ {
		assert.True(t, newest[i-1].Timestamp.After(newest[i].Timestamp),
			"newest-first must be strictly descending")
	}

	oldest := s.QueryEvents(model.EventFilter{SortOrder: model.SortOldestFirst})
	for i := 1; i < len(oldest); i++ {
		assert.True(t, oldest[i-1].Timestamp.Before(oldest[i].Timestamp),
			"oldest-first must be strictly ascending")
	}
}

func TestJumpThenDockReducers(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.StoreEvent(jumpEvent(t, "Lave", fixedNow)))

	state := s.GetGameState()
	assert.Equal(t, "Lave", state.CurrentSystem)
	assert.False(t, state.Status.Docked)
	assert.True(t, state.Status.Supercruise)

	dock := event(t, model.RawRecord{
		"event":       "Docked",
		"timestamp":   fixedNow.Add(time.Minute).Format(time.RFC3339),
		"StationName": "Lave Station",
		"StarSystem":  "Lave",
	})
	require.NoError(t, s.StoreEvent(dock))

	state = s.GetGameState()
	assert.Equal(t, "Lave Station", state.CurrentStation)
	assert.True(t, state.Status.Docked)
	assert.False(t, state.Status.Supercruise)
}

func TestGameStateIsACopy(t *testing.T) {
	s := newTestStore()
	require.NoError(t, s.StoreEvent(jumpEvent(t, "Diso", fixedNow)))

	state := s.GetGameState()
	state.CurrentSystem = "Mutated"

	assert.Equal(t, "Diso", s.GetGameState().CurrentSystem)
}

func TestStatusFlagsReducer(t *testing.T) {
	s := newTestStore()

	// Docked | Landed cleared; supercruise + fsd charging + low fuel.
	flags := int64(flagSupercruise | flagFSDCharging | flagLowFuel | flagNightVision)
	status := event(t, model.RawRecord{
		"event":     "Status",
		"timestamp": fixedNow.Format(time.RFC3339),
		"Flags":     float64(flags),
	})
	require.NoError(t, s.StoreEvent(status))

	st := s.GetGameState().Status
	assert.True(t, st.Supercruise)
	assert.True(t, st.FSDCharging)
	assert.True(t, st.LowFuel)
	assert.True(t, st.NightVision)
	assert.False(t, st.Docked)
	assert.False(t, st.Overheating)
}

func TestQueryFilters(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.StoreEvent(jumpEvent(t, "Lave", fixedNow.Add(-time.Hour))))
	require.NoError(t, s.StoreEvent(jumpEvent(t, "Diso", fixedNow.Add(-30*time.Minute))))
	require.NoError(t, s.StoreEvent(event(t, model.RawRecord{
		"event":     "MarketSell",
		"timestamp": fixedNow.Add(-10 * time.Minute).Format(time.RFC3339),
		"Type":      "Gold",
		"Count":     float64(8),
	})))

	byType := s.QueryEvents(model.EventFilter{EventTypes: []string{"FSDJump"}})
	assert.Len(t, byType, 2)

	byCat := s.QueryEvents(model.EventFilter{Categories: []model.EventCategory{model.CategoryTrading}})
	require.Len(t, byCat, 1)
	assert.Equal(t, "MarketSell", byCat[0].EventType)

	bySystem := s.QueryEvents(model.EventFilter{SystemNames: []string{"lave"}})
	require.Len(t, bySystem, 1, "system match is case-insensitive")
	assert.Equal(t, "Lave", bySystem[0].KeyData["system"])

	byText := s.QueryEvents(model.EventFilter{ContainsText: "gold"})
	require.Len(t, byText, 1)
	assert.Equal(t, "MarketSell", byText[0].EventType)

	start := fixedNow.Add(-40 * time.Minute)
	inWindow := s.QueryEvents(model.EventFilter{StartTime: &start})
	assert.Len(t, inWindow, 2)

	capped := s.QueryEvents(model.EventFilter{MaxResults: 1})
	assert.Len(t, capped, 1)
}

func TestConvenienceQueries(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.StoreEvent(jumpEvent(t, "Lave", fixedNow.Add(-2*time.Hour))))
	require.NoError(t, s.StoreEvent(jumpEvent(t, "Diso", fixedNow.Add(-5*time.Minute))))

	assert.Len(t, s.GetEventsByType("FSDJump", 0), 2)
	assert.Len(t, s.GetEventsByType("FSDJump", 1), 1)
	assert.Len(t, s.GetEventsByCategory(model.CategoryNavigation, 0), 2)
	assert.Empty(t, s.GetEventsByCategory(model.CategoryCombat, 0))

	recent := s.GetRecentEvents(60)
	require.Len(t, recent, 1)
	assert.Equal(t, "Diso", recent[0].KeyData["system"])
}

func TestHistoricalQueryRange(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.StoreEvent(jumpEvent(t, "Old", fixedNow.Add(-40*24*time.Hour))))
	require.NoError(t, s.StoreEvent(jumpEvent(t, "Recent", fixedNow.Add(-2*24*time.Hour))))

	res, err := s.QueryHistorical(HistoricalQuery{StartExpr: "last month", EndExpr: "today"})
	require.NoError(t, err)

	assert.True(t, !res.StartTime.After(res.EndTime), "resolved start must not be after end")
	require.Len(t, res.Events, 1)
	assert.Equal(t, "Recent", res.Events[0].KeyData["system"])
	for _, ev := range res.Events {
		assert.False(t, ev.Timestamp.Before(res.StartTime))
		assert.False(t, ev.Timestamp.After(res.EndTime))
	}
}

func TestHistoricalQueryInvertedRangeFails(t *testing.T) {
	s := newTestStore()

	_, err := s.QueryHistorical(HistoricalQuery{StartExpr: "today", EndExpr: "last month"})
	require.Error(t, err)

	var rangeErr *daterange.RangeError
	assert.True(t, errors.As(err, &rangeErr))
}

func TestHistoricalQueryBadExpressionFails(t *testing.T) {
	s := newTestStore()

	_, err := s.QueryHistorical(HistoricalQuery{StartExpr: "the before times"})
	require.Error(t, err)

	var parseErr *daterange.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestHistoricalQueryTruncation(t *testing.T) {
	s := newTestStore()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.StoreEvent(jumpEvent(t, "S", fixedNow.Add(-time.Duration(i)*time.Hour))))
	}

	res, err := s.QueryHistorical(HistoricalQuery{StartExpr: "yesterday", EndExpr: "today", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, 5, res.TotalCount)
	assert.Len(t, res.Events, 3)
	assert.True(t, res.Truncated)
}

func TestCleanupOlderThan(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.StoreEvent(jumpEvent(t, "Ancient", fixedNow.Add(-48*time.Hour))))
	require.NoError(t, s.StoreEvent(jumpEvent(t, "Fresh", fixedNow.Add(-time.Hour))))

	removed := s.CleanupOlderThan(24)
	assert.Equal(t, 1, removed)

	// Indices must stay consistent with the remaining buffer contents.
	byType := s.GetEventsByType("FSDJump", 0)
	require.Len(t, byType, 1)
	assert.Equal(t, "Fresh", byType[0].KeyData["system"])

	assert.Equal(t, 1, s.Statistics().BufferSize)
}

func TestClearKeepsLifetimeCounters(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.StoreEvent(jumpEvent(t, "Lave", fixedNow)))
	require.NoError(t, s.StoreEvent(jumpEvent(t, "Diso", fixedNow)))

	s.Clear()

	stats := s.Statistics()
	assert.Equal(t, 0, stats.BufferSize)
	assert.Equal(t, int64(2), stats.TotalProcessed, "lifetime counters survive Clear")
	assert.Equal(t, int64(2), stats.ByType["FSDJump"])
	assert.Equal(t, model.GameState{}, s.GetGameState())
	assert.Empty(t, s.QueryEvents(model.EventFilter{}))
}

func TestReducerPanicSurfacesAsStorageError(t *testing.T) {
	s := newTestStore()

	reducers["__explodes"] = func(state model.GameState, ev model.ProcessedEvent) model.GameState {
		panic("boom")
	}
	defer delete(reducers, "__explodes")

	ev := jumpEvent(t, "Lave", fixedNow)
	ev.EventType = "__explodes"

	err := s.StoreEvent(ev)
	require.Error(t, err)

	var storageErr *StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "__explodes", storageErr.EventType)

	// The buffer/index updates applied before the failure are kept.
	assert.Equal(t, 1, s.Statistics().BufferSize)
}

func TestImportanceSortAndFilter(t *testing.T) {
	s := newTestStore()

	require.NoError(t, s.StoreEvent(event(t, model.RawRecord{
		"event":     "Music",
		"timestamp": fixedNow.Format(time.RFC3339),
	})))
	require.NoError(t, s.StoreEvent(event(t, model.RawRecord{
		"event":       "Bounty",
		"timestamp":   fixedNow.Add(-time.Minute).Format(time.RFC3339),
		"TotalReward": float64(100000),
	})))

	byImportance := s.QueryEvents(model.EventFilter{SortOrder: model.SortByImportance})
	require.Len(t, byImportance, 2)
	assert.Equal(t, "Bounty", byImportance[0].EventType)

	important := s.QueryEvents(model.EventFilter{MinImportance: 5})
	require.Len(t, important, 1)
	assert.Equal(t, "Bounty", important[0].EventType)
}
