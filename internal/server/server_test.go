package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starlog/internal/classifier"
	"starlog/internal/hub"
	"starlog/internal/metrics"
	"starlog/internal/model"
	"starlog/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()

	st := store.New()
	input := make(chan model.RawRecord)
	h := hub.New(input, classifier.New(), nil)
	return New(st, h, metrics.New(), nil, "0"), st
}

func ingest(t *testing.T, st *store.Store, raw model.RawRecord) {
	t.Helper()
	require.NoError(t, st.StoreEvent(classifier.New().Classify(raw)))
}

func get(s *Server, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	s.engine.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(s, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestStateEndpointReflectsReducers(t *testing.T) {
	s, st := newTestServer(t)

	ingest(t, st, model.RawRecord{
		"event":      "FSDJump",
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"StarSystem": "Achenar",
	})

	w := get(s, "/api/state")
	assert.Equal(t, http.StatusOK, w.Code)

	var state model.GameState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, "Achenar", state.CurrentSystem)
	assert.True(t, state.Status.Supercruise)
}

func TestEventsEndpointFilters(t *testing.T) {
	s, st := newTestServer(t)

	now := time.Now().UTC()
	ingest(t, st, model.RawRecord{
		"event":      "FSDJump",
		"timestamp":  now.Format(time.RFC3339),
		"StarSystem": "Achenar",
	})
	ingest(t, st, model.RawRecord{
		"event":     "MarketSell",
		"timestamp": now.Format(time.RFC3339),
		"Type":      "Gold",
		"Count":     float64(4),
	})

	w := get(s, "/api/events?types=FSDJump")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Events []model.ProcessedEvent `json:"events"`
		Count  int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "FSDJump", body.Events[0].EventType)

	w = get(s, "/api/events?categories=Trading")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "MarketSell", body.Events[0].EventType)
}

func TestEventsEndpointRejectsBadInput(t *testing.T) {
	s, _ := newTestServer(t)

	assert.Equal(t, http.StatusBadRequest, get(s, "/api/events?categories=Nonsense").Code)
	assert.Equal(t, http.StatusBadRequest, get(s, "/api/events?start=not-a-time").Code)
	assert.Equal(t, http.StatusBadRequest, get(s, "/api/events?limit=banana").Code)
}

func TestHistoryEndpoint(t *testing.T) {
	s, st := newTestServer(t)

	ingest(t, st, model.RawRecord{
		"event":      "FSDJump",
		"timestamp":  time.Now().UTC().Add(-time.Hour).Format(time.RFC3339),
		"StarSystem": "Sol",
	})

	w := get(s, "/api/history?start=yesterday&end=today")
	require.Equal(t, http.StatusOK, w.Code)

	var result store.HistoricalResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.TotalCount)
	assert.False(t, result.Truncated)
}

func TestHistoryEndpointBadExpression(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(s, "/api/history?start=the+before+times")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryEndpointInvertedRange(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(s, "/api/history?start=today&end=last+week")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	s, st := newTestServer(t)

	ingest(t, st, model.RawRecord{
		"event":     "Music",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})

	w := get(s, "/api/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats store.Statistics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(1), stats.TotalProcessed)
	assert.Equal(t, int64(1), stats.ByType["Music"])
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	w := get(s, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}
