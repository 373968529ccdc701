// Package hub fans classified events out to subscribers: the store ingester,
// websocket clients, and the terminal feed.
package hub

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"starlog/internal/classifier"
	"starlog/internal/model"
)

const subscriberBuffer = 1024

// Hub receives raw journal records, classifies them, and broadcasts the
// resulting ProcessedEvent to every subscriber.
type Hub struct {
	classifier *classifier.Classifier
	input      <-chan model.RawRecord
	log        *zap.Logger

	mu          sync.RWMutex
	subscribers []chan model.ProcessedEvent
	dropped     int64
}

// New creates a Hub reading raw records from input.
func New(input <-chan model.RawRecord, c *classifier.Classifier, log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		classifier: c,
		input:      input,
		log:        log,
	}
}

// Subscribe returns a buffered channel that will receive every classified
// event. Multiple consumers can subscribe; each gets its own copy.
func (h *Hub) Subscribe() <-chan model.ProcessedEvent {
	ch := make(chan model.ProcessedEvent, subscriberBuffer)
	h.mu.Lock()
	h.subscribers = append(h.subscribers, ch)
	h.mu.Unlock()
	return ch
}

// Dropped returns how many events were dropped for slow consumers.
func (h *Hub) Dropped() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dropped
}

// Start reads, classifies, and broadcasts until the context is cancelled or
// the input channel closes.
func (h *Hub) Start(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case raw, ok := <-h.input:
			if !ok {
				return
			}
			h.broadcast(h.classifier.Classify(raw))
		}
	}
}

// broadcast sends an event to all subscribers. A subscriber whose channel is
// full has the event dropped rather than stalling the pipeline.
func (h *Hub) broadcast(ev model.ProcessedEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subscribers {
		select {
		case ch <- ev:
		default:
			h.dropped++
			h.log.Warn("dropped event for slow consumer",
				zap.String("event_type", ev.EventType),
				zap.Int64("total_dropped", h.dropped))
		}
	}
}

// closeAll closes every subscriber channel.
func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subscribers {
		close(ch)
	}
	h.subscribers = nil
}
