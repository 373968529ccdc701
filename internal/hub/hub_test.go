package hub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starlog/internal/classifier"
	"starlog/internal/model"
)

func TestHubClassifiesAndBroadcasts(t *testing.T) {
	input := make(chan model.RawRecord, 10)
	h := New(input, classifier.New(), nil)

	sub1 := h.Subscribe()
	sub2 := h.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Start(ctx)

	input <- model.RawRecord{
		"event":      "FSDJump",
		"timestamp":  "2026-03-18T10:00:00Z",
		"StarSystem": "Lave",
	}

	for _, sub := range []<-chan model.ProcessedEvent{sub1, sub2} {
		select {
		case ev := <-sub:
			assert.Equal(t, "FSDJump", ev.EventType)
			assert.Equal(t, model.CategoryNavigation, ev.Category)
			assert.Equal(t, "Lave", ev.KeyData["system"])
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for broadcast")
		}
	}
}

func TestHubInvalidRecordStillBroadcast(t *testing.T) {
	input := make(chan model.RawRecord, 10)
	h := New(input, classifier.New(), nil)

	sub := h.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Start(ctx)

	// Wrong-typed event field: classified invalid, but the stream continues.
	input <- model.RawRecord{"event": float64(123), "timestamp": "2026-03-18T10:00:00Z"}
	input <- model.RawRecord{"event": "Docked", "timestamp": "2026-03-18T10:00:01Z"}

	select {
	case ev := <-sub:
		assert.False(t, ev.IsValid)
		assert.Equal(t, model.UnknownEventType, ev.EventType)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for invalid event")
	}

	select {
	case ev := <-sub:
		require.True(t, ev.IsValid)
		assert.Equal(t, "Docked", ev.EventType)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for follow-up event")
	}
}

func TestHubSlowConsumerDrops(t *testing.T) {
	input := make(chan model.RawRecord, 10)
	h := New(input, classifier.New(), nil)

	// Subscribe but never read.
	_ = h.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.Start(ctx)

	for i := 0; i < subscriberBuffer+50; i++ {
		input <- model.RawRecord{"event": "Music", "timestamp": "2026-03-18T10:00:00Z"}
	}

	assert.Eventually(t, func() bool { return h.Dropped() > 0 },
		2*time.Second, 10*time.Millisecond, "expected drops for a slow consumer")
}

func TestHubDrainsBacklogAfterInputCloses(t *testing.T) {
	input := make(chan model.RawRecord, 100)
	h := New(input, classifier.New(), nil)
	sub := h.Subscribe()

	for i := 0; i < 100; i++ {
		input <- model.RawRecord{"event": "Music", "timestamp": "2026-03-18T10:00:00Z"}
	}
	close(input)

	// A hub on an uncancelled context must deliver the whole backlog before
	// closing its subscribers; shutdown relies on this to flush the tailer's
	// final lines.
	go h.Start(context.Background())

	count := 0
	deadline := time.After(5 * time.Second)
	for {
		select {
		case _, ok := <-sub:
			if !ok {
				assert.Equal(t, 100, count)
				return
			}
			count++
		case <-deadline:
			t.Fatalf("timed out after %d of 100 events", count)
		}
	}
}

func TestHubClosesSubscribersOnInputClose(t *testing.T) {
	input := make(chan model.RawRecord)
	h := New(input, classifier.New(), nil)
	sub := h.Subscribe()

	go h.Start(context.Background())
	close(input)

	select {
	case _, ok := <-sub:
		assert.False(t, ok, "subscriber channel should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close")
	}
}
