package sse

import (
	"strings"
	"testing"
	"time"
)

func recv(t *testing.T, ch chan []byte) string {
	t.Helper()
	select {
	case msg := <-ch:
		return string(msg)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return ""
	}
}

func TestSubscribeAndPublish(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	if got := b.ClientCount(); got != 1 {
		t.Fatalf("client count = %d, want 1", got)
	}

	b.PublishApplied("trip1", "added the cruise day", map[string]int{"itinerary": 1})
	msg := recv(t, ch)
	if !strings.HasPrefix(msg, "event: trip.applied\n") {
		t.Errorf("message = %q", msg)
	}
	if !strings.Contains(msg, `"summary":"added the cruise day"`) {
		t.Errorf("payload missing summary: %q", msg)
	}
}

func TestPublishEnrichedEvent(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	b.PublishEnriched("trip1", "i1", "Milford Sound, Southland, New Zealand")
	msg := recv(t, ch)
	if !strings.HasPrefix(msg, "event: trip.enriched\n") {
		t.Errorf("message = %q", msg)
	}
	if !strings.Contains(msg, `"itemId":"i1"`) {
		t.Errorf("payload = %q", msg)
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	a := b.Subscribe()
	c := b.Subscribe()
	b.PublishApplied("trip1", "fanout", nil)

	for _, ch := range []chan []byte{a, c} {
		if msg := recv(t, ch); !strings.Contains(msg, "fanout") {
			t.Errorf("message = %q", msg)
		}
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()
	defer b.Close()

	ch := b.Subscribe()
	b.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel, got message")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after unsubscribe")
	}
	if got := b.ClientCount(); got != 0 {
		t.Errorf("client count = %d, want 0", got)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()

	b.Close()
	b.Close()

	if _, ok := <-ch; ok {
		t.Error("client channel should be closed on shutdown")
	}
	// Post-close operations are no-ops rather than panics.
	b.Publish(Event{Type: "trip.applied"})
	if got := b.ClientCount(); got != 0 {
		t.Errorf("client count after close = %d", got)
	}
}
