package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/helpdesk/pkg/ticket"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func (t testConfig) LogLevel() string {
	return "error"
}

func TestPersistenceWatchEmitsBlobChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe before storing.
	time.Sleep(50 * time.Millisecond)

	tk := ticket.New(1, "hello world", "", ticket.PriorityLow, "x@y.com", "X", time.Now())
	if err := p.StoreTickets([]*ticket.Ticket{tk}); err != nil {
		t.Fatalf("store tickets: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventStoreInvalidated {
				return
			}
			if evt.Type == EventBlobChanged {
				if evt.Key != KeyTickets {
					t.Fatalf("expected key %q, got %q", KeyTickets, evt.Key)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for blob change event")
		}
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 8)
	send := func(ev Event) { got <- ev }
	for i := 0; i < 5; i++ {
		th.Enqueue(Event{Type: EventBlobChanged, Key: KeyTickets}, send)
	}

	select {
	case ev := <-got:
		if ev.Key != KeyTickets {
			t.Fatalf("unexpected key %q", ev.Key)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for flush")
	}
	select {
	case ev := <-got:
		t.Fatalf("expected a single coalesced event, got extra %+v", ev)
	case <-time.After(60 * time.Millisecond):
	}
}
