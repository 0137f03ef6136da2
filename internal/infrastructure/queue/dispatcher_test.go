package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/eschool/eschool-api/internal/api/metrics"
	"github.com/eschool/eschool-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AuthEvent
	err    error
	gate   chan struct{}
}

func (r *recordingRepo) InsertEvent(_ context.Context, e *domain.AuthEvent) error {
	if r.gate != nil {
		<-r.gate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *recordingRepo) snapshot() []domain.AuthEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuthEvent(nil), r.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestDispatcher_PersistsInPerUserOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(3, repo, discardLogger)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	types := []domain.AuthEventType{
		domain.EventSignup, domain.EventLoginFailed, domain.EventLoginSucceeded, domain.EventEnrolled,
	}
	for _, typ := range types {
		d.Record(domain.AuthEvent{Type: typ, Email: "ada@example.com"})
	}

	waitFor(t, func() bool { return len(repo.snapshot()) == len(types) })
	for i, e := range repo.snapshot() {
		if e.Type != types[i] {
			t.Errorf("event %d: expected %s, got %s", i, types[i], e.Type)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingRepo{}, discardLogger)
	first := d.shardIndex("ada@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("ada@example.com"); got != first {
			t.Fatalf("expected shard %d, got %d", first, got)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard out of range: %d", first)
	}
}

func TestDispatcher_DefaultWorkers(t *testing.T) {
	d := NewDispatcher(0, &recordingRepo{}, discardLogger)
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}

func TestDispatcher_RecordDropsWhenFull(t *testing.T) {
	// Workers are never started, so the single channel fills up.
	d := NewDispatcher(1, &recordingRepo{}, discardLogger)
	dropped := metrics.AuditEventsTotal.WithLabelValues(string(domain.EventLoginFailed), "dropped")
	before := testutil.ToFloat64(dropped)

	done := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+5; i++ {
			d.Record(domain.AuthEvent{Type: domain.EventLoginFailed, Email: "x@example.com"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Record blocked on a full queue")
	}
	if got := testutil.ToFloat64(dropped) - before; got != 5 {
		t.Fatalf("expected 5 dropped events, got %v", got)
	}
}

func TestDispatcher_PersistFailureIsCounted(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo down")}
	d := NewDispatcher(1, repo, discardLogger)
	failed := metrics.AuditEventsTotal.WithLabelValues(string(domain.EventEnrolled), "failed")
	before := testutil.ToFloat64(failed)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)
	d.Record(domain.AuthEvent{Type: domain.EventEnrolled, Email: "ada@example.com"})

	waitFor(t, func() bool { return testutil.ToFloat64(failed)-before == 1 })
}

func TestDispatcher_StopsOnCancel(t *testing.T) {
	repo := &recordingRepo{gate: make(chan struct{})}
	d := NewDispatcher(1, repo, discardLogger)
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()
	close(repo.gate)

	// Give the worker a chance to observe cancellation, then enqueue.
	time.Sleep(20 * time.Millisecond)
	d.Record(domain.AuthEvent{Type: domain.EventSignup, Email: "late@example.com"})
	time.Sleep(20 * time.Millisecond)
	if n := len(repo.snapshot()); n != 0 {
		t.Fatalf("expected no events after cancel, got %d", n)
	}
}
