package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/config"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/model"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/obs"
)

// recorder is a Publisher that keeps what it was given.
type recorder struct {
	mu    sync.Mutex
	seen  []model.PurchaseEvent
	delay time.Duration
	fail  func(model.PurchaseEvent) bool
}

func (r *recorder) Publish(ctx context.Context, ev model.PurchaseEvent) error {
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if r.fail != nil && r.fail(ev) {
		return errors.New("broker unavailable")
	}
	r.mu.Lock()
	r.seen = append(r.seen, ev)
	r.mu.Unlock()
	return nil
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seen)
}

func TestQueueNonBlockingEnqueue(t *testing.T) {
	q := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q.Start(ctx, 0)
	for i := 0; i < 1000; i++ {
		if ok := q.Enqueue(model.PurchaseEvent{Sequence: uint64(i + 1)}); !ok {
			t.Fatalf("enqueue failed at %d", i)
		}
	}
	if q.BacklogSize() == 0 {
		t.Fatalf("expected backlog > 0")
	}
	if st := q.Stats(); st.Enqueued != 1000 || st.Settled() {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestQueueShutdownIntake(t *testing.T) {
	q := New(1)
	q.CloseIntake()
	if !q.IsShuttingDown() {
		t.Fatalf("expected shutting down true")
	}
	if ok := q.Enqueue(model.PurchaseEvent{Sequence: 1}); ok {
		t.Fatalf("expected enqueue false when shutting down")
	}
}

func TestManagerDrain(t *testing.T) {
	cfg := config.Load()
	obs.InitLogger()
	pub := &recorder{}
	mgr := NewManager(cfg, New(16), pub)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)
	defer mgr.Stop()
	for i := 0; i < 100; i++ {
		_ = mgr.Enqueue(model.PurchaseEvent{Sequence: mgr.NextSequence()})
	}
	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancelDrain()
	if ok := mgr.DrainUntil(ctxDrain); !ok {
		t.Fatalf("expected drain true")
	}
	if pub.count() != 100 {
		t.Fatalf("expected 100 published, got %d", pub.count())
	}
	if st := mgr.Stats(); st.Published != 100 || st.Failed != 0 {
		t.Fatalf("unexpected stats %+v", st)
	}
}

func TestManagerCountsFailures(t *testing.T) {
	cfg := config.Load()
	obs.InitLogger()
	pub := &recorder{fail: func(ev model.PurchaseEvent) bool { return ev.Sequence%2 == 0 }}
	mgr := NewManager(cfg, New(4), pub)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr.Start(ctx)
	defer mgr.Stop()
	for i := 1; i <= 10; i++ {
		_ = mgr.Enqueue(model.PurchaseEvent{Sequence: uint64(i)})
	}
	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancelDrain()
	if ok := mgr.DrainUntil(ctxDrain); !ok {
		t.Fatalf("failed events must still settle the queue")
	}
	st := mgr.Stats()
	if st.Published != 5 || st.Failed != 5 {
		t.Fatalf("expected 5 published and 5 failed, got %+v", st)
	}
}

func TestSequencerIsMonotonic(t *testing.T) {
	var s Sequencer
	var wg sync.WaitGroup
	seen := make(chan uint64, 200)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- s.Next()
		}()
	}
	wg.Wait()
	close(seen)
	unique := map[uint64]bool{}
	for n := range seen {
		if n == 0 || n > 200 || unique[n] {
			t.Fatalf("bad sequence number %d", n)
		}
		unique[n] = true
	}
}
