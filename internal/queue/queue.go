package queue

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/model"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/obs"
)

// Queue is an unbounded purchase event backlog feeding a buffered channel.
type Queue struct {
	mu           sync.Mutex
	backlog      []model.PurchaseEvent
	notify       chan struct{}
	out          chan model.PurchaseEvent
	shuttingDown atomic.Bool

	enqueued  atomic.Uint64
	published atomic.Uint64
	failed    atomic.Uint64
}

// Stats is a point-in-time view of the queue counters.
type Stats struct {
	Enqueued  uint64
	Published uint64
	Failed    uint64
	Backlog   int
	Depth     int
}

// Settled reports whether every enqueued event has been handled.
func (s Stats) Settled() bool {
	return s.Backlog == 0 && s.Depth == 0 && s.Enqueued == s.Published+s.Failed
}

func New(outBuffer int) *Queue {
	if outBuffer <= 0 {
		outBuffer = 64
	}
	return &Queue{
		notify: make(chan struct{}, 1),
		out:    make(chan model.PurchaseEvent, outBuffer),
	}
}

// Start runs the broker loop until ctx is done.
func (q *Queue) Start(ctx context.Context, highWatermark int) {
	go q.broker(ctx, highWatermark)
}

func (q *Queue) broker(ctx context.Context, highWatermark int) {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		q.flushOnce()
		if highWatermark > 0 {
			if sz := q.BacklogSize(); sz > highWatermark {
				obs.Logger.Warn("event backlog exceeds high watermark", "backlog_size", sz, "high_watermark", highWatermark)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-q.notify:
		case <-ticker.C:
		}
	}
}

func (q *Queue) flushOnce() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.backlog) > 0 && len(q.out) < cap(q.out) {
		item := q.backlog[0]
		q.backlog = q.backlog[1:]
		q.out <- item
	}
}

// Enqueue appends ev to the backlog. It never blocks and returns false once
// intake is closed.
func (q *Queue) Enqueue(ev model.PurchaseEvent) bool {
	if q.shuttingDown.Load() {
		return false
	}
	q.enqueued.Add(1)
	q.mu.Lock()
	q.backlog = append(q.backlog, ev)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
	return true
}

func (q *Queue) Out() <-chan model.PurchaseEvent { return q.out }

func (q *Queue) BacklogSize() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.backlog)
}

// QueueDepth returns backlog plus buffered output items.
func (q *Queue) QueueDepth() int {
	q.mu.Lock()
	bl := len(q.backlog)
	q.mu.Unlock()
	return bl + len(q.out)
}

func (q *Queue) MarkPublished() { q.published.Add(1) }

func (q *Queue) MarkFailed() { q.failed.Add(1) }

func (q *Queue) Stats() Stats {
	return Stats{
		Enqueued:  q.enqueued.Load(),
		Published: q.published.Load(),
		Failed:    q.failed.Load(),
		Backlog:   q.BacklogSize(),
		Depth:     q.QueueDepth(),
	}
}

// CloseIntake disallows future enqueues.
func (q *Queue) CloseIntake() { q.shuttingDown.Store(true) }

func (q *Queue) IsShuttingDown() bool { return q.shuttingDown.Load() }
