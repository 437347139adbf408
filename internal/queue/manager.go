// Package queue delivers purchase events to a publisher through an
// autoscaled worker pool.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/config"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/model"
	"github.com/fairyhunter13/coffee-maker-simulator/internal/obs"
)

// Publisher delivers one purchase event downstream.
type Publisher interface {
	Publish(ctx context.Context, ev model.PurchaseEvent) error
}

// Manager runs the workers that hand queued events to the publisher and
// scales them with the backlog.
type Manager struct {
	cfg    config.Config
	q      *Queue
	pub    Publisher
	seq    Sequencer
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	workerCancels []context.CancelFunc
}

func NewManager(cfg config.Config, q *Queue, pub Publisher) *Manager {
	return &Manager{cfg: cfg, q: q, pub: pub}
}

// Start begins processing and autoscaling in the background.
func (m *Manager) Start(parent context.Context) {
	m.ctx, m.cancel = context.WithCancel(parent)
	m.q.Start(m.ctx, m.cfg.QueueHighWatermark)
	m.addWorkers(m.cfg.InitialWorkerCount)
	go m.scaler()
}

// Stop cancels background routines and stops workers.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.mu.Lock()
	for _, c := range m.workerCancels {
		c()
	}
	m.workerCancels = nil
	m.mu.Unlock()
}

func (m *Manager) scaler() {
	t := time.NewTicker(m.cfg.ScaleInterval)
	defer t.Stop()
	idleTicks := 0
	for {
		select {
		case <-m.ctx.Done():
			return
		case <-t.C:
			backlog := m.q.BacklogSize()
			wc := m.WorkerCount()
			if backlog > wc*m.cfg.ScaleUpBacklogPerWorker && wc < m.cfg.WorkerMax {
				m.addWorkers(1)
				idleTicks = 0
				continue
			}
			if backlog == 0 {
				idleTicks++
				if idleTicks >= m.cfg.ScaleDownIdleTicks && wc > m.cfg.WorkerMin {
					m.removeWorkers(1)
					idleTicks = 0
				}
			} else {
				idleTicks = 0
			}
		}
	}
}

func (m *Manager) addWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		wctx, cancel := context.WithCancel(m.ctx)
		m.workerCancels = append(m.workerCancels, cancel)
		go m.worker(wctx)
	}
	obs.Logger.Info("publishers scaled", "worker_count", len(m.workerCancels))
}

func (m *Manager) removeWorkers(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > len(m.workerCancels) {
		n = len(m.workerCancels)
	}
	for i := 0; i < n; i++ {
		c := m.workerCancels[len(m.workerCancels)-1]
		m.workerCancels = m.workerCancels[:len(m.workerCancels)-1]
		c()
	}
	obs.Logger.Info("publishers scaled", "worker_count", len(m.workerCancels))
}

// worker publishes events until its context is cancelled. A publish in
// flight runs under the manager context so scaling down does not cut it
// short. A failed publish is logged and counted; the event is not retried.
func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-m.q.Out():
			if err := m.pub.Publish(m.ctx, ev); err != nil {
				m.q.MarkFailed()
				obs.Logger.Error("purchase_event_failed",
					"transaction_id", ev.TransactionID,
					"sequence", ev.Sequence,
					"error", err.Error(),
				)
				continue
			}
			m.q.MarkPublished()
		}
	}
}

// Enqueue proxies to the underlying queue.
func (m *Manager) Enqueue(ev model.PurchaseEvent) bool { return m.q.Enqueue(ev) }

func (m *Manager) BacklogSize() int { return m.q.BacklogSize() }

func (m *Manager) QueueDepth() int { return m.q.QueueDepth() }

func (m *Manager) WorkerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workerCancels)
}

// NextSequence returns the next purchase sequence number.
func (m *Manager) NextSequence() uint64 { return m.seq.Next() }

func (m *Manager) IsShuttingDown() bool { return m.q.IsShuttingDown() }

func (m *Manager) CloseIntake() { m.q.CloseIntake() }

func (m *Manager) Stats() Stats { return m.q.Stats() }

// DrainUntil blocks until every enqueued event was published or failed, or
// ctx is done.
func (m *Manager) DrainUntil(ctx context.Context) bool {
	for {
		if m.q.Stats().Settled() {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
