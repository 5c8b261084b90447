// Package queue implements the in-memory cache warming queue and its
// autoscaling worker pool.
package queue

import (
	"context"
	"sync"
	"time"

	"github.com/fairyhunter13/beerxml-recipe-service/internal/config"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/model"
	"github.com/fairyhunter13/beerxml-recipe-service/internal/obs"
)

// Warmer renders a job into the fragment cache.
type Warmer interface {
	Warm(ctx context.Context, job model.WarmJob) error
}

// Manager coordinates workers draining the queue and scales them with the
// backlog.
type Manager struct {
	cfg    config.Config
	q      *Queue
	warmer Warmer
	seq    Sequencer
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	workerCancels []context.CancelFunc
}

// NewManager constructs a Manager with the given config, queue, and warmer.
func NewManager(cfg config.Config, q *Queue, w Warmer) *Manager {
	return &Manager{cfg: cfg, q: q, warmer: w}
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
	obs.WarmWorkers.Set(0)
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
	obs.WarmWorkers.Set(float64(len(m.workerCancels)))
	obs.Logger.Info("workers scaled", "worker_count", len(m.workerCancels))
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
	obs.WarmWorkers.Set(float64(len(m.workerCancels)))
	obs.Logger.Info("workers scaled", "worker_count", len(m.workerCancels))
}

// worker renders jobs until ctx is done. A failed job is logged and
// dropped; it is never retried.
func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-m.q.Out():
			err := m.warmer.Warm(ctx, job)
			if err != nil {
				obs.WarmJobs.WithLabelValues("failed").Inc()
				obs.Logger.Warn("warm_failed", "url", job.URL, "sequence", job.Sequence, "error", err)
			} else {
				obs.WarmJobs.WithLabelValues("done").Inc()
			}
			m.q.MarkProcessed(err != nil)
		}
	}
}

// Enqueue stamps job with the next sequence number and queues it. It
// returns the sequence and false when intake is closed.
func (m *Manager) Enqueue(job model.WarmJob) (uint64, bool) {
	job.Sequence = m.seq.Next()
	if !m.q.Enqueue(job) {
		return job.Sequence, false
	}
	obs.WarmJobs.WithLabelValues("enqueued").Inc()
	return job.Sequence, true
}

// BacklogSize returns pending items in the queue.
func (m *Manager) BacklogSize() int { return m.q.BacklogSize() }

// QueueDepth returns backlog plus buffered output items.
func (m *Manager) QueueDepth() int { return m.q.QueueDepth() }

// WorkerCount returns the current number of workers.
func (m *Manager) WorkerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.workerCancels)
}

// IsShuttingDown reports whether new enqueues are rejected.
func (m *Manager) IsShuttingDown() bool { return m.q.IsShuttingDown() }

// CloseIntake disallows future enqueues.
func (m *Manager) CloseIntake() { m.q.CloseIntake() }

// Stats exposes the underlying queue counters.
func (m *Manager) Stats() Stats { return m.q.Stats() }

// DrainUntil blocks until every accepted job has been processed or ctx is
// done.
func (m *Manager) DrainUntil(ctx context.Context) bool {
	for {
		s := m.q.Stats()
		if s.Backlog == 0 && s.Depth == 0 && s.Enqueued == s.Processed {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(50 * time.Millisecond):
		}
	}
}
