package spelling

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/richdoc/internal/editor"
	"github.com/dshills/richdoc/internal/engine/document"
)

// Reaction checks the text of every changed node on a worker pool.
//
// Each change gives the node a new request id. Results come back on the
// workers' goroutines and wait until Apply, called on the editor's thread,
// installs the ones whose id is still current. A result for text that has
// since changed is discarded.
type Reaction struct {
	checker   Checker
	logger    *zap.Logger
	workers   int
	queueSize int
	timeout   time.Duration

	mu       sync.Mutex
	queue    chan job
	running  atomic.Bool
	wg       sync.WaitGroup
	nextID   uint64
	requests map[string]uint64
	mistakes map[string][]Mistake
	done     []result
	ready    chan struct{}

	checked atomic.Uint64
	stale   atomic.Uint64
	dropped atomic.Uint64
}

type job struct {
	nodeID string
	id     uint64
	text   string
}

type result struct {
	job
	mistakes []Mistake
	err      error
}

// Option configures a Reaction.
type Option func(*Reaction)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) Option {
	return func(r *Reaction) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithQueueSize sets how many checks may wait for a worker.
func WithQueueSize(n int) Option {
	return func(r *Reaction) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// WithTimeout bounds a single check.
func WithTimeout(d time.Duration) Option {
	return func(r *Reaction) { r.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Reaction) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReaction creates a spelling reaction. Call Start before use.
func NewReaction(checker Checker, opts ...Option) *Reaction {
	r := &Reaction{
		checker:   checker,
		logger:    zap.NewNop(),
		workers:   2,
		queueSize: 256,
		timeout:   5 * time.Second,
		requests:  make(map[string]uint64),
		mistakes:  make(map[string][]Mistake),
		ready:     make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start starts the worker pool.
func (r *Reaction) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running.Load() {
		return ErrAlreadyRunning
	}
	r.queue = make(chan job, r.queueSize)
	r.running.Store(true)
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker(r.queue)
	}
	return nil
}

// Stop stops the workers after the queued checks finish, or when ctx is
// done.
func (r *Reaction) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running.Load() {
		r.mu.Unlock()
		return ErrNotRunning
	}
	r.running.Store(false)
	close(r.queue)
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// React implements editor.Reaction.
func (r *Reaction) React(ctx *editor.EditContext, _ *editor.Editor, events []editor.Event) {
	r.Observe(ctx.Document, events)
}

// Observe schedules checks for the nodes events touched. The editor does
// not run reactions for undo and redo, so callers pass those events here.
func (r *Reaction) Observe(doc *document.Document, events []editor.Event) {
	for _, ev := range events {
		switch ev := ev.(type) {
		case editor.NodeRemovedEvent:
			r.forget(ev.NodeID)
		case editor.NodeInsertedEvent:
			r.schedule(doc, ev.NodeID)
		case editor.NodeChangeEvent:
			r.schedule(doc, ev.NodeID)
		}
	}
}

func (r *Reaction) schedule(doc *document.Document, nodeID string) {
	n, ok := doc.NodeByID(nodeID).(document.TextNode)
	if !ok {
		r.forget(nodeID)
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	j := job{nodeID: nodeID, id: r.nextID, text: n.Text().String()}
	r.requests[nodeID] = j.id
	if !r.running.Load() {
		return
	}
	select {
	case r.queue <- j:
	default:
		r.dropped.Add(1)
		r.logger.Warn("spelling check dropped", zap.String("node", nodeID), zap.Error(ErrQueueFull))
	}
}

func (r *Reaction) forget(nodeID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.requests, nodeID)
	delete(r.mistakes, nodeID)
}

func (r *Reaction) worker(queue <-chan job) {
	defer r.wg.Done()
	for j := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		mistakes, err := r.checker.Check(ctx, j.text)
		cancel()
		r.checked.Add(1)

		r.mu.Lock()
		r.done = append(r.done, result{job: j, mistakes: mistakes, err: err})
		r.mu.Unlock()
		select {
		case r.ready <- struct{}{}:
		default:
		}
	}
}

// Ready receives a value when results are waiting for Apply.
func (r *Reaction) Ready() <-chan struct{} { return r.ready }

// Apply installs finished results whose request id is still current and
// returns the ids of the nodes whose mistakes changed.
func (r *Reaction) Apply() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated []string
	for _, res := range r.done {
		if r.requests[res.nodeID] != res.id {
			r.stale.Add(1)
			r.logger.Debug("discarding stale spelling result",
				zap.String("node", res.nodeID),
				zap.Uint64("request", res.id))
			continue
		}
		if res.err != nil {
			r.logger.Warn("spelling check failed", zap.String("node", res.nodeID), zap.Error(res.err))
			continue
		}
		r.mistakes[res.nodeID] = res.mistakes
		updated = append(updated, res.nodeID)
	}
	r.done = nil
	return updated
}

// Mistakes returns the installed mistakes for a node.
func (r *Reaction) Mistakes(nodeID string) []Mistake {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mistakes[nodeID]
}

// Stats reports how many checks ran, how many results went stale and how
// many checks were dropped.
type Stats struct {
	Checked uint64
	Stale   uint64
	Dropped uint64
}

// Stats returns counters for the reaction's lifetime.
func (r *Reaction) Stats() Stats {
	return Stats{Checked: r.checked.Load(), Stale: r.stale.Load(), Dropped: r.dropped.Load()}
}
