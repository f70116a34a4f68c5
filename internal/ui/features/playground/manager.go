// Package playground hosts the per-visitor SQL sandbox behind the lesson
// pages. Each browser session gets its own seeded in-memory database; a
// background sweep closes sandboxes that have gone idle.
package playground

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/leapstack-labs/sqltutor/internal/session"
	"github.com/leapstack-labs/sqltutor/internal/tutor"
)

const (
	sandboxIdleTTL = 30 * time.Minute
	sweepInterval  = 5 * time.Minute
)

// Sandbox pairs one visitor's controller with its swappable display sink.
type Sandbox struct {
	mu       sync.Mutex
	ctl      *tutor.Controller
	sink     *swapSink
	lastUsed time.Time
}

// With binds the request's display sink, runs fn against the controller, and
// releases the sink again. Requests for the same sandbox are serialized.
func (sb *Sandbox) With(d tutor.DisplaySink, fn func(ctl *tutor.Controller)) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	sb.lastUsed = time.Now()
	sb.sink.bind(d)
	defer sb.sink.release()
	fn(sb.ctl)
}

func (sb *Sandbox) close() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	_ = sb.ctl.Session().Close()
}

// Manager owns all live sandboxes, keyed by the visitor's session ID.
type Manager struct {
	mu        sync.Mutex
	sandboxes map[string]*Sandbox
	log       tutor.QueryLog
	logger    *slog.Logger
}

// NewManager creates an empty sandbox manager. log may be nil.
func NewManager(log tutor.QueryLog, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{
		sandboxes: make(map[string]*Sandbox),
		log:       log,
		logger:    logger,
	}
}

// Acquire returns the sandbox for the given visitor, creating it on first
// use. The new sandbox's database is initialized lazily by Controller.Start.
//
// The idle clock is refreshed here, under the manager lock, so a sandbox
// handed out to a request cannot be expired by a sweep before the request
// uses it. A sweep either sees the refreshed clock and keeps the sandbox,
// or has already removed it from the map and Acquire builds a fresh one.
func (m *Manager) Acquire(id string) *Sandbox {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sb, ok := m.sandboxes[id]; ok {
		sb.mu.Lock()
		sb.lastUsed = time.Now()
		sb.mu.Unlock()
		return sb
	}

	sink := &swapSink{}
	sess := session.New(session.WithLogger(m.logger))

	opts := []tutor.Option{tutor.WithLogger(m.logger)}
	if m.log != nil {
		opts = append(opts, tutor.WithQueryLog(m.log))
	}

	sb := &Sandbox{
		ctl:      tutor.New(sess, sink, opts...),
		sink:     sink,
		lastUsed: time.Now(),
	}
	m.sandboxes[id] = sb
	m.logger.Debug("created sandbox", "id", id)
	return sb
}

// Sweep closes idle sandboxes until the context is cancelled.
func (m *Manager) Sweep(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sweepOnce(time.Now())
		}
	}
}

func (m *Manager) sweepOnce(now time.Time) {
	m.mu.Lock()
	var expired []*Sandbox
	for id, sb := range m.sandboxes {
		sb.mu.Lock()
		idle := now.Sub(sb.lastUsed)
		sb.mu.Unlock()
		if idle > sandboxIdleTTL {
			delete(m.sandboxes, id)
			expired = append(expired, sb)
			m.logger.Debug("expiring idle sandbox", "id", id, "idle", idle)
		}
	}
	m.mu.Unlock()

	// Close outside the manager lock; close waits on in-flight requests.
	for _, sb := range expired {
		sb.close()
	}
}

// Close shuts down every sandbox.
func (m *Manager) Close() {
	m.mu.Lock()
	sandboxes := m.sandboxes
	m.sandboxes = make(map[string]*Sandbox)
	m.mu.Unlock()

	for _, sb := range sandboxes {
		sb.close()
	}
}

// Len reports the number of live sandboxes.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sandboxes)
}
