// Package registry keeps the live game sessions of the server in memory,
// each driven by its own [game.Loop] goroutine.
package registry

import (
	"context"
	"errors"
	"hash/maphash"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

var (
	ErrNotFound = errors.New("session not found")
	ErrClosed   = errors.New("registry closed")
)

type Entry struct {
	ID        uuid.UUID
	Loop      *game.Loop
	CreatedAt time.Time

	cancel   context.CancelFunc
	lastSeen atomic.Int64
}

func (e *Entry) touch(now time.Time) {
	e.lastSeen.Store(now.UnixNano())
}

func (e *Entry) LastSeen() time.Time {
	return time.Unix(0, e.lastSeen.Load())
}

// Age is how long the session has existed at now.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

type Registry struct {
	logger   *slog.Logger
	idleTTL  time.Duration
	newRand  func() *rand.Rand
	now      func() time.Time
	loopOpts []game.LoopOption

	root   context.Context
	stop   context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	closed bool
	byID   map[uuid.UUID]*Entry
}

type Option func(*Registry)

// WithRand replaces the source of per-session random generators.
func WithRand(newRand func() *rand.Rand) Option {
	return func(r *Registry) { r.newRand = newRand }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

func WithLoopOptions(opts ...game.LoopOption) Option {
	return func(r *Registry) { r.loopOpts = append(r.loopOpts, opts...) }
}

// NewRand returns a generator seeded from the runtime's random hash seed.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(
		new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64(),
	))
}

func New(logger *slog.Logger, idleTTL time.Duration, opts ...Option) *Registry {
	root, stop := context.WithCancel(context.Background())
	r := &Registry{
		logger:  logger,
		idleTTL: idleTTL,
		newRand: NewRand,
		now:     time.Now,
		root:    root,
		stop:    stop,
		byID:    make(map[uuid.UUID]*Entry),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a new session on params.
func (r *Registry) Create(params mines.Params) (*Entry, error) {
	session, err := game.New(params, r.newRand())
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	logger := r.logger.With(slog.String("session", id.String()))
	loop := game.NewLoop(session, append([]game.LoopOption{game.WithLogger(logger)}, r.loopOpts...)...)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}

	ctx, cancel := context.WithCancel(r.root)
	now := r.now()
	entry := &Entry{ID: id, Loop: loop, CreatedAt: now, cancel: cancel}
	entry.touch(now)
	r.byID[id] = entry

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		loop.Run(ctx)
	}()

	logger.Debug("session created", slog.String("params", params.String()))
	return entry, nil
}

// Get looks a session up by its string id and marks it as recently used.
func (r *Registry) Get(id string) (*Entry, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}

	r.mu.Lock()
	entry, ok := r.byID[uid]
	r.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	entry.touch(r.now())
	return entry, nil
}

// Remove stops the session's loop and waits for it to exit.
func (r *Registry) Remove(id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return ErrNotFound
	}

	r.mu.Lock()
	entry, ok := r.byID[uid]
	delete(r.byID, uid)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}

	entry.cancel()
	<-entry.Loop.Done()
	r.logger.Debug("session removed",
		slog.String("session", id),
		slog.Duration("age", entry.Age(r.now())),
	)
	return nil
}

// Sweep removes every session unused for longer than the idle TTL and
// returns how many were removed.
func (r *Registry) Sweep() int {
	deadline := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var idle []*Entry
	for id, entry := range r.byID {
		if entry.LastSeen().Before(deadline) {
			idle = append(idle, entry)
			delete(r.byID, id)
		}
	}
	r.mu.Unlock()

	now := r.now()
	for _, entry := range idle {
		entry.cancel()
		<-entry.Loop.Done()
		r.logger.Debug("session evicted",
			slog.String("session", entry.ID.String()),
			slog.Duration("age", entry.Age(now)),
			slog.Time("lastSeen", entry.LastSeen()),
		)
	}
	if len(idle) > 0 {
		r.logger.Info("evicted idle sessions", slog.Int("count", len(idle)))
	}
	return len(idle)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}

// Run sweeps idle sessions every interval until ctx is done, then closes
// the registry.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	defer r.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close stops every loop and waits for them. Create fails afterwards.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	clear(r.byID)
	r.mu.Unlock()

	r.stop()
	r.wg.Wait()
}
