package game

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var ErrStopped = errors.New("game loop stopped")

// Ticker is the part of [time.Ticker] the loop needs.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type timeTicker struct{ *time.Ticker }

func (t timeTicker) C() <-chan time.Time { return t.Ticker.C }

func newTimeTicker(d time.Duration) Ticker {
	return timeTicker{time.NewTicker(d)}
}

type request struct {
	apply func(*Session) bool
	reply chan Snapshot
}

// Loop owns a [Session] and runs every event against it on a single
// goroutine: requests one at a time, and a one-second tick while the game is
// live. Subscribers get the latest snapshot after each change.
type Loop struct {
	session   *Session
	logger    *slog.Logger
	newTicker func(time.Duration) Ticker
	requests  chan request
	done      chan struct{}

	mu      sync.Mutex
	last    Snapshot
	subs    map[int]chan Snapshot
	nextSub int
	closed  bool
}

type LoopOption func(*Loop)

// WithTicker replaces the wall-clock ticker.
func WithTicker(newTicker func(time.Duration) Ticker) LoopOption {
	return func(l *Loop) { l.newTicker = newTicker }
}

func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) { l.logger = logger }
}

func NewLoop(s *Session, opts ...LoopOption) *Loop {
	l := &Loop{
		session:   s,
		logger:    slog.Default(),
		newTicker: newTimeTicker,
		requests:  make(chan request),
		done:      make(chan struct{}),
		last:      s.Snapshot(),
		subs:      make(map[int]chan Snapshot),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run processes events until ctx is done. Subscriber channels are closed on
// return.
func (l *Loop) Run(ctx context.Context) {
	var (
		ticker Ticker
		tick   <-chan time.Time
	)
	syncTimer := func() {
		switch ticking := l.session.Ticking(); {
		case ticking && ticker == nil:
			ticker = l.newTicker(time.Second)
			tick = ticker.C()
			l.logger.Debug("timer started")
		case !ticking && ticker != nil:
			ticker.Stop()
			ticker, tick = nil, nil
			l.logger.Debug("timer stopped", slog.Int("time", l.session.Time()))
		}
	}

	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
		l.mu.Lock()
		l.closed = true
		for id, ch := range l.subs {
			close(ch)
			delete(l.subs, id)
		}
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case req := <-l.requests:
			changed := req.apply(l.session)
			syncTimer()
			snap := l.session.Snapshot()
			if changed {
				l.publish(snap)
			}
			req.reply <- snap
		case <-tick:
			if l.session.Tick() {
				l.publish(l.session.Snapshot())
			}
			syncTimer()
		}
	}
}

func (l *Loop) publish(snap Snapshot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.last = snap
	for _, ch := range l.subs {
		select {
		case <-ch: /* drop the stale one */
		default:
		}
		ch <- snap
	}
}

// Do runs apply on the loop goroutine and returns the snapshot taken right
// after it. apply reports whether it changed anything.
//
// ctx only bounds the wait for the loop to accept the request. Once accepted,
// apply runs to completion and Do returns its snapshot.
func (l *Loop) Do(ctx context.Context, apply func(*Session) bool) (Snapshot, error) {
	req := request{apply: apply, reply: make(chan Snapshot, 1)}
	select {
	case l.requests <- req:
	case <-l.done:
		return Snapshot{}, ErrStopped
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
	/* Run replies to every request it receives before looking at ctx again */
	return <-req.reply, nil
}

func (l *Loop) Click(ctx context.Context, row, col int) (Snapshot, error) {
	return l.Do(ctx, func(s *Session) bool { return s.Click(row, col) })
}

func (l *Loop) Flag(ctx context.Context, row, col int) (Snapshot, error) {
	return l.Do(ctx, func(s *Session) bool { return s.Flag(row, col) })
}

func (l *Loop) Press(ctx context.Context) (Snapshot, error) {
	return l.Do(ctx, (*Session).Press)
}

func (l *Loop) Release(ctx context.Context) (Snapshot, error) {
	return l.Do(ctx, (*Session).Release)
}

func (l *Loop) Reset(ctx context.Context) (Snapshot, error) {
	return l.Do(ctx, func(s *Session) bool { s.Reset(); return true })
}

// Snapshot returns the most recently published state without waiting for the
// loop.
func (l *Loop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.last
}

// Subscribe returns a channel that receives the latest snapshot after every
// change, and a func to stop receiving. The channel is closed when the loop
// stops.
func (l *Loop) Subscribe() (<-chan Snapshot, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch := make(chan Snapshot, 1)
	if l.closed {
		close(ch)
		return ch, func() {}
	}
	id := l.nextSub
	l.nextSub++
	l.subs[id] = ch

	return ch, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if ch, ok := l.subs[id]; ok {
			close(ch)
			delete(l.subs, id)
		}
	}
}

func (l *Loop) Done() <-chan struct{} {
	return l.done
}
