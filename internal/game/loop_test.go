package game

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTicker struct {
	c       chan time.Time
	stopped atomic.Bool
}

func (f *fakeTicker) C() <-chan time.Time { return f.c }
func (f *fakeTicker) Stop()               { f.stopped.Store(true) }

type tickers chan *fakeTicker

func (ts tickers) new(time.Duration) Ticker {
	t := &fakeTicker{c: make(chan time.Time)}
	ts <- t
	return t
}

func (ts tickers) next(t *testing.T) *fakeTicker {
	t.Helper()
	select {
	case ticker := <-ts:
		return ticker
	case <-time.After(time.Second):
		t.Fatal("ticker was not started")
		return nil
	}
}

func startLoop(t *testing.T, s *Session) (*Loop, tickers) {
	t.Helper()
	ts := make(tickers, 4)
	l := NewLoop(s, WithTicker(ts.new))

	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(func() {
		cancel()
		<-l.Done()
	})
	return l, ts
}

func receive(t *testing.T, ch <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return snap
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
		return Snapshot{}
	}
}

func TestLoopTimerRunsOnlyWhileLive(t *testing.T) {
	s := newTestSession(t, "*..", "...")
	l, ts := startLoop(t, s)
	ctx := context.Background()

	snap, err := l.Press(ctx)
	require.NoError(t, err)
	assert.Equal(t, FaceOh, snap.Face)
	assert.Empty(t, ts, "timer started before the first click")

	snap, err = l.Click(ctx, 1, 2)
	require.NoError(t, err)
	require.Equal(t, Live, snap.Status)
	ticker := ts.next(t)

	updates, cancel := l.Subscribe()
	defer cancel()

	ticker.c <- time.Now()
	assert.Equal(t, 1, receive(t, updates).Time)
	ticker.c <- time.Now()
	assert.Equal(t, 2, receive(t, updates).Time)

	snap, err = l.Click(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, Lost, snap.Status)
	assert.Equal(t, 2, snap.Time)
	assert.True(t, ticker.stopped.Load())
	assert.Equal(t, Lost, receive(t, updates).Status)

	snap, err = l.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, NotStarted, snap.Status)
	assert.Equal(t, 0, snap.Time)
	assert.Empty(t, ts)
}

func TestLoopTimerStopsAtMax(t *testing.T) {
	s := newTestSession(t, "*..", "...")
	l, ts := startLoop(t, s)
	ctx := context.Background()

	_, err := l.Do(ctx, func(s *Session) bool {
		s.Click(1, 2)
		s.time = MaxTime - 1
		return true
	})
	require.NoError(t, err)
	ticker := ts.next(t)

	ticker.c <- time.Now()
	snap, err := l.Do(ctx, func(*Session) bool { return false })
	require.NoError(t, err)
	assert.Equal(t, MaxTime, snap.Time)
	assert.Equal(t, Live, snap.Status)
	assert.True(t, ticker.stopped.Load())
}

func TestLoopSubscribeLatestWins(t *testing.T) {
	s := newTestSession(t, "*..", "...")
	l, _ := startLoop(t, s)
	ctx := context.Background()

	updates, cancel := l.Subscribe()
	defer cancel()

	_, err := l.Press(ctx)
	require.NoError(t, err)
	_, err = l.Release(ctx)
	require.NoError(t, err)

	assert.Equal(t, FaceSmile, receive(t, updates).Face)
	select {
	case snap := <-updates:
		t.Fatalf("stale snapshot delivered: %+v", snap)
	default:
	}
	assert.Equal(t, FaceSmile, l.Snapshot().Face)
}

func TestLoopUnchangedIsNotPublished(t *testing.T) {
	s := newTestSession(t, "*..", "...")
	l, _ := startLoop(t, s)

	updates, cancel := l.Subscribe()
	defer cancel()

	_, err := l.Flag(context.Background(), 0, 1)
	require.NoError(t, err)
	select {
	case snap := <-updates:
		t.Fatalf("unexpected snapshot: %+v", snap)
	default:
	}
}

func TestLoopDoFinishesAcceptedRequest(t *testing.T) {
	s := newTestSession(t, "*..", "...")
	l, _ := startLoop(t, s)

	ctx, cancel := context.WithCancel(context.Background())
	snap, err := l.Do(ctx, func(s *Session) bool {
		cancel()
		return s.Click(1, 2)
	})
	require.NoError(t, err)
	assert.Equal(t, Live, snap.Status)
	assert.Equal(t, Live, l.Snapshot().Status)
}

func TestLoopStop(t *testing.T) {
	s := newTestSession(t, "*..", "...")
	l := NewLoop(s)

	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)

	updates, unsubscribe := l.Subscribe()
	defer unsubscribe()

	cancel()
	<-l.Done()

	_, ok := <-updates
	assert.False(t, ok)

	_, err := l.Click(context.Background(), 0, 1)
	assert.ErrorIs(t, err, ErrStopped)

	late, _ := l.Subscribe()
	_, ok = <-late
	assert.False(t, ok)
}
