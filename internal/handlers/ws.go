package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/registry"
)

var errSessionGone = errors.New("session closed")

// ConnectWS upgrades to a websocket speaking the line protocol of
// [game.ParseCommand]. Every command is answered with the session view, and
// every change made elsewhere (timer ticks, other connections) is pushed.
func (g GameHandler) ConnectWS(w http.ResponseWriter, r *http.Request) {
	entry, ok := g.entry(w, r)
	if !ok {
		return
	}

	c, err := g.ws.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		requestLogger(r.Context(), g.logger).Error("unable to upgrade", slog.Any("error", err))
		return
	}
	defer c.Close()

	logger := requestLogger(r.Context(), g.logger).With(slog.String("session", entry.ID.String()))
	updates, unsubscribe := entry.Loop.Subscribe()
	defer unsubscribe()

	out := make(chan any)
	eg, ctx := errgroup.WithContext(r.Context())

	eg.Go(func() error {
		return g.readCommands(ctx, c, entry, out, logger)
	})
	eg.Go(func() error {
		return g.writeUpdates(ctx, c, entry, updates, out)
	})

	err = eg.Wait()
	switch {
	case errors.Is(err, errSessionGone),
		websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway):
		logger.Debug("ws closed", slog.Any("reason", err))
	default:
		logger.Warn("abnormal ws break", slog.Any("error", err))
	}
}

func (g GameHandler) readCommands(
	ctx context.Context,
	c *websocket.Conn,
	entry *registry.Entry,
	out chan<- any,
	logger *slog.Logger,
) error {
	c.SetReadDeadline(time.Now().Add(g.ws.PongTimeout))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(g.ws.PongTimeout))
	})

	send := func(v any) error {
		select {
		case out <- v:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for {
		mt, message, err := c.ReadMessage()
		if err != nil {
			return err
		}
		if mt != websocket.TextMessage {
			return errors.New("unexpected binary message")
		}
		c.SetReadDeadline(time.Now().Add(g.ws.PongTimeout))

		for _, line := range strings.Split(strings.TrimSpace(string(message)), "\n") {
			logger.Debug("\t> " + line)

			cmd, err := game.ParseCommand(line)
			if err != nil {
				if err := send(wrapError(err)); err != nil {
					return err
				}
				continue
			}
			// Get also keeps the session from being swept while it is played here.
			if _, err := g.sessions.Get(entry.ID.String()); err != nil {
				return errSessionGone
			}

			snap, err := g.apply(ctx, entry, cmd.Apply)
			if errors.Is(err, game.ErrStopped) {
				return errSessionGone
			}
			if err != nil {
				return err
			}
			if err := send(NewSessionDTO(entry.ID.String(), snap)); err != nil {
				return err
			}
		}
	}
}

func (g GameHandler) writeUpdates(
	ctx context.Context,
	c *websocket.Conn,
	entry *registry.Entry,
	updates <-chan game.Snapshot,
	out <-chan any,
) error {
	ping := time.NewTicker(g.ws.PingPeriod())
	defer ping.Stop()

	write := func(v any) error {
		c.SetWriteDeadline(time.Now().Add(g.ws.WriteTimeout))
		return c.WriteJSON(v)
	}
	defer func() {
		c.SetWriteDeadline(time.Now().Add(g.ws.WriteTimeout))
		c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		c.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case v := <-out:
			if err := write(v); err != nil {
				return err
			}
		case snap, ok := <-updates:
			if !ok {
				return errSessionGone
			}
			if err := write(NewSessionDTO(entry.ID.String(), snap)); err != nil {
				return err
			}
		case <-ping.C:
			c.SetWriteDeadline(time.Now().Add(g.ws.WriteTimeout))
			if err := c.WriteMessage(websocket.PingMessage, nil); err != nil {
				return err
			}
		}
	}
}
