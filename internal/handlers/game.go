package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-classic/internal/config"
	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/middleware"
	"github.com/vancomm/minesweeper-classic/internal/mines"
	"github.com/vancomm/minesweeper-classic/internal/registry"
	"github.com/vancomm/minesweeper-classic/internal/repository"
)

// Recorder stores wins. It is nil when no database is configured.
type Recorder interface {
	CreateRecord(ctx context.Context, params repository.CreateRecordParams) (*repository.Record, error)
}

type GameHandler struct {
	logger   *slog.Logger
	sessions *registry.Registry
	cookies  *config.Cookies
	ws       *config.WebSocket
	records  Recorder
}

func NewGameHandler(
	logger *slog.Logger,
	sessions *registry.Registry,
	cookies *config.Cookies,
	ws *config.WebSocket,
	records Recorder,
) *GameHandler {
	return &GameHandler{
		logger:   logger,
		sessions: sessions,
		cookies:  cookies,
		ws:       ws,
		records:  records,
	}
}

func (g GameHandler) NewGame(w http.ResponseWriter, r *http.Request) {
	logger := requestLogger(r.Context(), g.logger)
	entry, err := g.sessions.Create(mines.DefaultParams)
	if err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		logger.Error("unable to create session", slog.Any("error", err))
		return
	}
	id := entry.ID.String()

	token, err := g.cookies.JWT().SignSession(id)
	if err != nil {
		if err := g.sessions.Remove(id); err != nil {
			logger.Error("unable to remove unsigned session", slog.Any("error", err))
		}
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error("unable to sign session token", slog.Any("error", err))
		return
	}
	if err := g.cookies.Refresh(w, token); err != nil {
		logger.Error("unable to set session cookies", slog.Any("error", err))
	}

	dto := NewSessionDTO(id, entry.Loop.Snapshot())
	dto.Token = token
	sendJSONOrLog(w, logger, dto)
}

// entry resolves the {id} path value to a live session owned by the caller.
// It writes the error response itself when it returns false.
func (g GameHandler) entry(w http.ResponseWriter, r *http.Request) (*registry.Entry, bool) {
	id := r.PathValue("id")

	claims, ok := middleware.SessionClaims(r.Context())
	if !ok || claims.SessionID != id {
		sendError(w, r, g.logger, http.StatusUnauthorized, errors.New("session token required"))
		return nil, false
	}

	entry, err := g.sessions.Get(id)
	if err != nil {
		sendError(w, r, g.logger, http.StatusNotFound, err)
		return nil, false
	}
	return entry, true
}

// apply runs fn on the session loop and stores the win if fn produced one.
func (g GameHandler) apply(
	ctx context.Context, entry *registry.Entry, fn func(*game.Session) bool,
) (game.Snapshot, error) {
	won := false
	snap, err := entry.Loop.Do(ctx, func(s *game.Session) bool {
		before := s.Status()
		changed := fn(s)
		won = before != game.Won && s.Status() == game.Won
		return changed
	})
	if err != nil {
		return snap, err
	}
	if won {
		/* the win stands even when the caller has gone */
		g.record(context.WithoutCancel(ctx), entry.ID.String(), snap)
	}
	return snap, nil
}

func (g GameHandler) record(ctx context.Context, sessionID string, snap game.Snapshot) {
	logger := requestLogger(ctx, g.logger).With(
		slog.String("session", sessionID),
		slog.Int("game", snap.Game),
		slog.Int("seconds", snap.Time),
	)
	if g.records == nil {
		logger.Debug("game won, records disabled")
		return
	}
	_, err := g.records.CreateRecord(ctx, repository.CreateRecordParams{
		SessionID: sessionID,
		Game:      snap.Game,
		Seconds:   snap.Time,
		Params:    snap.Params,
	})
	switch {
	case errors.Is(err, repository.ErrDuplicateRecord):
		logger.Warn("win already recorded")
	case err != nil:
		logger.Error("unable to store record", slog.Any("error", err))
	default:
		logger.Info("game won")
	}
}

func (g GameHandler) respond(
	w http.ResponseWriter, r *http.Request, entry *registry.Entry, snap game.Snapshot, err error,
) {
	if err != nil {
		if errors.Is(err, game.ErrStopped) {
			sendError(w, r, g.logger, http.StatusNotFound, registry.ErrNotFound)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
		requestLogger(r.Context(), g.logger).Error("unable to apply move", slog.Any("error", err))
		return
	}
	sendJSONOrLog(w, g.logger, NewSessionDTO(entry.ID.String(), snap))
}

func (g GameHandler) Fetch(w http.ResponseWriter, r *http.Request) {
	entry, ok := g.entry(w, r)
	if !ok {
		return
	}
	sendJSONOrLog(w, g.logger, NewSessionDTO(entry.ID.String(), entry.Loop.Snapshot()))
}

func (g GameHandler) position(w http.ResponseWriter, r *http.Request, entry *registry.Entry) (Position, bool) {
	pos, err := ParsePosition(r.URL.Query())
	if err != nil {
		sendError(w, r, g.logger, http.StatusBadRequest, err)
		return pos, false
	}
	if !entry.Loop.Snapshot().Params.Contains(pos.Row, pos.Col) {
		sendError(w, r, g.logger, http.StatusBadRequest, fmt.Errorf("invalid cell position"))
		return pos, false
	}
	return pos, true
}

func (g GameHandler) Click(w http.ResponseWriter, r *http.Request) {
	entry, ok := g.entry(w, r)
	if !ok {
		return
	}
	pos, ok := g.position(w, r, entry)
	if !ok {
		return
	}
	snap, err := g.apply(r.Context(), entry, func(s *game.Session) bool {
		return s.Click(pos.Row, pos.Col)
	})
	g.respond(w, r, entry, snap, err)
}

func (g GameHandler) Flag(w http.ResponseWriter, r *http.Request) {
	entry, ok := g.entry(w, r)
	if !ok {
		return
	}
	pos, ok := g.position(w, r, entry)
	if !ok {
		return
	}
	snap, err := g.apply(r.Context(), entry, func(s *game.Session) bool {
		return s.Flag(pos.Row, pos.Col)
	})
	g.respond(w, r, entry, snap, err)
}

func (g GameHandler) Press(w http.ResponseWriter, r *http.Request) {
	entry, ok := g.entry(w, r)
	if !ok {
		return
	}
	snap, err := entry.Loop.Press(r.Context())
	g.respond(w, r, entry, snap, err)
}

func (g GameHandler) Release(w http.ResponseWriter, r *http.Request) {
	entry, ok := g.entry(w, r)
	if !ok {
		return
	}
	snap, err := entry.Loop.Release(r.Context())
	g.respond(w, r, entry, snap, err)
}

func (g GameHandler) Reset(w http.ResponseWriter, r *http.Request) {
	entry, ok := g.entry(w, r)
	if !ok {
		return
	}
	snap, err := entry.Loop.Reset(r.Context())
	g.respond(w, r, entry, snap, err)
}

func (g GameHandler) Close(w http.ResponseWriter, r *http.Request) {
	entry, ok := g.entry(w, r)
	if !ok {
		return
	}
	if err := g.sessions.Remove(entry.ID.String()); err != nil {
		sendError(w, r, g.logger, http.StatusNotFound, err)
		return
	}
	g.cookies.Clear(w)
	w.WriteHeader(http.StatusNoContent)
}
