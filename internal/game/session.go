package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/vancomm/minesweeper-classic/internal/mines"
)

// MaxTime keeps the timer within three digits.
const MaxTime = 999

type Status uint8

const (
	NotStarted Status = iota
	Live
	Won
	Lost
)

func (s Status) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Live:
		return "live"
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return fmt.Sprintf("Status(%d)", uint8(s))
	}
}

func (s Status) Finished() bool {
	return s == Won || s == Lost
}

// Session is a single game from first click to win or loss. It is not safe
// for concurrent use; a [Loop] serializes access to it.
type Session struct {
	params mines.Params
	rnd    *rand.Rand

	grid        mines.Grid
	live        bool
	hasLost     bool
	hasWon      bool
	time        int
	bombCounter int
	pressed     bool
	games       int
}

func New(params mines.Params, rnd *rand.Rand) (*Session, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	s := &Session{params: params, rnd: rnd}
	s.Reset()
	return s, nil
}

// Reset starts over with a fresh board. It is allowed in any state.
func (s *Session) Reset() {
	s.grid = mines.Generate(s.params, s.rnd)
	s.live = false
	s.hasLost = false
	s.hasWon = false
	s.time = 0
	s.bombCounter = s.params.Bombs
	s.pressed = false
	s.games++
}

func (s *Session) Status() Status {
	switch {
	case s.hasLost:
		return Lost
	case s.hasWon:
		return Won
	case s.live:
		return Live
	default:
		return NotStarted
	}
}

// Click handles a left click on row, col and reports whether the session
// changed.
func (s *Session) Click(row, col int) bool {
	if s.Status().Finished() || !s.params.Contains(row, col) {
		return false
	}

	changed := false
	if !s.live {
		/* the first click is never a loss */
		for s.grid.At(row, col).IsBomb() {
			s.grid = mines.Generate(s.params, s.rnd)
		}
		s.live = true
		changed = true
	}

	cell := s.grid.At(row, col)
	if cell.State != mines.Open {
		return changed
	}

	switch {
	case cell.IsBomb():
		s.grid = mines.Explode(s.grid, row, col)
		s.hasLost = true
		s.live = false
		return true
	case cell.Value == mines.None:
		s.grid = mines.OpenFloodFill(s.grid, row, col)
	default:
		s.grid = mines.Reveal(s.grid, row, col)
	}

	if mines.Cleared(s.grid) {
		s.grid = mines.FlagBombs(s.grid)
		s.hasWon = true
		s.live = false
	}
	return true
}

// Flag handles a right click. Only a live game accepts flags, and the
// counter has no floor.
func (s *Session) Flag(row, col int) bool {
	if s.Status() != Live {
		return false
	}
	var delta int
	s.grid, delta = mines.ToggleFlag(s.grid, row, col)
	s.bombCounter += delta
	return delta != 0
}

func (s *Session) Tick() bool {
	if !s.Ticking() {
		return false
	}
	s.time++
	return true
}

// Ticking reports whether the timer should be running.
func (s *Session) Ticking() bool {
	return s.Status() == Live && s.time < MaxTime
}

func (s *Session) Press() bool {
	if s.pressed {
		return false
	}
	face := s.Face()
	s.pressed = true
	return face != s.Face()
}

func (s *Session) Release() bool {
	if !s.pressed {
		return false
	}
	face := s.Face()
	s.pressed = false
	return face != s.Face()
}

func (s *Session) Face() Face {
	status := s.Status()
	switch {
	case status == Lost:
		return FaceLost
	case status == Won:
		return FaceWon
	case s.pressed:
		return FaceOh
	default:
		return FaceSmile
	}
}

func (s *Session) Grid() mines.Grid {
	return s.grid
}

func (s *Session) Params() mines.Params {
	return s.params
}

func (s *Session) Time() int {
	return s.time
}

func (s *Session) BombCounter() int {
	return s.bombCounter
}

// Games counts the boards dealt so far, starting at 1.
func (s *Session) Games() int {
	return s.games
}

// Snapshot is an immutable copy of a session's observable state.
type Snapshot struct {
	Params      mines.Params
	Grid        mines.Grid
	Status      Status
	Face        Face
	Time        int
	BombCounter int
	Game        int
}

func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Params:      s.params,
		Grid:        s.grid,
		Status:      s.Status(),
		Face:        s.Face(),
		Time:        s.time,
		BombCounter: s.bombCounter,
		Game:        s.games,
	}
}
