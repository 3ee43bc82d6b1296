package mines

import (
	"errors"
	"fmt"
)

var ErrInvalidParams = errors.New("invalid game params")

type Params struct {
	Rows, Cols, Bombs int
}

// DefaultParams is the only board the game offers.
var DefaultParams = Params{Rows: 9, Cols: 9, Bombs: 10}

func (p Params) Unpack() (rows int, cols int, bombs int) {
	return p.Rows, p.Cols, p.Bombs
}

// Validate requires at least one safe cell so that a first click can always
// be made safe by regenerating the board.
func (p Params) Validate() error {
	if p.Rows <= 0 || p.Cols <= 0 {
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d",
			ErrInvalidParams, p.Rows, p.Cols)
	}
	if p.Bombs < 0 || p.Bombs >= p.Rows*p.Cols {
		return fmt.Errorf("%w: %d bombs do not fit a %dx%d board",
			ErrInvalidParams, p.Bombs, p.Rows, p.Cols)
	}
	return nil
}

func (p Params) Contains(row, col int) bool {
	return 0 <= row && row < p.Rows && 0 <= col && col < p.Cols
}

func (p Params) String() string {
	return fmt.Sprintf("%dx%d(%d)", p.Rows, p.Cols, p.Bombs)
}
