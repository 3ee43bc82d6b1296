package mines

import "strconv"

type CellValue int8

const (
	None CellValue = iota
	One
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Bomb
)

func (v CellValue) String() string {
	switch {
	case v == None:
		return "none"
	case v == Bomb:
		return "bomb"
	case One <= v && v <= Eight:
		return strconv.Itoa(int(v))
	default:
		return "invalid"
	}
}

type CellState uint8

const (
	Open CellState = iota /* not revealed, not flagged */
	Visible
	Flagged
)

func (s CellState) String() string {
	switch s {
	case Open:
		return "open"
	case Visible:
		return "visible"
	case Flagged:
		return "flagged"
	default:
		return "invalid"
	}
}

// Cell is a single square of the board. Red marks the bomb that ended the
// game.
type Cell struct {
	Value CellValue
	State CellState
	Red   bool
}

func (c Cell) IsBomb() bool {
	return c.Value == Bomb
}

func (c Cell) withState(s CellState) Cell {
	c.State = s
	return c
}

// ASCII form used by [Grid.String]: '#' covered, 'F' flagged, '*' bomb, 'X'
// the bomb that was hit, '.' empty, '1'-'8' counts.
func (c Cell) Rune() rune {
	switch c.State {
	case Open:
		return '#'
	case Flagged:
		return 'F'
	}
	switch {
	case c.Value == Bomb && c.Red:
		return 'X'
	case c.Value == Bomb:
		return '*'
	case c.Value == None:
		return '.'
	default:
		return rune('0' + c.Value)
	}
}

type Pos struct {
	Row, Col int
}
