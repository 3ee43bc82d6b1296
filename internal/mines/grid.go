package mines

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

var ErrMalformedGrid = errors.New("malformed grid")

// Grid is an immutable row-major snapshot of the board. Transforms return a
// new Grid which shares every row it did not touch with its source, so a Grid
// may be handed to other goroutines freely.
type Grid struct {
	rows [][]Cell
}

func (g Grid) Rows() int {
	return len(g.rows)
}

func (g Grid) Cols() int {
	if len(g.rows) == 0 {
		return 0
	}
	return len(g.rows[0])
}

func (g Grid) Contains(row, col int) bool {
	return 0 <= row && row < g.Rows() && 0 <= col && col < g.Cols()
}

// At panics if row, col is out of range.
func (g Grid) At(row, col int) Cell {
	return g.rows[row][col]
}

func (g Grid) Cells() iter.Seq2[Pos, Cell] {
	return func(yield func(Pos, Cell) bool) {
		for r, row := range g.rows {
			for c, cell := range row {
				if !yield(Pos{r, c}, cell) {
					return
				}
			}
		}
	}
}

// Neighbors yields the in-bounds 8-neighborhood of row, col.
func (g Grid) Neighbors(row, col int) iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		for dr := -1; dr <= 1; dr++ {
			for dc := -1; dc <= 1; dc++ {
				if dr == 0 && dc == 0 {
					continue
				}
				if g.Contains(row+dr, col+dc) && !yield(Pos{row + dr, col + dc}) {
					return
				}
			}
		}
	}
}

func (g Grid) Count(match func(Cell) bool) (n int) {
	for _, c := range g.Cells() {
		if match(c) {
			n++
		}
	}
	return
}

func (g Grid) Params() Params {
	return Params{
		Rows:  g.Rows(),
		Cols:  g.Cols(),
		Bombs: g.Count(Cell.IsBomb),
	}
}

func (g Grid) String() string {
	var b strings.Builder
	for _, row := range g.rows {
		for _, c := range row {
			b.WriteRune(c.Rune())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ParseGrid builds a covered grid from a bomb map where '*' is a bomb and any
// other byte is a safe cell.
func ParseGrid(lines ...string) (Grid, error) {
	if len(lines) == 0 || len(lines[0]) == 0 {
		return Grid{}, fmt.Errorf("%w: empty", ErrMalformedGrid)
	}
	rows := make([][]Cell, len(lines))
	for r, line := range lines {
		if len(line) != len(lines[0]) {
			return Grid{}, fmt.Errorf(
				"%w: row %d has %d cells, want %d",
				ErrMalformedGrid, r, len(line), len(lines[0]),
			)
		}
		rows[r] = make([]Cell, len(line))
		for c := range len(line) {
			if line[c] == '*' {
				rows[r][c].Value = Bomb
			}
		}
	}
	countNeighbors(rows)
	return Grid{rows}, nil
}

func countNeighbors(rows [][]Cell) {
	g := Grid{rows}
	for r := range rows {
		for c := range rows[r] {
			if rows[r][c].Value == Bomb {
				continue
			}
			v := None
			for p := range g.Neighbors(r, c) {
				if rows[p.Row][p.Col].Value == Bomb {
					v++
				}
			}
			rows[r][c].Value = v
		}
	}
}

// editor batches changes to a Grid, copying each row at most once.
type editor struct {
	rows   [][]Cell
	copied []bool
}

func (g Grid) edit() *editor {
	rows := make([][]Cell, len(g.rows))
	copy(rows, g.rows)
	return &editor{rows: rows, copied: make([]bool, len(rows))}
}

func (e *editor) at(p Pos) Cell {
	return e.rows[p.Row][p.Col]
}

func (e *editor) set(p Pos, c Cell) {
	if !e.copied[p.Row] {
		row := make([]Cell, len(e.rows[p.Row]))
		copy(row, e.rows[p.Row])
		e.rows[p.Row] = row
		e.copied[p.Row] = true
	}
	e.rows[p.Row][p.Col] = c
}

func (e *editor) grid() Grid {
	return Grid{e.rows}
}
