package mines

import (
	"math/rand/v2"
)

// Generate places p.Bombs bombs at distinct random cells and fills in the
// neighbor counts of the rest. Every cell starts covered. Panics if p is not
// valid.
func Generate(p Params, r *rand.Rand) Grid {
	if err := p.Validate(); err != nil {
		panic(err)
	}
	rows, cols, bombs := p.Unpack()

	cells := make([][]Cell, rows)
	for i := range cells {
		cells[i] = make([]Cell, cols)
	}

	placed := 0
	for placed < bombs {
		row, col := r.IntN(rows), r.IntN(cols)
		if cells[row][col].Value == Bomb {
			continue /* collision, roll again */
		}
		cells[row][col].Value = Bomb
		placed++
	}

	countNeighbors(cells)
	return Grid{cells}
}
