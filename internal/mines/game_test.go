package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, lines ...string) Grid {
	t.Helper()
	g, err := ParseGrid(lines...)
	require.NoError(t, err)
	return g
}

func visible(c Cell) bool { return c.State == Visible }

func TestOpenFloodFillSingleBombCorner(t *testing.T) {
	g := mustParse(t,
		"*....",
		".....",
		".....",
		".....",
		".....",
	)
	before := g.String()

	opened := OpenFloodFill(g, 4, 4)

	assert.Equal(t, before, g.String(), "input grid was modified")
	assert.Equal(t, ""+
		"#1...\n"+
		"11...\n"+
		".....\n"+
		".....\n"+
		".....\n",
		opened.String(),
	)
	assert.Equal(t, 24, opened.Count(visible))
	assert.True(t, Cleared(opened))
}

func TestOpenFloodFillStopsAtNumbers(t *testing.T) {
	g := mustParse(t,
		"..*..",
		"..*..",
		"..*..",
		"..*..",
		"..*..",
	)

	opened := OpenFloodFill(g, 0, 0)

	assert.Equal(t, ""+
		".2###\n"+
		".3###\n"+
		".3###\n"+
		".3###\n"+
		".2###\n",
		opened.String(),
	)
	assert.False(t, Cleared(opened))
}

func TestOpenFloodFillSkipsFlags(t *testing.T) {
	g := mustParse(t,
		"....",
		"....",
		"....",
	)
	g, _ = ToggleFlag(g, 0, 1)
	g, _ = ToggleFlag(g, 1, 0)
	g, _ = ToggleFlag(g, 1, 1)

	opened := OpenFloodFill(g, 0, 0)
	assert.Equal(t, ""+
		".F##\n"+
		"FF##\n"+
		"####\n",
		opened.String(),
	)
}

func TestOpenFloodFillNoop(t *testing.T) {
	g := mustParse(t,
		"*..",
		"...",
	)
	g, _ = ToggleFlag(g, 1, 2)

	tests := []struct {
		name     string
		row, col int
	}{
		{"out of range", 5, 5},
		{"negative", -1, 0},
		{"flagged", 1, 2},
		{"bomb", 0, 0},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, g.String(), OpenFloodFill(g, test.row, test.col).String())
		})
	}

	once := OpenFloodFill(g, 0, 2)
	assert.Equal(t, once.String(), OpenFloodFill(once, 0, 2).String(), "visible cell reopened")
}

// Every cell the fill uncovers must be reachable from the origin through
// empty uncovered cells.
func TestOpenFloodFillReachability(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	params := Params{Rows: 12, Cols: 12, Bombs: 20}

	for range 100 {
		g := Generate(params, r)

		var origin Pos
		found := false
		for p, c := range g.Cells() {
			if c.Value == None {
				origin, found = p, true
				break
			}
		}
		if !found {
			continue
		}

		opened := OpenFloodFill(g, origin.Row, origin.Col)

		reached := map[Pos]bool{origin: true}
		todo := []Pos{origin}
		for len(todo) > 0 {
			p := todo[0]
			todo = todo[1:]
			if opened.At(p.Row, p.Col).Value != None {
				continue
			}
			for n := range opened.Neighbors(p.Row, p.Col) {
				if !reached[n] && opened.At(n.Row, n.Col).State == Visible {
					reached[n] = true
					todo = append(todo, n)
				}
			}
		}

		for p, c := range opened.Cells() {
			if c.State == Visible {
				require.True(t, reached[p], "cell %v uncovered but not reachable", p)
				require.False(t, c.IsBomb(), "bomb %v uncovered", p)
			}
		}
		require.Equal(t, len(reached), opened.Count(visible))
		require.Equal(t, 0, g.Count(visible), "input grid was modified")
	}
}

func TestOpenFloodFillSharesUntouchedRows(t *testing.T) {
	g := mustParse(t,
		"...",
		"***",
		"...",
	)
	opened := OpenFloodFill(g, 0, 0)

	assert.Same(t, &g.rows[2][0], &opened.rows[2][0], "untouched row was copied")
	assert.NotSame(t, &g.rows[0][0], &opened.rows[0][0], "touched row was shared")
}

func TestReveal(t *testing.T) {
	g := mustParse(t, "*.", "..")
	opened := Reveal(g, 1, 1)
	assert.Equal(t, "##\n#1\n", opened.String())
	assert.Equal(t, "##\n##\n", g.String())
}

func TestToggleFlag(t *testing.T) {
	g := mustParse(t, "*.", "..")

	flagged, delta := ToggleFlag(g, 0, 1)
	assert.Equal(t, -1, delta)
	assert.Equal(t, Flagged, flagged.At(0, 1).State)

	unflagged, delta := ToggleFlag(flagged, 0, 1)
	assert.Equal(t, +1, delta)
	assert.Equal(t, g.At(0, 1), unflagged.At(0, 1))

	opened := Reveal(g, 1, 1)
	same, delta := ToggleFlag(opened, 1, 1)
	assert.Equal(t, 0, delta)
	assert.Equal(t, opened.String(), same.String())

	_, delta = ToggleFlag(g, 9, 9)
	assert.Equal(t, 0, delta)
}

func TestExplode(t *testing.T) {
	g := mustParse(t,
		"*..",
		"..*",
		"*..",
	)
	g, _ = ToggleFlag(g, 2, 0)

	exploded := Explode(g, 1, 2)

	assert.Equal(t, ""+
		"*##\n"+
		"##X\n"+
		"*##\n",
		exploded.String(),
	)
	red := exploded.Count(func(c Cell) bool { return c.Red })
	assert.Equal(t, 1, red)
}

func TestFlagBombsAndCleared(t *testing.T) {
	g := mustParse(t,
		"*.",
		"..",
	)
	assert.False(t, Cleared(g))

	g = Reveal(g, 0, 1)
	g = Reveal(g, 1, 0)
	assert.False(t, Cleared(g))
	g = Reveal(g, 1, 1)
	assert.True(t, Cleared(g))

	won := FlagBombs(g)
	assert.Equal(t, "F1\n11\n", won.String())
}

func TestParseGrid(t *testing.T) {
	g, err := ParseGrid(
		"*.*",
		"...",
	)
	require.NoError(t, err)
	assert.Equal(t, Params{Rows: 2, Cols: 3, Bombs: 2}, g.Params())
	assert.Equal(t, []CellValue{Bomb, Two, Bomb}, []CellValue{
		g.At(0, 0).Value, g.At(0, 1).Value, g.At(0, 2).Value,
	})
	assert.Equal(t, []CellValue{One, Two, One}, []CellValue{
		g.At(1, 0).Value, g.At(1, 1).Value, g.At(1, 2).Value,
	})

	_, err = ParseGrid()
	assert.ErrorIs(t, err, ErrMalformedGrid)
	_, err = ParseGrid("..", "...")
	assert.ErrorIs(t, err, ErrMalformedGrid)
}
