package mines

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkNeighborCounts(t *testing.T, g Grid) {
	t.Helper()
	for p, c := range g.Cells() {
		if c.IsBomb() {
			continue
		}
		want := 0
		for n := range g.Neighbors(p.Row, p.Col) {
			if g.At(n.Row, n.Col).IsBomb() {
				want++
			}
		}
		require.Equal(t, CellValue(want), c.Value, "cell %v", p)
		require.True(t, None <= c.Value && c.Value <= Eight, "cell %v", p)
	}
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
	}{
		{name: "default", params: DefaultParams},
		{name: "5x5(10)", params: Params{Rows: 5, Cols: 5, Bombs: 10}},
		{name: "4x4(15)", params: Params{Rows: 4, Cols: 4, Bombs: 15}},
		{name: "1x2(1)", params: Params{Rows: 1, Cols: 2, Bombs: 1}},
		{name: "16x30(99)", params: Params{Rows: 16, Cols: 30, Bombs: 99}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := rand.New(rand.NewPCG(1, 2))
			for range 50 {
				g := Generate(test.params, r)
				require.Equal(t, test.params.Rows, g.Rows())
				require.Equal(t, test.params.Cols, g.Cols())
				require.Equal(t, test.params.Bombs, g.Count(Cell.IsBomb))
				require.Equal(t, 0, g.Count(func(c Cell) bool { return c.State != Open }))
				checkNeighborCounts(t, g)
			}
		})
	}
}

func TestGenerateManySeeds(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	t.Parallel()

	for seed := range uint64(500) {
		r := rand.New(rand.NewPCG(seed, seed*31+7))
		g := Generate(DefaultParams, r)
		if n := g.Count(Cell.IsBomb); n != DefaultParams.Bombs {
			t.Fatalf("seed %d: have %d bombs, want %d", seed, n, DefaultParams.Bombs)
		}
		checkNeighborCounts(t, g)
	}
}

func TestGenerateInvalidParamsPanics(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	assert.Panics(t, func() { Generate(Params{Rows: 2, Cols: 2, Bombs: 4}, r) })
	assert.Panics(t, func() { Generate(Params{Rows: 0, Cols: 9, Bombs: 1}, r) })
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		params Params
		ok     bool
	}{
		{DefaultParams, true},
		{Params{Rows: 1, Cols: 1, Bombs: 0}, true},
		{Params{Rows: 3, Cols: 3, Bombs: 8}, true},
		{Params{Rows: 3, Cols: 3, Bombs: 9}, false},
		{Params{Rows: 3, Cols: 3, Bombs: -1}, false},
		{Params{Rows: 0, Cols: 3, Bombs: 0}, false},
		{Params{Rows: 3, Cols: -3, Bombs: 0}, false},
	}

	for _, test := range tests {
		t.Run(test.params.String(), func(t *testing.T) {
			err := test.params.Validate()
			if test.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidParams)
			}
		})
	}
}
