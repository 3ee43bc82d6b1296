package display

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

func TestCounter(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{10, "010"},
		{0, "000"},
		{999, "999"},
		{-1, "-01"},
		{-12, "-12"},
		{-123, "-123"},
	}
	for _, test := range tests {
		assert.Equal(t, test.want, Counter(test.n), "Counter(%d)", test.n)
	}
}

func TestTimer(t *testing.T) {
	assert.Equal(t, "000", Timer(0))
	assert.Equal(t, "042", Timer(42))
	assert.Equal(t, "999", Timer(999))
	assert.Equal(t, "999", Timer(1500))
}

func TestGlyphAndLabel(t *testing.T) {
	tests := []struct {
		cell  mines.Cell
		glyph string
		label string
	}{
		{mines.Cell{Value: mines.Bomb, State: mines.Visible}, "💣", "bomb"},
		{mines.Cell{Value: mines.Three, State: mines.Visible}, "3", "3"},
		{mines.Cell{Value: mines.None, State: mines.Visible}, "", "empty"},
		{mines.Cell{Value: mines.Bomb, State: mines.Open}, "", "hidden"},
		{mines.Cell{Value: mines.Two, State: mines.Flagged}, "🚩", "flag"},
	}
	for _, test := range tests {
		assert.Equal(t, test.glyph, Glyph(test.cell))
		assert.Equal(t, test.label, Label(test.cell))
	}
}

func TestFaceGlyph(t *testing.T) {
	assert.Equal(t, "😊", FaceGlyph(game.FaceSmile))
	assert.Equal(t, "😮", FaceGlyph(game.FaceOh))
	assert.Equal(t, "😎", FaceGlyph(game.FaceWon))
	assert.Equal(t, "😵", FaceGlyph(game.FaceLost))
}

func TestRender(t *testing.T) {
	s, err := game.New(mines.Params{Rows: 2, Cols: 3, Bombs: 1}, rand.New(rand.NewPCG(1, 2)))
	require.NoError(t, err)

	var b strings.Builder
	require.NoError(t, Render(&b, s.Snapshot()))

	assert.Equal(t, ""+
		"001  😊  000  not_started\n"+
		"    0 1 2\n"+
		" 0  # # #\n"+
		" 1  # # #\n",
		b.String(),
	)
}
