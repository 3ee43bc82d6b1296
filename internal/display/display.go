// Package display turns game state into the strings shown to a player.
package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

// Counter formats the remaining-flags counter. Negative values keep the
// minus sign in front of a two-digit magnitude.
func Counter(n int) string {
	if n < 0 {
		return fmt.Sprintf("-%02d", -n)
	}
	return fmt.Sprintf("%03d", n)
}

func Timer(n int) string {
	return fmt.Sprintf("%03d", min(max(n, 0), game.MaxTime))
}

func Glyph(c mines.Cell) string {
	switch c.State {
	case mines.Flagged:
		return "🚩"
	case mines.Open:
		return ""
	}
	switch c.Value {
	case mines.Bomb:
		return "💣"
	case mines.None:
		return ""
	default:
		return c.Value.String()
	}
}

// Label is the accessible name of a cell.
func Label(c mines.Cell) string {
	switch c.State {
	case mines.Flagged:
		return "flag"
	case mines.Open:
		return "hidden"
	}
	switch c.Value {
	case mines.Bomb:
		return "bomb"
	case mines.None:
		return "empty"
	default:
		return c.Value.String()
	}
}

func FaceGlyph(f game.Face) string {
	switch f {
	case game.FaceOh:
		return "😮"
	case game.FaceWon:
		return "😎"
	case game.FaceLost:
		return "😵"
	default:
		return "😊"
	}
}

// Render writes the header and an ASCII board with column and row indices.
func Render(w io.Writer, s game.Snapshot) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s  %s  %s\n",
		Counter(s.BombCounter), FaceGlyph(s.Face), Timer(s.Time), s.Status)

	b.WriteString("   ")
	for col := range s.Grid.Cols() {
		fmt.Fprintf(&b, "%2d", col)
	}
	b.WriteByte('\n')

	for row := range s.Grid.Rows() {
		fmt.Fprintf(&b, "%2d ", row)
		for col := range s.Grid.Cols() {
			b.WriteByte(' ')
			b.WriteRune(s.Grid.At(row, col).Rune())
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}
