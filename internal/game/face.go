package game

import "fmt"

// Face is the status glyph shown above the board. It is derived from the
// session on every read and never stored.
type Face uint8

const (
	FaceSmile Face = iota
	FaceOh         /* a mouse button is held down */
	FaceWon
	FaceLost
)

func (f Face) String() string {
	switch f {
	case FaceSmile:
		return "smile"
	case FaceOh:
		return "oh"
	case FaceWon:
		return "won"
	case FaceLost:
		return "lost"
	default:
		return fmt.Sprintf("Face(%d)", uint8(f))
	}
}
