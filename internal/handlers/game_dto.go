package handlers

import (
	"fmt"

	"github.com/gorilla/schema"

	"github.com/vancomm/minesweeper-classic/internal/display"
	"github.com/vancomm/minesweeper-classic/internal/game"
	"github.com/vancomm/minesweeper-classic/internal/mines"
)

var decoder = func() *schema.Decoder {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	return dec
}()

type Position struct {
	Row int `schema:"row,required"`
	Col int `schema:"col,required"`
}

func ParsePosition(src map[string][]string) (Position, error) {
	var pos Position
	if err := decoder.Decode(&pos, src); err != nil {
		return pos, fmt.Errorf("invalid position: %w", err)
	}
	return pos, nil
}

type RecordsQuery struct {
	Limit int `schema:"limit"`
	Rows  int `schema:"rows"`
	Cols  int `schema:"cols"`
	Bombs int `schema:"bombs"`
}

func ParseRecordsQuery(src map[string][]string) (RecordsQuery, error) {
	var q RecordsQuery
	err := decoder.Decode(&q, src)
	return q, err
}

// CellDTO never carries the value of a cell the player cannot see.
type CellDTO struct {
	State string `json:"state"`
	Value string `json:"value,omitempty"`
	Red   bool   `json:"red,omitempty"`
	Glyph string `json:"glyph"`
	Label string `json:"label"`
}

func NewCellDTO(c mines.Cell) CellDTO {
	dto := CellDTO{
		State: c.State.String(),
		Red:   c.Red,
		Glyph: display.Glyph(c),
		Label: display.Label(c),
	}
	if c.State == mines.Visible {
		dto.Value = c.Value.String()
	}
	return dto
}

type SessionDTO struct {
	SessionID   string      `json:"session_id"`
	Token       string      `json:"token,omitempty"`
	Rows        int         `json:"rows"`
	Cols        int         `json:"cols"`
	Bombs       int         `json:"bombs"`
	Game        int         `json:"game"`
	Status      string      `json:"status"`
	Face        string      `json:"face"`
	FaceGlyph   string      `json:"face_glyph"`
	Time        int         `json:"time"`
	Timer       string      `json:"timer"`
	BombCounter int         `json:"bomb_counter"`
	Counter     string      `json:"counter"`
	Grid        [][]CellDTO `json:"grid"`
}

func NewSessionDTO(sessionID string, s game.Snapshot) *SessionDTO {
	grid := make([][]CellDTO, s.Grid.Rows())
	for row := range grid {
		grid[row] = make([]CellDTO, s.Grid.Cols())
		for col := range grid[row] {
			grid[row][col] = NewCellDTO(s.Grid.At(row, col))
		}
	}
	return &SessionDTO{
		SessionID:   sessionID,
		Rows:        s.Params.Rows,
		Cols:        s.Params.Cols,
		Bombs:       s.Params.Bombs,
		Game:        s.Game,
		Status:      s.Status.String(),
		Face:        s.Face.String(),
		FaceGlyph:   display.FaceGlyph(s.Face),
		Time:        s.Time,
		Timer:       display.Timer(s.Time),
		BombCounter: s.BombCounter,
		Counter:     display.Counter(s.BombCounter),
		Grid:        grid,
	}
}
