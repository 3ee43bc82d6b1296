package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/vancomm/minesweeper-classic/internal/mines"
)

var ErrDuplicateRecord = errors.New("record already exists")

// Record is one won game.
type Record struct {
	RecordID  int64     `db:"game_record_id" json:"-"`
	SessionID string    `db:"session_id" json:"session_id"`
	Game      int       `db:"game" json:"game"`
	Seconds   int       `db:"seconds" json:"seconds"`
	Rows      int       `db:"board_rows" json:"rows"`
	Cols      int       `db:"board_cols" json:"cols"`
	Bombs     int       `db:"bombs" json:"bombs"`
	WonAt     time.Time `db:"won_at" json:"won_at"`
}

// CreateRecordParams identify a win by session and the board number within
// it, so a session can post one record per board.
type CreateRecordParams struct {
	SessionID string
	Game      int
	Seconds   int
	Params    mines.Params
}

func (q *Queries) CreateRecord(ctx context.Context, params CreateRecordParams) (*Record, error) {
	rows, _ := q.db.Query(
		ctx,
		`INSERT INTO game_record (
			session_id, game, seconds, board_rows, board_cols, bombs
		)
		VALUES (
			@session_id, @game, @seconds, @board_rows, @board_cols, @bombs
		)
		RETURNING *;`,
		pgx.NamedArgs{
			"session_id": params.SessionID,
			"game":       params.Game,
			"seconds":    params.Seconds,
			"board_rows": params.Params.Rows,
			"board_cols": params.Params.Cols,
			"bombs":      params.Params.Bombs,
		},
	)
	record, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[Record])
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return nil, fmt.Errorf("%w: %s #%d", ErrDuplicateRecord, params.SessionID, params.Game)
		}
		return nil, err
	}
	return record, nil
}

type RecordFilter struct {
	Params *mines.Params
	Limit  int
}

func (f RecordFilter) WhereClause() (string, pgx.NamedArgs) {
	clauses := make([]string, 0)
	args := pgx.NamedArgs{}
	if f.Params != nil {
		clauses = append(
			clauses,
			"board_rows = @board_rows",
			"board_cols = @board_cols",
			"bombs = @bombs",
		)
		args["board_rows"] = f.Params.Rows
		args["board_cols"] = f.Params.Cols
		args["bombs"] = f.Params.Bombs
	}
	return strings.Join(clauses, " AND "), args
}

// GetRecords returns the fastest wins first, ties broken by who won earlier.
func (q *Queries) GetRecords(ctx context.Context, filter RecordFilter) ([]Record, error) {
	query := "SELECT * FROM game_record"

	whereClause, args := filter.WhereClause()
	if whereClause != "" {
		query += " WHERE " + whereClause
	}

	query += " ORDER BY seconds, won_at"

	if filter.Limit > 0 {
		query += " LIMIT @limit"
		args["limit"] = filter.Limit
	}

	rows, err := q.db.Query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByName[Record])
}
