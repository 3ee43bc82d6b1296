package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-classic/internal/mines"
	"github.com/vancomm/minesweeper-classic/internal/repository"
)

const (
	defaultRecordsLimit = 10
	maxRecordsLimit     = 100
)

type RecordLister interface {
	GetRecords(ctx context.Context, filter repository.RecordFilter) ([]repository.Record, error)
}

type RecordsHandler struct {
	logger *slog.Logger
	repo   RecordLister
}

func NewRecordsHandler(logger *slog.Logger, repo RecordLister) *RecordsHandler {
	return &RecordsHandler{logger: logger, repo: repo}
}

// GetRecords lists the fastest wins on the requested board, the default one
// when no board is given.
func (h RecordsHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	q, err := ParseRecordsQuery(r.URL.Query())
	if err != nil {
		sendError(w, r, h.logger, http.StatusBadRequest, err)
		return
	}

	filter := repository.RecordFilter{Limit: q.Limit}
	switch {
	case filter.Limit == 0:
		filter.Limit = defaultRecordsLimit
	case filter.Limit < 0 || filter.Limit > maxRecordsLimit:
		sendError(w, r, h.logger, http.StatusBadRequest, errors.New("limit must be within 1..100"))
		return
	}

	params := mines.DefaultParams
	if q.Rows != 0 || q.Cols != 0 || q.Bombs != 0 {
		params = mines.Params{Rows: q.Rows, Cols: q.Cols, Bombs: q.Bombs}
		if err := params.Validate(); err != nil {
			sendError(w, r, h.logger, http.StatusBadRequest, err)
			return
		}
	}
	filter.Params = &params

	records, err := h.repo.GetRecords(r.Context(), filter)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		requestLogger(r.Context(), h.logger).Error("unable to fetch records", slog.Any("error", err))
		return
	}
	if records == nil {
		records = []repository.Record{}
	}
	sendJSONOrLog(w, h.logger, records)
}
