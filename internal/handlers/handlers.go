package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/vancomm/minesweeper-classic/internal/middleware"
)

// requestLogger tags logger with the id the logging middleware gave the
// request, if any.
func requestLogger(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if id := middleware.RequestID(ctx); id != "" {
		return logger.With(slog.String("requestId", id))
	}
	return logger
}

func SendJSON(w http.ResponseWriter, v any) (int, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return 0, err
	}
	w.Header().Add("Content-Type", "application/json")
	return w.Write(payload)
}

func sendJSONOrLog(w http.ResponseWriter, logger *slog.Logger, v any) {
	_, err := SendJSON(w, v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		logger.Error(
			"unable to send response",
			slog.Any("response", v),
			slog.Any("error", err),
		)
	}
}

// sendError writes status and a {"error": ...} body.
func sendError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, err error) {
	logger = requestLogger(r.Context(), logger)
	logger.Debug("request failed", slog.Int("status", status), slog.Any("error", err))
	w.Header().Add("Content-Type", "application/json")
	w.WriteHeader(status)
	payload, _ := json.Marshal(wrapError(err))
	if _, err := w.Write(payload); err != nil {
		logger.Error("unable to send error", slog.Any("error", err))
	}
}

func wrapError(err error) map[string]string {
	return map[string]string{
		"error": err.Error(),
	}
}
