package respond

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"cnc-ops/internal/service/directory"
	"cnc-ops/internal/service/report"
)

type Message struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// Report writes the outcome of a submit or update. A webhook failure is a
// 502 carrying the failure text, so the form can show it and keep its input.
func Report(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, res report.Result, err error) {
	switch {
	case errors.Is(err, report.ErrInvalidReport):
		render.Status(r, http.StatusBadRequest)
	case err != nil:
		log.Error("report not stored", slog.String("op", op), slog.String("error", err.Error()))
		render.Status(r, http.StatusInternalServerError)
	case !res.Success:
		render.Status(r, http.StatusBadGateway)
	default:
		render.Status(r, http.StatusOK)
	}

	render.JSON(w, r, Message{Success: err == nil && res.Success, Message: res.Message, ID: res.ID})
}

// Error maps a directory error to a status and writes it as a Message.
func Error(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, err error) {
	status := http.StatusInternalServerError
	msg := "Internal error"

	switch {
	case errors.Is(err, directory.ErrInvalid), errors.Is(err, directory.ErrPasswordRequired):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, directory.ErrUsernameTaken):
		status, msg = http.StatusConflict, "Username already exists"
	case errors.Is(err, directory.ErrNotFound):
		status, msg = http.StatusNotFound, "Not found"
	default:
		log.Error("directory operation failed", slog.String("op", op), slog.String("error", err.Error()))
	}

	render.Status(r, status)
	render.JSON(w, r, Message{Message: msg})
}
