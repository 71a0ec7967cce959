package submit

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"cnc-ops/http-server/respond"
	"cnc-ops/internal/service/report"
	"cnc-ops/internal/sheets"
	"cnc-ops/internal/storage"
)

type DowntimeSubmitter interface {
	SubmitDowntime(ctx context.Context, r storage.DowntimeReport) (report.Result, error)
}

func SubmitDowntime(log *slog.Logger, reports DowntimeSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.downtime.SubmitDowntime"

		var req storage.DowntimeReport
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), sheets.Timeout+5*time.Second)
		defer cancel()

		res, err := reports.SubmitDowntime(ctx, req)

		respond.Report(w, r, log, op, res, err)
	}
}
