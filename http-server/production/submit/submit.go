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

type ProductionSubmitter interface {
	SubmitProduction(ctx context.Context, r storage.ProductionReport) (report.Result, error)
}

func SubmitProduction(log *slog.Logger, reports ProductionSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.SubmitProduction"

		var req storage.ProductionReport
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), sheets.Timeout+5*time.Second)
		defer cancel()

		res, err := reports.SubmitProduction(ctx, req)

		respond.Report(w, r, log, op, res, err)
	}
}
