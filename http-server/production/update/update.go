package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"cnc-ops/http-server/respond"
	"cnc-ops/internal/service/report"
	"cnc-ops/internal/sheets"
	"cnc-ops/internal/storage"
)

type ProductionUpdater interface {
	UpdateProduction(ctx context.Context, r storage.ProductionReport) (report.Result, error)
}

// UpdateProduction re-sends an edited report. The id comes from the URL and
// wins over any id in the body.
func UpdateProduction(log *slog.Logger, reports ProductionUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.UpdateProduction"

		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req storage.ProductionReport
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}
		req.ID = id

		log.Info("updating production report", slog.String("id", id))

		ctx, cancel := context.WithTimeout(r.Context(), sheets.Timeout+5*time.Second)
		defer cancel()

		res, err := reports.UpdateProduction(ctx, req)

		respond.Report(w, r, log, op, res, err)
	}
}
