package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	historyget "cnc-ops/http-server/history/get"
	"cnc-ops/internal/service/history"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, v history.Viewer, q history.Query) ([]byte, error)
}

// GenerateHistoryExcel exports the same rows GET /api/history would return.
func GenerateHistoryExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.history.GenerateHistoryExcel"

		v, q, ok := historyget.ViewerAndQuery(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, v, q)
		if err != nil {
			log.Error("failed to generate excel", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("CNC_History_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
