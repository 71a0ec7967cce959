package draft

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"cnc-ops/internal/middleware/auth"
	"cnc-ops/internal/storage"
)

type Drafter interface {
	NewProductionDraft(ctx context.Context, user storage.User) (storage.ProductionReport, error)
}

// GetDraft returns a production report prefilled for the signed-in operator.
func GetDraft(log *slog.Logger, reports Drafter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.production.GetDraft"

		user, ok := auth.UserFrom(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		draft, err := reports.NewProductionDraft(ctx, user)
		if err != nil {
			log.Error("cannot build draft", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, draft)
	}
}
