package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"cnc-ops/internal/middleware/auth"
	"cnc-ops/internal/service/history"
)

type HistoryLoader interface {
	Load(ctx context.Context, v history.Viewer, q history.Query) (history.Page, error)
}

// ViewerAndQuery reads the caller and the ?search=&user= filters of a
// history request.
func ViewerAndQuery(r *http.Request) (history.Viewer, history.Query, bool) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		return history.Viewer{}, history.Query{}, false
	}

	v := history.Viewer{FullName: user.FullName, Role: user.Role}
	q := history.Query{
		SelectedUser: r.URL.Query().Get("user"),
		Search:       r.URL.Query().Get("search"),
	}

	return v, q, true
}

func GetHistory(log *slog.Logger, reports HistoryLoader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.history.GetHistory"

		v, q, ok := ViewerAndQuery(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		page, err := reports.Load(ctx, v, q)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("cannot load history")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, page)
	}
}
