package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"cnc-ops/internal/storage"
)

type DirectoryProvider interface {
	Users(ctx context.Context) ([]storage.User, error)
	Machines(ctx context.Context) ([]storage.Machine, error)
}

func GetUsersAdmin(log *slog.Logger, dir DirectoryProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetUsersAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		users, err := dir.Users(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("cannot list users")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, users)
	}
}

func GetMachinesAdmin(log *slog.Logger, dir DirectoryProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetMachinesAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		machines, err := dir.Machines(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("cannot list machines")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, machines)
	}
}
