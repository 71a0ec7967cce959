package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"cnc-ops/internal/middleware/auth"
	"cnc-ops/internal/service/directory"
	"cnc-ops/internal/storage"
)

type DirectoryProvider interface {
	Stats(ctx context.Context) (directory.Stats, error)
	Users(ctx context.Context) ([]storage.User, error)
	Machines(ctx context.Context) ([]storage.Machine, error)
}

type DashboardResponse struct {
	Machines int          `json:"machines"`
	Users    int          `json:"users"`
	Role     storage.Role `json:"role"`
}

// Options is everything the report forms offer in their dropdowns.
type Options struct {
	Machines         []storage.Machine `json:"machines"`
	Users            []storage.User    `json:"users"`
	SurfaceProcesses []string          `json:"surfaceProcesses"`
}

func Dashboard(log *slog.Logger, dir DirectoryProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.Dashboard"

		user, ok := auth.UserFrom(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		stats, err := dir.Stats(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("cannot load dashboard")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, DashboardResponse{
			Machines: stats.Machines,
			Users:    stats.Users,
			Role:     user.Role,
		})
	}
}

func GetOptions(log *slog.Logger, dir DirectoryProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.dashboard.GetOptions"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		var opts Options

		g, ctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			var err error
			opts.Machines, err = dir.Machines(ctx)
			return err
		})

		g.Go(func() error {
			var err error
			opts.Users, err = dir.Users(ctx)
			return err
		})

		if err := g.Wait(); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("cannot load form options")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		opts.SurfaceProcesses = storage.SurfaceProcesses

		render.JSON(w, r, opts)
	}
}
