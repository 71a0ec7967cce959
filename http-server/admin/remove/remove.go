package remove

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cnc-ops/http-server/respond"
	"cnc-ops/internal/middleware/auth"
)

type DirectoryRemover interface {
	DeleteUser(ctx context.Context, id string) error
	DeleteMachine(ctx context.Context, id string) error
}

// DeleteUserAdmin removes a user. Admins cannot remove their own account.
func DeleteUserAdmin(log *slog.Logger, dir DirectoryRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.DeleteUserAdmin"

		id := chi.URLParam(r, "id")

		if me, ok := auth.UserFrom(r.Context()); ok && me.ID == id {
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, respond.Message{Message: "You cannot delete your own account."})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := dir.DeleteUser(ctx, id); err != nil {
			respond.Error(w, r, log, op, err)
			return
		}

		log.Info("user deleted", slog.String("id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteMachineAdmin(log *slog.Logger, dir DirectoryRemover) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.DeleteMachineAdmin"

		id := chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := dir.DeleteMachine(ctx, id); err != nil {
			respond.Error(w, r, log, op, err)
			return
		}

		log.Info("machine deleted", slog.String("id", id))

		w.WriteHeader(http.StatusNoContent)
	}
}
