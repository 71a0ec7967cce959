package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"cnc-ops/http-server/respond"
	"cnc-ops/internal/storage"
)

type DirectoryWriter interface {
	SaveUser(ctx context.Context, u storage.User) (storage.User, error)
	SaveMachine(ctx context.Context, m storage.Machine) (storage.Machine, error)
}

// UpdateUserAdmin edits the user named by {id}. An empty password keeps the
// current one.
func UpdateUserAdmin(log *slog.Logger, dir DirectoryWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateUserAdmin"

		var user storage.User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		user.ID = chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		saved, err := dir.SaveUser(ctx, user)
		if err != nil {
			respond.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, saved)
	}
}

func UpdateMachineAdmin(log *slog.Logger, dir DirectoryWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateMachineAdmin"

		var machine storage.Machine
		if err := json.NewDecoder(r.Body).Decode(&machine); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		machine.ID = chi.URLParam(r, "id")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		saved, err := dir.SaveMachine(ctx, machine)
		if err != nil {
			respond.Error(w, r, log, op, err)
			return
		}

		render.JSON(w, r, saved)
	}
}
