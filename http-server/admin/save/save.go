package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"cnc-ops/http-server/respond"
	"cnc-ops/internal/storage"
)

type DirectoryWriter interface {
	SaveUser(ctx context.Context, u storage.User) (storage.User, error)
	SaveMachine(ctx context.Context, m storage.Machine) (storage.Machine, error)
}

// SaveUserAdmin creates a user. Any id in the body is ignored.
func SaveUserAdmin(log *slog.Logger, dir DirectoryWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveUserAdmin"

		var user storage.User
		if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		user.ID = ""

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		saved, err := dir.SaveUser(ctx, user)
		if err != nil {
			respond.Error(w, r, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, saved)
	}
}

func SaveMachineAdmin(log *slog.Logger, dir DirectoryWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveMachineAdmin"

		var machine storage.Machine
		if err := json.NewDecoder(r.Body).Decode(&machine); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		machine.ID = ""

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		saved, err := dir.SaveMachine(ctx, machine)
		if err != nil {
			respond.Error(w, r, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, saved)
	}
}
