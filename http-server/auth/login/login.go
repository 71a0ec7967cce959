package login

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"cnc-ops/http-server/respond"
	"cnc-ops/internal/service/directory"
	"cnc-ops/internal/storage"
)

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (storage.User, error)
}

type SessionStarter interface {
	Login(w http.ResponseWriter, r *http.Request, u storage.User) error
}

type Request struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func Login(log *slog.Logger, users Authenticator, sessions SessionStarter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Login"

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		user, err := users.Authenticate(ctx, req.Username, req.Password)
		if errors.Is(err, directory.ErrInvalidCredentials) {
			log.Info("login rejected", slog.String("username", req.Username))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, respond.Message{Message: "Invalid username or password."})
			return
		}
		if err != nil {
			log.Error("login failed", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		if err := sessions.Login(w, r, user); err != nil {
			log.Error("cannot start session", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.Info("user logged in", slog.String("username", user.Username), slog.String("role", string(user.Role)))

		render.JSON(w, r, user)
	}
}
