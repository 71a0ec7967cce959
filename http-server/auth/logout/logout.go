package logout

import (
	"log/slog"
	"net/http"
)

type SessionCloser interface {
	Logout(w http.ResponseWriter, r *http.Request) error
}

func Logout(log *slog.Logger, sessions SessionCloser) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.auth.Logout"

		if err := sessions.Logout(w, r); err != nil {
			log.Error("cannot clear session", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
