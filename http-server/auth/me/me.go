package me

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"cnc-ops/internal/middleware/auth"
)

// Me returns the signed-in user. It runs behind auth.Gate.RequireUser.
func Me(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.UserFrom(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		render.JSON(w, r, user)
	}
}
