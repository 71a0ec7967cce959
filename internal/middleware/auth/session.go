package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gorilla/sessions"

	"cnc-ops/internal/config"
	"cnc-ops/internal/storage"
)

type ctxKey struct{}

const (
	keyID        = "id"
	keyUsername  = "username"
	keyFullName  = "fullName"
	keyRole      = "role"
	keyDefMachID = "defaultMachineId"
)

// Gate keeps the signed-in user in a cookie session. The cookie has no
// Max-Age, so it goes away when the browser is closed.
type Gate struct {
	log   *slog.Logger
	store sessions.Store
	name  string
}

func NewGate(log *slog.Logger, cfg config.Session) *Gate {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   0,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Gate{log: log, store: store, name: cfg.Name}
}

// Login stores u, without credentials, in the session.
func (g *Gate) Login(w http.ResponseWriter, r *http.Request, u storage.User) error {
	const op = "middleware.auth.Login"

	session, err := g.store.Get(r, g.name)
	if err != nil {
		// a cookie signed with an old secret; start over
		g.log.Debug("discarding unreadable session", slog.String("op", op), slog.String("error", err.Error()))
	}

	session.Values[keyID] = u.ID
	session.Values[keyUsername] = u.Username
	session.Values[keyFullName] = u.FullName
	session.Values[keyRole] = string(u.Role)
	session.Values[keyDefMachID] = u.DefaultMachineID

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (g *Gate) Logout(w http.ResponseWriter, r *http.Request) error {
	const op = "middleware.auth.Logout"

	session, _ := g.store.Get(r, g.name)
	session.Values = map[any]any{}
	session.Options.MaxAge = -1

	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Current returns the user of the request's session, if any.
func (g *Gate) Current(r *http.Request) (storage.User, bool) {
	session, err := g.store.Get(r, g.name)
	if err != nil {
		return storage.User{}, false
	}

	id, _ := session.Values[keyID].(string)
	if id == "" {
		return storage.User{}, false
	}

	username, _ := session.Values[keyUsername].(string)
	fullName, _ := session.Values[keyFullName].(string)
	role, _ := session.Values[keyRole].(string)
	machine, _ := session.Values[keyDefMachID].(string)

	return storage.User{
		ID:               id,
		Username:         username,
		FullName:         fullName,
		Role:             storage.Role(role),
		DefaultMachineID: machine,
	}, true
}

// RequireUser rejects requests without a session and puts the user into the
// request context for the handlers below.
func (g *Gate) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := g.Current(r)
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// RequireAdmin must run after RequireUser.
func (g *Gate) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFrom(r.Context())
		if !ok {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if !u.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func WithUser(ctx context.Context, u storage.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

func UserFrom(ctx context.Context) (storage.User, bool) {
	u, ok := ctx.Value(ctxKey{}).(storage.User)
	return u, ok
}
