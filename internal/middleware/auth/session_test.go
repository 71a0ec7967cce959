package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cnc-ops/internal/config"
	"cnc-ops/internal/storage"
)

func newTestGate() *Gate {
	return NewGate(slog.New(slog.NewTextHandler(io.Discard, nil)), config.Session{
		Name:   "cnc_session",
		Secret: "test-secret-test-secret-test-sec",
	})
}

var operator = storage.User{
	ID:               "user-2",
	Username:         "operator1",
	FullName:         "Nguyen Van A",
	Role:             storage.RoleOperator,
	DefaultMachineID: "machine-1",
}

// login returns the cookies a browser would send after signing in as u.
func login(t *testing.T, g *Gate, u storage.User) []*http.Cookie {
	t.Helper()

	rr := httptest.NewRecorder()
	require.NoError(t, g.Login(rr, httptest.NewRequest(http.MethodPost, "/api/login", nil), u))

	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)

	return cookies
}

func withCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestLogin_CookieIsSessionScoped(t *testing.T) {
	cookies := login(t, newTestGate(), operator)

	c := cookies[0]
	assert.Equal(t, "cnc_session", c.Name)
	assert.True(t, c.HttpOnly)
	assert.Zero(t, c.MaxAge)
	assert.True(t, c.Expires.IsZero())
}

func TestCurrent(t *testing.T) {
	g := newTestGate()
	cookies := login(t, g, operator)

	u, ok := g.Current(withCookies(httptest.NewRequest(http.MethodGet, "/api/me", nil), cookies))
	require.True(t, ok)
	assert.Equal(t, operator, u)

	_, ok = g.Current(httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.False(t, ok)
}

func TestCurrent_ForgedCookie(t *testing.T) {
	cookies := login(t, newTestGate(), operator)

	other := NewGate(slog.New(slog.NewTextHandler(io.Discard, nil)), config.Session{
		Name:   "cnc_session",
		Secret: "another-secret-another-secret-an",
	})

	_, ok := other.Current(withCookies(httptest.NewRequest(http.MethodGet, "/api/me", nil), cookies))
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	g := newTestGate()
	cookies := login(t, g, operator)

	rr := httptest.NewRecorder()
	require.NoError(t, g.Logout(rr, withCookies(httptest.NewRequest(http.MethodPost, "/api/logout", nil), cookies)))

	cleared := rr.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Less(t, cleared[0].MaxAge, 0)
}

func TestRequireUser(t *testing.T) {
	g := newTestGate()

	var seen storage.User
	h := g.RequireUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, withCookies(httptest.NewRequest(http.MethodGet, "/api/history", nil), login(t, g, operator)))
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "Nguyen Van A", seen.FullName)
}

func TestRequireAdmin(t *testing.T) {
	g := newTestGate()
	h := g.RequireUser(g.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, withCookies(httptest.NewRequest(http.MethodGet, "/api/admin/users", nil), login(t, g, operator)))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	admin := storage.User{ID: "user-1", Username: "admin", FullName: "Administrator", Role: storage.RoleAdmin}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, withCookies(httptest.NewRequest(http.MethodGet, "/api/admin/users", nil), login(t, g, admin)))
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestRequireAdmin_WithoutUser(t *testing.T) {
	h := newTestGate().RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
