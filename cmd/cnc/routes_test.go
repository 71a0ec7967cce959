package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cnc-ops/internal/config"
	"cnc-ops/internal/middleware/auth"
	"cnc-ops/internal/service/directory"
	generate_excel "cnc-ops/internal/service/generate-excel"
	"cnc-ops/internal/service/history"
	"cnc-ops/internal/service/report"
	"cnc-ops/internal/sheets"
	"cnc-ops/internal/storage"
	"cnc-ops/internal/storage/sqlite"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"status":"success"}`)
	}))
	t.Cleanup(webhook.Close)

	cfg := config.Config{
		Env:     envLocal,
		Storage: config.Storage{Driver: "sqlite", DSN: ":memory:"},
		Session: config.Session{Name: "cnc_session", Secret: "routes-test-secret-routes-test-se"},
		CORS:    config.CORS{AllowedOrigins: []string{"http://localhost:5173"}},
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	kv, err := sqlite.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	records := storage.NewRecords(kv)
	client := sheets.New(log, sheets.NewEndpoint(webhook.URL))
	t.Cleanup(client.Close)

	svc := services{
		reports:   report.NewEngine(log, records, client),
		directory: directory.New(log, records),
		history:   history.NewService(records),
		gate:      auth.NewGate(log, cfg.Session),
	}
	svc.excel = generate_excel.NewGenerateService(svc.history)

	srv := httptest.NewServer(routes(cfg, log, svc))
	t.Cleanup(srv.Close)

	return srv
}

func newClient(t *testing.T) *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

func loginAs(t *testing.T, c *http.Client, srv *httptest.Server, username, password string) int {
	t.Helper()

	body := `{"username":"` + username + `","password":"` + password + `"}`
	resp, err := c.Post(srv.URL+"/api/login", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	return resp.StatusCode
}

func get(t *testing.T, c *http.Client, url string) *http.Response {
	t.Helper()

	resp, err := c.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	return resp
}

func TestRoutes_RequireSession(t *testing.T) {
	srv := newTestServer(t)

	resp := get(t, newClient(t), srv.URL+"/api/history")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRoutes_WrongPassword(t *testing.T) {
	srv := newTestServer(t)

	assert.Equal(t, http.StatusUnauthorized, loginAs(t, newClient(t), srv, "admin", "wrong"))
}

func TestRoutes_OperatorCannotManageUsers(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	require.Equal(t, http.StatusOK, loginAs(t, c, srv, "operator1", "123456"))

	resp := get(t, c, srv.URL+"/api/admin/users")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = get(t, c, srv.URL+"/api/me")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRoutes_SubmitThenHistory(t *testing.T) {
	srv := newTestServer(t)
	c := newClient(t)

	require.Equal(t, http.StatusOK, loginAs(t, c, srv, "operator1", "123456"))

	resp := get(t, c, srv.URL+"/api/production/draft")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var draft storage.ProductionReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&draft))
	assert.Equal(t, "Nguyen Van A", draft.Operator)
	assert.Equal(t, "CNC-01", draft.MachineName)

	draft.ProjectCode = "ABC123"
	draft.ItemName = "01 - Bracket"
	draft.PartName = "Base plate"
	draft.PlannedQty = 5
	draft.ActualQty = 3
	draft.StartTime = "08:00"
	draft.EndTime = "09:30"
	draft.Supervisor = "Administrator"

	payload, err := json.Marshal(draft)
	require.NoError(t, err)

	post, err := c.Post(srv.URL+"/api/production", "application/json", strings.NewReader(string(payload)))
	require.NoError(t, err)
	defer post.Body.Close()
	require.Equal(t, http.StatusOK, post.StatusCode)

	resp = get(t, c, srv.URL+"/api/history?search=ab")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var page history.Page
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	require.Len(t, page.Production, 1)
	assert.Equal(t, "AB", page.Production[0].CustomerCode)
	assert.Equal(t, 30.0, page.Production[0].EstimatedTimePerPiece)

	other := newClient(t)
	require.Equal(t, http.StatusOK, loginAs(t, other, srv, "operator2", "123456"))

	resp = get(t, other, srv.URL+"/api/history")
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&page))
	assert.Empty(t, page.Production)
}
