package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cnc-ops/internal/middleware/auth"
	"cnc-ops/internal/service/directory"
	"cnc-ops/internal/storage"
)

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) Stats(ctx context.Context) (directory.Stats, error) {
	args := m.Called(ctx)
	return args.Get(0).(directory.Stats), args.Error(1)
}

func (m *MockDirectory) Users(ctx context.Context) ([]storage.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.User), args.Error(1)
}

func (m *MockDirectory) Machines(ctx context.Context) ([]storage.Machine, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]storage.Machine), args.Error(1)
}

func asOperator(req *http.Request) *http.Request {
	return req.WithContext(auth.WithUser(req.Context(), storage.User{
		ID: "user-2", FullName: "Nguyen Van A", Role: storage.RoleOperator,
	}))
}

func TestDashboard(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("Stats", mock.Anything).Return(directory.Stats{Users: 3, Machines: 4}, nil)

	rr := httptest.NewRecorder()
	Dashboard(slog.Default(), dir).ServeHTTP(rr, asOperator(httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp DashboardResponse
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, DashboardResponse{Machines: 4, Users: 3, Role: storage.RoleOperator}, resp)
}

func TestDashboard_Error(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("Stats", mock.Anything).Return(directory.Stats{}, errors.New("db down"))

	rr := httptest.NewRecorder()
	Dashboard(slog.Default(), dir).ServeHTTP(rr, asOperator(httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestGetOptions(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("Machines", mock.Anything).Return([]storage.Machine{{ID: "machine-1", Name: "CNC-01"}}, nil)
	dir.On("Users", mock.Anything).Return([]storage.User{{ID: "user-1", FullName: "Administrator", Role: storage.RoleAdmin}}, nil)

	rr := httptest.NewRecorder()
	GetOptions(slog.Default(), dir).ServeHTTP(rr, asOperator(httptest.NewRequest(http.MethodGet, "/api/options", nil)))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp Options
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Len(t, resp.Machines, 1)
	assert.Equal(t, "Administrator", resp.Users[0].FullName)
	assert.Equal(t, storage.SurfaceProcesses, resp.SurfaceProcesses)
}

func TestGetOptions_Error(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("Machines", mock.Anything).Return(nil, errors.New("db down"))
	dir.On("Users", mock.Anything).Return([]storage.User{}, nil).Maybe()

	rr := httptest.NewRecorder()
	GetOptions(slog.Default(), dir).ServeHTTP(rr, asOperator(httptest.NewRequest(http.MethodGet, "/api/options", nil)))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
