package remove

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cnc-ops/internal/middleware/auth"
	"cnc-ops/internal/service/directory"
	"cnc-ops/internal/storage"
)

type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) DeleteUser(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDirectory) DeleteMachine(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func newRouter(dir DirectoryRemover) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			admin := storage.User{ID: "user-1", FullName: "Administrator", Role: storage.RoleAdmin}
			next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), admin)))
		})
	})
	r.Delete("/api/admin/users/{id}", DeleteUserAdmin(slog.Default(), dir))
	r.Delete("/api/admin/machines/{id}", DeleteMachineAdmin(slog.Default(), dir))
	return r
}

func TestDeleteUserAdmin(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("DeleteUser", mock.Anything, "user-3").Return(nil)

	rr := httptest.NewRecorder()
	newRouter(dir).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/admin/users/user-3", nil))

	assert.Equal(t, http.StatusNoContent, rr.Code)
	dir.AssertExpectations(t)
}

func TestDeleteUserAdmin_Self(t *testing.T) {
	dir := new(MockDirectory)

	rr := httptest.NewRecorder()
	newRouter(dir).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/admin/users/user-1", nil))

	assert.Equal(t, http.StatusConflict, rr.Code)
	dir.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestDeleteMachineAdmin_NotFound(t *testing.T) {
	dir := new(MockDirectory)
	dir.On("DeleteMachine", mock.Anything, "machine-9").
		Return(fmt.Errorf("service.directory.DeleteMachine: machine machine-9: %w", directory.ErrNotFound))

	rr := httptest.NewRecorder()
	newRouter(dir).ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/admin/machines/machine-9", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
