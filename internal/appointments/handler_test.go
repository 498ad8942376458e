package appointments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusUpdate struct {
	id     uuid.UUID
	status string
}

type fakeAdminStore struct {
	views   []AdminView
	listErr error

	updates   []statusUpdate
	updateErr error
}

func (f *fakeAdminStore) ListAll(_ context.Context) ([]AdminView, error) {
	return f.views, f.listErr
}

func (f *fakeAdminStore) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates = append(f.updates, statusUpdate{id: id, status: status})
	return nil
}

func adminRouter(store *fakeAdminStore) http.Handler {
	h := NewHandler(store, nil)
	r := chi.NewRouter()
	r.Get("/api/appointments", h.List)
	r.Patch("/api/appointments/{id}/status", h.UpdateStatus)
	return r
}

func TestListReturnsAdminViews(t *testing.T) {
	store := &fakeAdminStore{views: []AdminView{{
		ID:     uuid.New(),
		User:   Owner{Name: "Ada", Email: "ada@x.com", Phone: "+60123456789"},
		Date:   "2025-03-11",
		Time:   "09:00:00",
		Status: StatusScheduled,
	}}}
	rec := httptest.NewRecorder()
	adminRouter(store).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []AdminView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Ada", got[0].User.Name)
	assert.Equal(t, "09:00:00", got[0].Time)
}

func TestListEmptyIsJSONArray(t *testing.T) {
	rec := httptest.NewRecorder()
	adminRouter(&fakeAdminStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/appointments", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]\n", rec.Body.String())
}

func patchStatus(t *testing.T, router http.Handler, id, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPatch, "/api/appointments/"+id+"/status", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateStatusHappyPath(t *testing.T) {
	store := &fakeAdminStore{}
	id := uuid.New()

	rec := patchStatus(t, adminRouter(store), id.String(), `{"status":"completed"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Status updated successfully")
	require.Len(t, store.updates, 1)
	assert.Equal(t, statusUpdate{id: id, status: StatusCompleted}, store.updates[0])
}

func TestUpdateStatusBadID(t *testing.T) {
	rec := patchStatus(t, adminRouter(&fakeAdminStore{}), "not-a-uuid", `{"status":"completed"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusBadBody(t *testing.T) {
	rec := patchStatus(t, adminRouter(&fakeAdminStore{}), uuid.NewString(), `{broken`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	store := &fakeAdminStore{}
	rec := patchStatus(t, adminRouter(store), uuid.NewString(), `{"status":"postponed"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, store.updates)
}

func TestUpdateStatusNotFound(t *testing.T) {
	store := &fakeAdminStore{updateErr: ErrAppointmentNotFound}
	rec := patchStatus(t, adminRouter(store), uuid.NewString(), `{"status":"cancelled"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusScheduled, StatusCompleted, StatusCancelled} {
		assert.True(t, ValidStatus(status), status)
	}
	for _, status := range []string{"", "Scheduled", "postponed"} {
		assert.False(t, ValidStatus(status), status)
	}
}
