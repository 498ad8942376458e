package appointments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/appointly/bookingbot/pkg/logging"
)

// AdminStore is the repository surface the admin handler consumes.
type AdminStore interface {
	ListAll(ctx context.Context) ([]AdminView, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

// Handler serves the admin appointment endpoints.
type Handler struct {
	store  AdminStore
	logger *logging.Logger
}

// NewHandler creates the admin handler.
func NewHandler(store AdminStore, logger *logging.Logger) *Handler {
	if store == nil {
		panic("appointments: admin store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{store: store, logger: logger}
}

// List handles GET /api/appointments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.store.ListAll(r.Context())
	if err != nil {
		h.logger.Error("list appointments failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list appointments"})
		return
	}
	if views == nil {
		views = []AdminView{}
	}
	writeJSON(w, http.StatusOK, views)
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/appointments/{id}/status.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid appointment id"})
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if !ValidStatus(req.Status) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": "status must be one of scheduled, completed, cancelled"})
		return
	}

	if err := h.store.UpdateStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "appointment not found"})
			return
		}
		h.logger.Error("update appointment status failed", "error", err, "appointment_id", id)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update status"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Status updated successfully"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
