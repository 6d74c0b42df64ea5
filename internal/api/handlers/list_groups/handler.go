package list_groups

import (
	"net/http"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
)

const (
	msgInvalidSeatingTypeID = "некорректный ID типа рассадки"
)

type Handler struct {
	service GroupService
	logger  Logger
}

func NewHandler(service GroupService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/seating-types/{seatingTypeId}/groups
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	seatingTypeID, err := handlers.PathInt64(r, "seatingTypeId")
	if err != nil {
		h.logger.Warn("GET /seating-types/{id}/groups - Invalid seating type ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSeatingTypeID)
		return
	}

	list, err := h.service.ListGroups(r.Context(), seatingTypeID)
	if err != nil {
		h.logger.Error("GET /seating-types/{id}/groups - Failed to list groups: seating_type_id=%d, error=%v", seatingTypeID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /seating-types/{id}/groups - seating_type_id=%d, total=%d", seatingTypeID, list.Total)
	handlers.RespondJSON(w, http.StatusOK, list)
}
