package get_table_view

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
	"github.com/m04kA/SMC-TableService/internal/domain"
)

const (
	msgInvalidTableID = "некорректный ID стола"
	msgInvalidRange   = "некорректный диапазон: ожидаются from и to в RFC 3339, from раньше to"
	msgTableNotFound  = "стол не найден"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/tables/{tableId}/bookings?from=...&to=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	tableID, err := handlers.PathInt64(r, "tableId")
	if err != nil {
		h.logger.Warn("GET /tables/{id}/bookings - Invalid table ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTableID)
		return
	}

	displayRange, err := parseRange(r)
	if err != nil {
		h.logger.Warn("GET /tables/{id}/bookings - Invalid range: %v", err)
		handlers.RespondCodedError(w, domain.ErrInvalidInput, msgInvalidRange)
		return
	}

	view, err := h.service.GetTableView(r.Context(), tableID, displayRange)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTableNotFound):
			h.logger.Warn("GET /tables/{id}/bookings - Table not found: table_id=%d", tableID)
			handlers.RespondCodedError(w, domain.ErrTableNotFound, msgTableNotFound)

		default:
			h.logger.Error("GET /tables/{id}/bookings - Failed to get table view: table_id=%d, error=%v", tableID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /tables/{id}/bookings - table_id=%d, bookings=%d", tableID, len(view.Bookings))
	handlers.RespondJSON(w, http.StatusOK, view)
}

func parseRange(r *http.Request) (domain.TimeWindow, error) {
	from, err := handlers.QueryTime(r, "from")
	if err != nil {
		return domain.TimeWindow{}, err
	}
	to, err := handlers.QueryTime(r, "to")
	if err != nil {
		return domain.TimeWindow{}, err
	}
	return domain.NewTimeWindow(from, to)
}
