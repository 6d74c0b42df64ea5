package check_availability

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
	"github.com/m04kA/SMC-TableService/internal/domain"
)

const (
	msgInvalidOutletID    = "некорректный ID заведения"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные параметры проверки: нужен хотя бы один стол и окно с началом раньше конца"
	msgInvalidTable       = "стол не найден в заведении"
)

type Handler struct {
	useCase CheckAvailabilityUseCase
	logger  Logger
}

func NewHandler(useCase CheckAvailabilityUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/outlets/{outletId}/availability
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	outletID, err := handlers.PathInt64(r, "outletId")
	if err != nil {
		h.logger.Warn("POST /outlets/{id}/availability - Invalid outlet ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOutletID)
		return
	}

	var req CheckAvailabilityRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /outlets/{id}/availability - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(outletID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /outlets/{id}/availability - Invalid input: outlet_id=%d, error=%v", outletID, err)
			handlers.RespondCodedError(w, domain.ErrInvalidInput, msgInvalidInput)

		case errors.Is(err, domain.ErrInvalidTable):
			h.logger.Warn("POST /outlets/{id}/availability - Invalid table: outlet_id=%d, tables=%v", outletID, req.TableIDs)
			handlers.RespondCodedError(w, domain.ErrInvalidTable, msgInvalidTable)

		default:
			h.logger.Error("POST /outlets/{id}/availability - Failed to check availability: outlet_id=%d, error=%v", outletID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /outlets/{id}/availability - outlet_id=%d, tables=%v, available=%v", outletID, req.TableIDs, result.Available)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
