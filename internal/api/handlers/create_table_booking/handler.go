package create_table_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
	"github.com/m04kA/SMC-TableService/internal/domain"
)

const (
	msgInvalidOutletID     = "некорректный ID заведения"
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidInput        = "некорректные параметры бронирования"
	msgTimeslotFull        = "стол уже забронирован на это время"
	msgInvalidTable        = "стол не найден в заведении"
	msgInvoiceNotFound     = "инвойс не найден"
	msgGroupNotFound       = "группа столов не найдена"
	msgPossibilityNotFound = "комбинация столов не найдена"
)

type Handler struct {
	useCase CreateTableBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateTableBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/outlets/{outletId}/table-bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	outletID, err := handlers.PathInt64(r, "outletId")
	if err != nil {
		h.logger.Warn("POST /outlets/{id}/table-bookings - Invalid outlet ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidOutletID)
		return
	}

	var req CreateTableBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /outlets/{id}/table-bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(outletID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingTimeslotFull):
			h.logger.Warn("POST /outlets/{id}/table-bookings - Timeslot full: outlet_id=%d, invoice_id=%d", outletID, req.InvoiceID)
			handlers.RespondCodedError(w, domain.ErrBookingTimeslotFull, msgTimeslotFull)

		case errors.Is(err, domain.ErrInvalidTable):
			h.logger.Warn("POST /outlets/{id}/table-bookings - Invalid table: outlet_id=%d, tables=%v", outletID, req.TableIDs)
			handlers.RespondCodedError(w, domain.ErrInvalidTable, msgInvalidTable)

		case errors.Is(err, domain.ErrInvoiceNotFound):
			h.logger.Warn("POST /outlets/{id}/table-bookings - Invoice not found: invoice_id=%d", req.InvoiceID)
			handlers.RespondCodedError(w, domain.ErrInvoiceNotFound, msgInvoiceNotFound)

		case errors.Is(err, domain.ErrGroupNotFound):
			h.logger.Warn("POST /outlets/{id}/table-bookings - Group not found: outlet_id=%d", outletID)
			handlers.RespondCodedError(w, domain.ErrGroupNotFound, msgGroupNotFound)

		case errors.Is(err, domain.ErrPossibilityNotFound):
			h.logger.Warn("POST /outlets/{id}/table-bookings - Possibility not found: outlet_id=%d", outletID)
			handlers.RespondCodedError(w, domain.ErrPossibilityNotFound, msgPossibilityNotFound)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("POST /outlets/{id}/table-bookings - Invalid input: %v", err)
			handlers.RespondCodedError(w, domain.ErrInvalidInput, msgInvalidInput)

		default:
			h.logger.Error("POST /outlets/{id}/table-bookings - Failed to create bookings: outlet_id=%d, invoice_id=%d, error=%v",
				outletID, req.InvoiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /outlets/{id}/table-bookings - Bookings created: invoice_id=%d, tables=%v", result.InvoiceID, result.TableIDs)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
