package change_booking_status

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
	"github.com/m04kA/SMC-TableService/internal/api/middleware"
	"github.com/m04kA/SMC-TableService/internal/domain"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "некорректный статус бронирования"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "бронирование не найдено"
	msgInvoiceNotFound    = "инвойс не найден"
	msgCardNotSaved       = "у брони нет сохранённой карты"
	msgAlreadyCharged     = "по брони уже было списание"
	msgTimeslotFull       = "стол уже забронирован на это время"
)

type Handler struct {
	useCase ChangeStatusUseCase
	logger  Logger
}

func NewHandler(useCase ChangeStatusUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/table-bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /table-bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /table-bookings/{id}/status - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req ChangeStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /table-bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(bookingID, userID)
	if err != nil {
		h.logger.Warn("PATCH /table-bookings/{id}/status - Invalid status %q: %v", req.Status, err)
		handlers.RespondCodedError(w, domain.ErrInvalidInput, msgInvalidStatus)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			h.logger.Warn("PATCH /table-bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
			handlers.RespondCodedError(w, domain.ErrBookingNotFound, msgNotFound)

		case errors.Is(err, domain.ErrInvoiceNotFound):
			h.logger.Warn("PATCH /table-bookings/{id}/status - Invoice not found: booking_id=%d", bookingID)
			handlers.RespondCodedError(w, domain.ErrInvoiceNotFound, msgInvoiceNotFound)

		case errors.Is(err, domain.ErrCardNotSaved):
			h.logger.Warn("PATCH /table-bookings/{id}/status - Card not saved: booking_id=%d", bookingID)
			handlers.RespondCodedError(w, domain.ErrCardNotSaved, msgCardNotSaved)

		case errors.Is(err, domain.ErrAlreadyCharged):
			h.logger.Warn("PATCH /table-bookings/{id}/status - Already charged: booking_id=%d", bookingID)
			handlers.RespondCodedError(w, domain.ErrAlreadyCharged, msgAlreadyCharged)

		case errors.Is(err, domain.ErrBookingTimeslotFull):
			h.logger.Warn("PATCH /table-bookings/{id}/status - Timeslot full: booking_id=%d", bookingID)
			handlers.RespondCodedError(w, domain.ErrBookingTimeslotFull, msgTimeslotFull)

		default:
			if handlers.RespondDomainError(w, err) {
				h.logger.Warn("PATCH /table-bookings/{id}/status - Rejected: booking_id=%d, error=%v", bookingID, err)
				return
			}
			h.logger.Error("PATCH /table-bookings/{id}/status - Failed to change status: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /table-bookings/{id}/status - Status changed: invoice_id=%d, %s -> %s, user_id=%d",
		result.InvoiceID, result.OldStatus, result.Status, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
