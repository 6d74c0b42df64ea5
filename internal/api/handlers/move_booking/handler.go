package move_booking

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
	msgMissingUserID      = "отсутствует ID пользователя"
	msgInvalidInput       = "некорректные параметры переноса"
	msgNotFound           = "бронирование не найдено"
	msgInvalidTable       = "стол назначения не найден в заведении"
	msgInvalidMove        = "стол назначения занят в окне бронирования"
)

type Handler struct {
	useCase MoveBookingUseCase
	logger  Logger
}

func NewHandler(useCase MoveBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/table-bookings/{bookingId}/move
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("PATCH /table-bookings/{id}/move - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /table-bookings/{id}/move - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req MoveBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /table-bookings/{id}/move - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(bookingID, userID))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookingNotFound):
			h.logger.Warn("PATCH /table-bookings/{id}/move - Booking not found: booking_id=%d", bookingID)
			handlers.RespondCodedError(w, domain.ErrBookingNotFound, msgNotFound)

		case errors.Is(err, domain.ErrInvalidTable), errors.Is(err, domain.ErrTableNotFound):
			h.logger.Warn("PATCH /table-bookings/{id}/move - Invalid table: booking_id=%d, table_id=%d", bookingID, req.DestinationTableID)
			handlers.RespondCodedError(w, domain.ErrInvalidTable, msgInvalidTable)

		case errors.Is(err, domain.ErrInvalidMove):
			h.logger.Warn("PATCH /table-bookings/{id}/move - Invalid move: booking_id=%d, table_id=%d", bookingID, req.DestinationTableID)
			handlers.RespondCodedError(w, domain.ErrInvalidMove, msgInvalidMove)

		case errors.Is(err, domain.ErrInvalidInput):
			h.logger.Warn("PATCH /table-bookings/{id}/move - Invalid input: %v", err)
			handlers.RespondCodedError(w, domain.ErrInvalidInput, msgInvalidInput)

		default:
			h.logger.Error("PATCH /table-bookings/{id}/move - Failed to move booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /table-bookings/{id}/move - Booking moved: booking_id=%d, table_id=%d, user_id=%d",
		bookingID, req.DestinationTableID, userID)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
