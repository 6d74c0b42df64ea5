package confirm_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
	"github.com/m04kA/SMC-TableService/internal/domain"
)

const (
	msgInvalidInvoiceID = "некорректный ID инвойса"
	msgInvoiceNotFound  = "инвойс не найден"
	msgNoBookings       = "у инвойса нет активных бронирований"
)

// ConfirmResponse HTTP response model
type ConfirmResponse struct {
	InvoiceID int64  `json:"invoiceId"`
	Status    string `json:"status"` // BOOKED или ERROR
}

type Handler struct {
	useCase ConfirmUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/invoices/{invoiceId}/confirm
// Публичный маршрут: цель ссылки подтверждения из письма
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	invoiceID, err := handlers.PathInt64(r, "invoiceId")
	if err != nil {
		h.logger.Warn("POST /invoices/{id}/confirm - Invalid invoice ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidInvoiceID)
		return
	}

	result, err := h.useCase.ConfirmFromLink(r.Context(), invoiceID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvoiceNotFound):
			h.logger.Warn("POST /invoices/{id}/confirm - Invoice not found: invoice_id=%d", invoiceID)
			handlers.RespondCodedError(w, domain.ErrInvoiceNotFound, msgInvoiceNotFound)

		case errors.Is(err, domain.ErrBookingNotFound):
			h.logger.Warn("POST /invoices/{id}/confirm - No bookings: invoice_id=%d", invoiceID)
			handlers.RespondCodedError(w, domain.ErrBookingNotFound, msgNoBookings)

		default:
			h.logger.Error("POST /invoices/{id}/confirm - Failed to confirm: invoice_id=%d, error=%v", invoiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /invoices/{id}/confirm - invoice_id=%d, outcome=%s", invoiceID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, ConfirmResponse{InvoiceID: result.InvoiceID, Status: string(result.Status)})
}
