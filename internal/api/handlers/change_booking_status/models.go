package change_booking_status

import (
	"github.com/m04kA/SMC-TableService/internal/service/bookings/models"
	changeStatus "github.com/m04kA/SMC-TableService/internal/usecase/change_booking_status"
)

// ChangeStatusRequest HTTP request model
type ChangeStatusRequest struct {
	Status string `json:"status"`
	Charge bool   `json:"charge,omitempty"` // списать штраф за неявку (только для NOSHOW)
}

// ChargeResponse результат списания
type ChargeResponse struct {
	ChargeID string `json:"chargeId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

// ChangeStatusResponse HTTP response model
type ChangeStatusResponse struct {
	InvoiceID int64                    `json:"invoiceId"`
	OldStatus string                   `json:"oldStatus"`
	Status    string                   `json:"status"`
	Bookings  []models.BookingResponse `json:"bookings"`
	Charge    *ChargeResponse          `json:"charge,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ChangeStatusRequest) ToUseCaseRequest(bookingID, userID int64) (*changeStatus.Request, error) {
	status, err := models.ToDomainBookingStatus(r.Status)
	if err != nil {
		return nil, err
	}
	return &changeStatus.Request{
		BookingID:    bookingID,
		Status:       status,
		ChargeNoShow: r.Charge,
		UserID:       userID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *changeStatus.Response) *ChangeStatusResponse {
	out := &ChangeStatusResponse{
		InvoiceID: resp.InvoiceID,
		OldStatus: string(resp.OldStatus),
		Status:    string(resp.Status),
		Bookings:  make([]models.BookingResponse, 0, len(resp.Bookings)),
	}
	for _, b := range resp.Bookings {
		out.Bookings = append(out.Bookings, *models.FromDomainBooking(b))
	}
	if resp.Charge != nil {
		out.Charge = &ChargeResponse{
			ChargeID: resp.Charge.ChargeID,
			Amount:   resp.Charge.Amount,
			Currency: resp.Charge.Currency,
			Status:   resp.Charge.Status,
		}
	}
	return out
}
