package create_table_booking

import (
	"time"

	createTableBooking "github.com/m04kA/SMC-TableService/internal/usecase/create_table_booking"
)

// CreateTableBookingRequest HTTP request model
// Столы задаются либо tableIds, либо парой groupId + possibilityId
type CreateTableBookingRequest struct {
	InvoiceID     int64     `json:"invoiceId"`
	StartTime     time.Time `json:"startTime"` // RFC 3339
	EndTime       time.Time `json:"endTime"`   // RFC 3339
	TableIDs      []int64   `json:"tableIds,omitempty"`
	GroupID       *int64    `json:"groupId,omitempty"`
	PossibilityID *int64    `json:"possibilityId,omitempty"`
}

// BookingResponse одно созданное бронирование стола
type BookingResponse struct {
	ID        int64  `json:"id"`
	TableID   int64  `json:"tableId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
}

// CreateTableBookingResponse HTTP response model
type CreateTableBookingResponse struct {
	InvoiceID int64             `json:"invoiceId"`
	TableIDs  []int64           `json:"tableIds"`
	Bookings  []BookingResponse `json:"bookings"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateTableBookingRequest) ToUseCaseRequest(outletID int64) *createTableBooking.Request {
	return &createTableBooking.Request{
		InvoiceID:     r.InvoiceID,
		OutletID:      outletID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		TableIDs:      r.TableIDs,
		GroupID:       r.GroupID,
		PossibilityID: r.PossibilityID,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createTableBooking.Response) *CreateTableBookingResponse {
	out := &CreateTableBookingResponse{
		InvoiceID: resp.InvoiceID,
		TableIDs:  resp.TableIDs,
		Bookings:  make([]BookingResponse, 0, len(resp.Bookings)),
	}
	for _, b := range resp.Bookings {
		out.Bookings = append(out.Bookings, BookingResponse{
			ID:        b.ID,
			TableID:   b.TableID,
			StartTime: b.StartTime.Format(time.RFC3339),
			EndTime:   b.EndTime.Format(time.RFC3339),
			Status:    b.Status,
			CreatedAt: b.CreatedAt.Format(time.RFC3339),
		})
	}
	return out
}
