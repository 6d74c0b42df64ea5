package move_booking

import (
	"time"

	"github.com/m04kA/SMC-TableService/internal/service/bookings/models"
	moveBooking "github.com/m04kA/SMC-TableService/internal/usecase/move_booking"
)

// MoveBookingRequest HTTP request model
// rangeStart/rangeEnd задают диапазон, в котором возвращаются схемы столов
type MoveBookingRequest struct {
	DestinationTableID int64     `json:"destinationTableId"`
	RangeStart         time.Time `json:"rangeStart"`
	RangeEnd           time.Time `json:"rangeEnd"`
}

// MoveBookingResponse HTTP response model
type MoveBookingResponse struct {
	Booking     *models.BookingResponse   `json:"booking"`
	Source      *models.TableViewResponse `json:"source"`
	Destination *models.TableViewResponse `json:"destination"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *MoveBookingRequest) ToUseCaseRequest(bookingID, userID int64) *moveBooking.Request {
	return &moveBooking.Request{
		BookingID:          bookingID,
		DestinationTableID: r.DestinationTableID,
		UserID:             userID,
		RangeStart:         r.RangeStart,
		RangeEnd:           r.RangeEnd,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *moveBooking.Response) *MoveBookingResponse {
	return &MoveBookingResponse{
		Booking:     models.FromDomainBooking(resp.Booking),
		Source:      models.FromDomainTableView(resp.Source),
		Destination: models.FromDomainTableView(resp.Destination),
	}
}
