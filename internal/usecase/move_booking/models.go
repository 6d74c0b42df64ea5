package move_booking

import (
	"time"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// Request модель запроса на перенос бронирования
type Request struct {
	BookingID          int64
	DestinationTableID int64
	UserID             int64
	RangeStart         time.Time // Диапазон отображения схем столов в ответе
	RangeEnd           time.Time
}

// Response схемы исходного и целевого столов после переноса
type Response struct {
	Booking     *domain.TableBooking
	Source      *domain.TableView
	Destination *domain.TableView
}
