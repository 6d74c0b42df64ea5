package change_booking_status

import (
	"time"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// Request модель запроса на смену статуса
// Статус применяется ко всем бронированиям инвойса, которому принадлежит BookingID
type Request struct {
	BookingID    int64
	Status       domain.BookingStatus
	ChargeNoShow bool // Списать штраф за неявку с сохранённой карты (только для NOSHOW)
	UserID       int64
}

// Response модель ответа после смены статуса
type Response struct {
	InvoiceID int64
	OldStatus domain.BookingStatus
	Status    domain.BookingStatus
	Bookings  []*domain.TableBooking
	Charge    *domain.PaymentResult // nil, если списания не было
}

// ConfirmResponse результат подтверждения по ссылке
type ConfirmResponse struct {
	InvoiceID int64
	Status    domain.BookingStatus // BOOKED при успехе, ERROR если бронь уже не в BOOKED
}

// statusSnapshot поля, попадающие в журнал изменений
type statusSnapshot struct {
	Status             domain.BookingStatus
	SeatStartTime      *time.Time
	SeatEndTime        *time.Time
	InvoiceStatus      domain.BookingStatus
	IsValidSetupIntent bool
	TotalPaidAmount    int64
}

func snapshotOf(booking *domain.TableBooking, invoice *domain.Invoice) statusSnapshot {
	return statusSnapshot{
		Status:             booking.Status,
		SeatStartTime:      booking.SeatStartTime,
		SeatEndTime:        booking.SeatEndTime,
		InvoiceStatus:      invoice.Status,
		IsValidSetupIntent: invoice.IsValidSetupIntent,
		TotalPaidAmount:    invoice.TotalPaidAmount,
	}
}
