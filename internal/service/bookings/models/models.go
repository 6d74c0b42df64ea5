package models

import (
	"errors"
	"strings"
	"time"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Response модели

// BookingResponse ответ с данными бронирования стола
type BookingResponse struct {
	ID               int64   `json:"id"`
	InvoiceID        int64   `json:"invoiceId"`
	TableID          int64   `json:"tableId"`
	OutletID         int64   `json:"outletId"`
	BookingStartTime string  `json:"bookingStartTime"` // RFC 3339
	BookingEndTime   string  `json:"bookingEndTime"`   // RFC 3339
	Status           string  `json:"status"`
	SeatStartTime    *string `json:"seatStartTime,omitempty"`
	SeatEndTime      *string `json:"seatEndTime,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableResponse данные стола
type TableResponse struct {
	ID            int64  `json:"id"`
	OutletID      int64  `json:"outletId"`
	SeatingTypeID int64  `json:"seatingTypeId"`
	Name          string `json:"name"`
	MinPax        int    `json:"minPax"`
	MaxPax        int    `json:"maxPax"`
}

// TableViewResponse стол и его бронирования в диапазоне отображения
type TableViewResponse struct {
	Table    TableResponse     `json:"table"`
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.TableBooking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:               b.ID,
		InvoiceID:        b.InvoiceID,
		TableID:          b.TableID,
		OutletID:         b.OutletID,
		BookingStartTime: b.BookingStartTime.Format(time.RFC3339),
		BookingEndTime:   b.BookingEndTime.Format(time.RFC3339),
		Status:           string(b.Status),
		CreatedAt:        b.CreatedAt,
		UpdatedAt:        b.UpdatedAt,
	}

	if b.SeatStartTime != nil {
		s := b.SeatStartTime.Format(time.RFC3339)
		resp.SeatStartTime = &s
	}
	if b.SeatEndTime != nil {
		s := b.SeatEndTime.Format(time.RFC3339)
		resp.SeatEndTime = &s
	}

	return resp
}

// FromDomainTableView конвертирует схему стола в DTO
func FromDomainTableView(v *domain.TableView) *TableViewResponse {
	if v == nil {
		return nil
	}

	resp := &TableViewResponse{
		Table: TableResponse{
			ID:            v.Table.ID,
			OutletID:      v.Table.OutletID,
			SeatingTypeID: v.Table.OutletSeatingTypeID,
			Name:          v.Table.Name,
			MinPax:        v.Table.MinPax,
			MaxPax:        v.Table.MaxPax,
		},
		Bookings: make([]BookingResponse, 0, len(v.Bookings)),
	}

	for _, b := range v.Bookings {
		resp.Bookings = append(resp.Bookings, *FromDomainBooking(b))
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
