package notifier

import "time"

// Ключи маршрутизации событий
const (
	RoutingKeyStatusChanged = "booking.status_changed"
	RoutingKeyMoved         = "booking.moved"
)

// StatusChangedEvent событие смены статуса бронирования
type StatusChangedEvent struct {
	EventID    string    `json:"event_id"`
	InvoiceID  int64     `json:"invoice_id"`
	OutletID   int64     `json:"outlet_id"`
	BookingIDs []int64   `json:"booking_ids"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// MovedEvent событие переноса бронирования на другой стол
type MovedEvent struct {
	EventID     string    `json:"event_id"`
	BookingID   int64     `json:"booking_id"`
	InvoiceID   int64     `json:"invoice_id"`
	FromTableID int64     `json:"from_table_id"`
	ToTableID   int64     `json:"to_table_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}
