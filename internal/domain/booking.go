package domain

import "time"

// BookingStatus represents the lifecycle status of a table booking
type BookingStatus string

const (
	StatusBooked    BookingStatus = "BOOKED"
	StatusSeated    BookingStatus = "SEATED"
	StatusLeft      BookingStatus = "LEFT"
	StatusNoShow    BookingStatus = "NOSHOW"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusError     BookingStatus = "ERROR"
)

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusBooked, StatusSeated, StatusLeft, StatusNoShow, StatusCancelled, StatusError:
		return true
	default:
		return false
	}
}

// IsBlocking returns true if a booking in this status still occupies its table
func (s BookingStatus) IsBlocking() bool {
	for _, st := range NonBlockingStatuses {
		if s == st {
			return false
		}
	}
	return true
}

// TableBooking is one reservation-to-table assignment.
// A party occupying several tables has several rows sharing InvoiceID.
type TableBooking struct {
	ID               int64
	InvoiceID        int64
	TableID          int64
	OutletID         int64
	BookingStartTime time.Time
	BookingEndTime   time.Time
	Status           BookingStatus
	SeatStartTime    *time.Time
	SeatEndTime      *time.Time
	IsActive         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Window returns the booking window
func (b *TableBooking) Window() TimeWindow {
	return TimeWindow{start: b.BookingStartTime, end: b.BookingEndTime}
}

// Blocks returns true if the booking occupies its table during the candidate window
func (b *TableBooking) Blocks(candidate TimeWindow) bool {
	return b.IsActive && b.Status.IsBlocking() && b.Window().Overlaps(candidate)
}

// StatusUpdate describes the columns written by a lifecycle transition
type StatusUpdate struct {
	Status BookingStatus

	// SeatStartTime is written when SetSeatStart is true
	SetSeatStart  bool
	SeatStartTime *time.Time

	// SeatEndTime is written when SetSeatEnd is true (nil clears the column)
	SetSeatEnd  bool
	SeatEndTime *time.Time
}

// Apply mirrors the update onto an in-memory booking
func (u StatusUpdate) Apply(b *TableBooking) {
	b.Status = u.Status
	if u.SetSeatStart {
		b.SeatStartTime = u.SeatStartTime
	}
	if u.SetSeatEnd {
		b.SeatEndTime = u.SeatEndTime
	}
}

// BookingsFilter filter for bookings that may block a candidate window
type BookingsFilter struct {
	OutletID       int64
	TableIDs       []int64
	Window         TimeWindow
	EndsNotBefore  time.Time       // only bookings with booking_end_time >= EndsNotBefore
	ExcludeStatus  []BookingStatus // statuses that never block
	ExcludeBooking *int64          // optional booking to ignore
}
