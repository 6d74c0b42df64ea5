package domain

import "time"

// OutletTable is a physical table owned by an outlet's seating type
type OutletTable struct {
	ID                  int64
	OutletID            int64
	OutletSeatingTypeID int64
	Name                string
	MinPax              int
	MaxPax              int
	IsActive            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableView is a table together with its bookings intersecting a display range
type TableView struct {
	Table    OutletTable
	Bookings []*TableBooking
}

// HasBooking returns true if the view lists the booking
func (v *TableView) HasBooking(bookingID int64) bool {
	for _, b := range v.Bookings {
		if b.ID == bookingID {
			return true
		}
	}
	return false
}
