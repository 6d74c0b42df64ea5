package domain

import (
	"errors"
	"net/http"
)

// Error is a domain error carrying an HTTP-equivalent status and a stable code.
// Sentinels below are compared by identity, so wrap them with fmt.Errorf("%w: ...").
type Error struct {
	Code    string
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Code + ": " + e.Message
}

var (
	ErrInvalidInput = &Error{Code: "INVALID_INPUT", Status: http.StatusBadRequest, Message: "invalid input data"}

	ErrInvalidTable         = &Error{Code: "INVALID_TABLE", Status: http.StatusNotFound, Message: "table does not belong to the seating type or group"}
	ErrDuplicatePossibility = &Error{Code: "DUPLICATE_POSSIBILITY", Status: http.StatusBadRequest, Message: "possibility with the same tables already exists"}
	ErrBookingTimeslotFull  = &Error{Code: "BOOKING_TIMESLOT_FULL", Status: http.StatusConflict, Message: "table is already booked for this time"}
	ErrInvalidMove          = &Error{Code: "INVALID_MOVE", Status: http.StatusBadRequest, Message: "destination table is not available for the booking window"}
	ErrCardNotSaved         = &Error{Code: "CARD_NOT_SAVED", Status: http.StatusBadRequest, Message: "no saved payment method for the invoice"}
	ErrAlreadyCharged       = &Error{Code: "ALREADY_CHARGED", Status: http.StatusBadRequest, Message: "invoice has already been charged"}

	ErrBookingNotFound     = &Error{Code: "BOOKING_NOT_FOUND", Status: http.StatusNotFound, Message: "table booking not found"}
	ErrTableNotFound       = &Error{Code: "TABLE_NOT_FOUND", Status: http.StatusNotFound, Message: "table not found"}
	ErrGroupNotFound       = &Error{Code: "GROUP_NOT_FOUND", Status: http.StatusNotFound, Message: "group table not found"}
	ErrPossibilityNotFound = &Error{Code: "POSSIBILITY_NOT_FOUND", Status: http.StatusNotFound, Message: "group possibility not found"}
	ErrInvoiceNotFound     = &Error{Code: "INVOICE_NOT_FOUND", Status: http.StatusNotFound, Message: "invoice not found"}
)

// AsError extracts a domain error from a wrapped chain
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
