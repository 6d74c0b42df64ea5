package change_booking_status

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("change_booking_status: internal error")
)
