package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование стола не найдено
	ErrBookingNotFound = errors.New("booking.repository: table booking not found")

	// ErrTimeslotTaken возвращается, когда БД отклонила вставку/перенос из-за пересечения бронирований
	// (EXCLUDE ограничение или ошибка сериализации конкурирующей транзакции)
	ErrTimeslotTaken = errors.New("booking.repository: timeslot already taken")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
