package create_table_booking

import "time"

// Request модель запроса на бронирование столов
// Столы задаются либо списком TableIDs, либо выбранной комбинацией группы (GroupID + PossibilityID)
type Request struct {
	InvoiceID     int64     // ID инвойса (резервации)
	OutletID      int64     // ID заведения
	StartTime     time.Time // Начало окна бронирования
	EndTime       time.Time // Конец окна бронирования (не включается)
	TableIDs      []int64   // Явный список столов
	GroupID       *int64    // Группа столов (опционально)
	PossibilityID *int64    // Комбинация группы (вместе с GroupID)
}

// Response модель ответа с созданными бронированиями
type Response struct {
	InvoiceID int64
	TableIDs  []int64
	Bookings  []Booking
}

// Booking одно созданное бронирование стола
type Booking struct {
	ID        int64
	TableID   int64
	StartTime time.Time
	EndTime   time.Time
	Status    string
	CreatedAt time.Time
}
