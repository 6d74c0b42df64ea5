package check_availability

import "time"

// Request модель запроса проверки доступности столов
type Request struct {
	OutletID  int64     // ID заведения
	TableIDs  []int64   // Столы, которые должны быть свободны одновременно
	StartTime time.Time // Начало окна бронирования
	EndTime   time.Time // Конец окна бронирования (не включается)
}

// Conflict бронирование, мешающее кандидату
type Conflict struct {
	BookingID int64
	TableID   int64
	StartTime time.Time
	EndTime   time.Time
	Status    string
}

// Response модель ответа проверки доступности
type Response struct {
	Available bool       // true, если ни один стол не занят в окне
	Conflicts []Conflict // Мешающие бронирования (пусто, если Available)
}
