package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListMatching(ctx context.Context, filter domain.BookingsFilter) ([]*domain.TableBooking, error)
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	FindByIDsAndOutlet(ctx context.Context, ids []int64, outletID int64) ([]*domain.OutletTable, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
