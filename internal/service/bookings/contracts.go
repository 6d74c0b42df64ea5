package bookings

import (
	"context"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TableBooking, error)
	ListByTableInRange(ctx context.Context, tableID int64, displayRange domain.TimeWindow) ([]*domain.TableBooking, error)
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	FindByID(ctx context.Context, id int64) (*domain.OutletTable, error)
}

// TableViewCache интерфейс кеша схем столов
// Set принимает версию, полученную из Get, и не пишет, если стол успели инвалидировать
type TableViewCache interface {
	Get(ctx context.Context, tableID int64, displayRange domain.TimeWindow) (*domain.TableView, int64, bool, error)
	Set(ctx context.Context, view *domain.TableView, displayRange domain.TimeWindow, version int64) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
