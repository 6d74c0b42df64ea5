package create_table_booking

import (
	"context"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.TableBooking) (*domain.TableBooking, error)
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	FindByIDsAndOutlet(ctx context.Context, ids []int64, outletID int64) ([]*domain.OutletTable, error)
}

// GroupRepository интерфейс репозитория групп (выбор комбинации)
type GroupRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.GroupTable, error)
}

// InvoiceRepository интерфейс чтения инвойсов
type InvoiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
}

// AvailabilityChecker интерфейс проверки доступности столов
type AvailabilityChecker interface {
	HasConflict(ctx context.Context, tableIDs []int64, window domain.TimeWindow, outletID int64) (bool, error)
}

// TableViewCache интерфейс инвалидации кеша схем столов
type TableViewCache interface {
	Invalidate(ctx context.Context, tableIDs ...int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
