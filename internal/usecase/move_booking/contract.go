package move_booking

import (
	"context"

	"github.com/m04kA/SMC-TableService/internal/domain"
	"github.com/m04kA/SMC-TableService/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TableBooking, error)
	UpdateTable(ctx context.Context, id int64, tableID int64) error
}

// TableRepository интерфейс репозитория столов
type TableRepository interface {
	FindByIDsAndOutlet(ctx context.Context, ids []int64, outletID int64) ([]*domain.OutletTable, error)
}

// AvailabilityChecker интерфейс проверки доступности столов
type AvailabilityChecker interface {
	HasConflict(ctx context.Context, tableIDs []int64, window domain.TimeWindow, outletID int64) (bool, error)
}

// ViewBuilder строит схему стола из хранилища
type ViewBuilder interface {
	BuildView(ctx context.Context, tableID int64, displayRange domain.TimeWindow) (*domain.TableView, error)
}

// AuditService интерфейс журнала изменений
type AuditService interface {
	Diff(before, after interface{}) (domain.ContentChange, error)
	Write(ctx context.Context, record *domain.AuditRecord) error
}

// TableViewCache интерфейс инвалидации кеша схем столов
type TableViewCache interface {
	Invalidate(ctx context.Context, tableIDs ...int64) error
}

// Notifier интерфейс публикации событий
type Notifier interface {
	PublishMoved(ctx context.Context, event notifier.MovedEvent) error
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
