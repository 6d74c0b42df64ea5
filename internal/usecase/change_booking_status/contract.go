package change_booking_status

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableService/internal/domain"
	"github.com/m04kA/SMC-TableService/internal/integrations/notifier"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TableBooking, error)
	GetByInvoiceID(ctx context.Context, invoiceID int64) ([]*domain.TableBooking, error)
	UpdateStatusByInvoice(ctx context.Context, invoiceID int64, update domain.StatusUpdate) (int64, error)
}

// InvoiceRepository интерфейс инвойсов
type InvoiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Invoice, error)
	Update(ctx context.Context, id int64, update domain.InvoiceUpdate) error
}

// PaymentService интерфейс платёжного процессинга
type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, invoice *domain.Invoice) (*domain.PaymentResult, error)
	CancelIntent(ctx context.Context, invoice *domain.Invoice) error
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
	PublishStatusChanged(ctx context.Context, event notifier.StatusChangedEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
