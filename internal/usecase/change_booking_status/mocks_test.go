package change_booking_status

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-TableService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/booking"
	invoiceRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/invoice"
	"github.com/m04kA/SMC-TableService/internal/integrations/notifier"
	"github.com/m04kA/SMC-TableService/internal/service/audit"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

// fakeStore хранит бронирования и инвойсы в памяти
type fakeStore struct {
	bookings  map[int64]*domain.TableBooking
	invoices  map[int64]*domain.Invoice
	updateErr error
	recordErr error // ошибка записи суммы списания в инвойс
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*domain.TableBooking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (s *fakeStore) GetByInvoiceID(_ context.Context, invoiceID int64) ([]*domain.TableBooking, error) {
	out := make([]*domain.TableBooking, 0)
	for _, b := range s.bookings {
		if b.InvoiceID == invoiceID {
			row := *b
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *fakeStore) UpdateStatusByInvoice(_ context.Context, invoiceID int64, update domain.StatusUpdate) (int64, error) {
	if s.updateErr != nil {
		return 0, s.updateErr
	}
	var n int64
	for _, b := range s.bookings {
		if b.InvoiceID == invoiceID {
			update.Apply(b)
			n++
		}
	}
	if n == 0 {
		return 0, bookingRepo.ErrBookingNotFound
	}
	return n, nil
}

// invoiceStore отдельный тип, так как у обоих репозиториев метод GetByID
type invoiceStore struct {
	store *fakeStore
}

func (s invoiceStore) GetByID(_ context.Context, id int64) (*domain.Invoice, error) {
	inv, ok := s.store.invoices[id]
	if !ok {
		return nil, invoiceRepo.ErrInvoiceNotFound
	}
	out := *inv
	return &out, nil
}

func (s invoiceStore) Update(_ context.Context, id int64, update domain.InvoiceUpdate) error {
	inv, ok := s.store.invoices[id]
	if !ok {
		return invoiceRepo.ErrInvoiceNotFound
	}
	if update.TotalPaidAmount != nil && s.store.recordErr != nil {
		return s.store.recordErr
	}
	update.Apply(inv)
	return nil
}

type fakePayment struct {
	charges   int
	cancels   int
	chargeErr error
	cancelErr error
}

func (f *fakePayment) CreatePaymentIntent(_ context.Context, invoice *domain.Invoice) (*domain.PaymentResult, error) {
	f.charges++
	if f.chargeErr != nil {
		return nil, f.chargeErr
	}
	return &domain.PaymentResult{ChargeID: "chrg_1", Amount: invoice.NoShowChargeAmount, Currency: "sgd", Status: "successful"}, nil
}

func (f *fakePayment) CancelIntent(_ context.Context, _ *domain.Invoice) error {
	f.cancels++
	return f.cancelErr
}

type fakeAudit struct {
	records []*domain.AuditRecord
}

func (f *fakeAudit) Diff(before, after interface{}) (domain.ContentChange, error) {
	return audit.Diff(before, after)
}

func (f *fakeAudit) Write(_ context.Context, record *domain.AuditRecord) error {
	f.records = append(f.records, record)
	return nil
}

type fakeCache struct {
	invalidated []int64
}

func (f *fakeCache) Invalidate(_ context.Context, tableIDs ...int64) error {
	f.invalidated = append(f.invalidated, tableIDs...)
	return nil
}

type fakeNotifier struct {
	events []notifier.StatusChangedEvent
}

func (f *fakeNotifier) PublishStatusChanged(_ context.Context, event notifier.StatusChangedEvent) error {
	f.events = append(f.events, event)
	return nil
}

// fakeTxManager откатывает бронирования и инвойсы при ошибке
type fakeTxManager struct {
	store *fakeStore
}

func (m *fakeTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	bookings := map[int64]domain.TableBooking{}
	for id, b := range m.store.bookings {
		bookings[id] = *b
	}
	invoices := map[int64]domain.Invoice{}
	for id, inv := range m.store.invoices {
		invoices[id] = *inv
	}

	if err := fn(ctx); err != nil {
		for id, b := range bookings {
			restored := b
			m.store.bookings[id] = &restored
		}
		for id, inv := range invoices {
			restored := inv
			m.store.invoices[id] = &restored
		}
		return err
	}
	return nil
}
