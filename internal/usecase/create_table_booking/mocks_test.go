package create_table_booking

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-TableService/internal/domain"
	groupRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/group"
	invoiceRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/invoice"
	"github.com/m04kA/SMC-TableService/pkg/pgerrors"
	"github.com/m04kA/SMC-TableService/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	created []*domain.TableBooking
	failAt  int // номер вызова Create (с 1), на котором вернуть err
	err     error
	calls   int
}

func (f *fakeBookingRepo) Create(_ context.Context, b *domain.TableBooking) (*domain.TableBooking, error) {
	f.calls++
	if f.err != nil && (f.failAt == 0 || f.failAt == f.calls) {
		return nil, f.err
	}
	out := *b
	out.ID = int64(len(f.created) + 1)
	out.IsActive = true
	out.CreatedAt = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	f.created = append(f.created, &out)
	return &out, nil
}

type fakeTableRepo struct {
	tables []*domain.OutletTable
}

func (f *fakeTableRepo) FindByIDsAndOutlet(_ context.Context, ids []int64, outletID int64) ([]*domain.OutletTable, error) {
	wanted := map[int64]bool{}
	for _, id := range ids {
		wanted[id] = true
	}
	out := make([]*domain.OutletTable, 0)
	for _, t := range f.tables {
		if wanted[t.ID] && t.OutletID == outletID {
			out = append(out, t)
		}
	}
	return out, nil
}

type fakeGroupRepo struct {
	groups map[int64]*domain.GroupTable
}

func (f *fakeGroupRepo) GetByID(_ context.Context, id int64) (*domain.GroupTable, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, groupRepo.ErrGroupNotFound
	}
	return g, nil
}

type fakeInvoiceRepo struct {
	invoices map[int64]*domain.Invoice
	err      error
}

func (f *fakeInvoiceRepo) GetByID(_ context.Context, id int64) (*domain.Invoice, error) {
	if f.err != nil {
		return nil, f.err
	}
	inv, ok := f.invoices[id]
	if !ok {
		return nil, invoiceRepo.ErrInvoiceNotFound
	}
	return inv, nil
}

type fakeChecker struct {
	conflict bool
	err      error
	checked  [][]int64
}

func (f *fakeChecker) HasConflict(_ context.Context, tableIDs []int64, _ domain.TimeWindow, _ int64) (bool, error) {
	f.checked = append(f.checked, tableIDs)
	return f.conflict, f.err
}

type fakeCache struct {
	invalidated []int64
	err         error
}

func (f *fakeCache) Invalidate(_ context.Context, tableIDs ...int64) error {
	f.invalidated = append(f.invalidated, tableIDs...)
	return f.err
}

// fakeTxManager выполняет функцию сразу; commitErr имитирует ошибку на COMMIT.
// Ошибку 40001 из функции помечает через ErrSerialization, как txmanager.
type fakeTxManager struct {
	calls     int
	commitErr error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if err := fn(ctx); err != nil {
		if pgerrors.IsSerializationFailure(err) {
			return fmt.Errorf("%w: %w", txmanager.ErrSerialization, err)
		}
		return err
	}
	return m.commitErr
}
