package move_booking

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-TableService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TableService/internal/integrations/notifier"
	"github.com/m04kA/SMC-TableService/internal/service/audit"
	"github.com/m04kA/SMC-TableService/pkg/pgerrors"
	"github.com/m04kA/SMC-TableService/pkg/txmanager"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

// fakeStore хранит бронирования и столы; используется и как репозиторий, и как построитель схем
type fakeStore struct {
	bookings  map[int64]*domain.TableBooking
	tables    []*domain.OutletTable
	updateErr error
	getErr    error
}

func (s *fakeStore) GetByID(_ context.Context, id int64) (*domain.TableBooking, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (s *fakeStore) UpdateTable(_ context.Context, id int64, tableID int64) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.TableID = tableID
	return nil
}

func (s *fakeStore) FindByIDsAndOutlet(_ context.Context, ids []int64, outletID int64) ([]*domain.OutletTable, error) {
	out := make([]*domain.OutletTable, 0)
	for _, id := range ids {
		for _, t := range s.tables {
			if t.ID == id && t.OutletID == outletID {
				out = append(out, t)
			}
		}
	}
	return out, nil
}

func (s *fakeStore) BuildView(_ context.Context, tableID int64, displayRange domain.TimeWindow) (*domain.TableView, error) {
	view := &domain.TableView{}
	for _, t := range s.tables {
		if t.ID == tableID {
			view.Table = *t
		}
	}
	if view.Table.ID == 0 {
		return nil, domain.ErrTableNotFound
	}
	for _, b := range s.bookings {
		if b.TableID == tableID && b.Window().Overlaps(displayRange) {
			out := *b
			view.Bookings = append(view.Bookings, &out)
		}
	}
	return view, nil
}

// HasConflict проверяет строки хранилища тем же правилом, что и настоящий checker
func (s *fakeStore) HasConflict(_ context.Context, tableIDs []int64, window domain.TimeWindow, outletID int64) (bool, error) {
	for _, b := range s.bookings {
		for _, id := range tableIDs {
			if b.TableID == id && b.OutletID == outletID && b.Blocks(window) {
				return true, nil
			}
		}
	}
	return false, nil
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
	events []notifier.MovedEvent
	err    error
}

func (f *fakeNotifier) PublishMoved(_ context.Context, event notifier.MovedEvent) error {
	f.events = append(f.events, event)
	return f.err
}

// fakeTxManager откатывает table_id бронирований при ошибке и, как txmanager, помечает 40001 через ErrSerialization
type fakeTxManager struct {
	store     *fakeStore
	commitErr error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	saved := map[int64]int64{}
	for id, b := range m.store.bookings {
		saved[id] = b.TableID
	}
	err := fn(ctx)
	if pgerrors.IsSerializationFailure(err) {
		err = fmt.Errorf("%w: %w", txmanager.ErrSerialization, err)
	}
	if err == nil {
		err = m.commitErr
	}
	if err != nil {
		for id, tableID := range saved {
			m.store.bookings[id].TableID = tableID
		}
	}
	return err
}
