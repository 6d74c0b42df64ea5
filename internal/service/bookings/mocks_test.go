package bookings

import (
	"context"

	"github.com/m04kA/SMC-TableService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/booking"
	tableRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/table"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeBookingRepo struct {
	bookings  []*domain.TableBooking
	err       error
	listCalls int
	onList    func() // вызывается во время чтения, имитирует конкурирующую запись
}

func (f *fakeBookingRepo) GetByID(_ context.Context, id int64) (*domain.TableBooking, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, b := range f.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, bookingRepo.ErrBookingNotFound
}

func (f *fakeBookingRepo) ListByTableInRange(_ context.Context, tableID int64, displayRange domain.TimeWindow) ([]*domain.TableBooking, error) {
	f.listCalls++
	if f.onList != nil {
		f.onList()
	}
	if f.err != nil {
		return nil, f.err
	}
	out := make([]*domain.TableBooking, 0)
	for _, b := range f.bookings {
		if b.TableID == tableID && b.Window().Overlaps(displayRange) {
			out = append(out, b)
		}
	}
	return out, nil
}

type fakeTableRepo struct {
	tables map[int64]*domain.OutletTable
}

func (f *fakeTableRepo) FindByID(_ context.Context, id int64) (*domain.OutletTable, error) {
	t, ok := f.tables[id]
	if !ok {
		return nil, tableRepo.ErrTableNotFound
	}
	return t, nil
}

// fakeCache повторяет поведение tableview.Cache: Set пишет, только если версия стола не менялась
type fakeCache struct {
	views    map[int64]*domain.TableView
	versions map[int64]int64
	getErr   error
	setErr   error
	setCall  int
	skipped  int
}

func newFakeCache() *fakeCache {
	return &fakeCache{views: map[int64]*domain.TableView{}, versions: map[int64]int64{}}
}

func (f *fakeCache) Get(_ context.Context, tableID int64, _ domain.TimeWindow) (*domain.TableView, int64, bool, error) {
	if f.getErr != nil {
		return nil, 0, false, f.getErr
	}
	v, ok := f.views[tableID]
	return v, f.versions[tableID], ok, nil
}

func (f *fakeCache) Set(_ context.Context, view *domain.TableView, _ domain.TimeWindow, version int64) (bool, error) {
	f.setCall++
	if f.setErr != nil {
		return false, f.setErr
	}
	if f.versions[view.Table.ID] != version {
		f.skipped++
		return false, nil
	}
	f.views[view.Table.ID] = view
	return true, nil
}

func (f *fakeCache) Invalidate(tableID int64) {
	delete(f.views, tableID)
	f.versions[tableID]++
}
