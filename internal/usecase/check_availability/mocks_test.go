package check_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-TableService/internal/domain"
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

// fakeBookingRepo возвращает все строки без SQL-фильтрации, чтобы проверять правило в памяти
type fakeBookingRepo struct {
	bookings []*domain.TableBooking
	err      error
	filters  []domain.BookingsFilter
}

func (f *fakeBookingRepo) ListMatching(_ context.Context, filter domain.BookingsFilter) ([]*domain.TableBooking, error) {
	f.filters = append(f.filters, filter)
	if f.err != nil {
		return nil, f.err
	}
	return f.bookings, nil
}

type fakeTableRepo struct {
	tables []*domain.OutletTable
	err    error
}

func (f *fakeTableRepo) FindByIDsAndOutlet(_ context.Context, ids []int64, outletID int64) ([]*domain.OutletTable, error) {
	if f.err != nil {
		return nil, f.err
	}
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
