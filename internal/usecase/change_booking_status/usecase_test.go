package change_booking_status

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-TableService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-TableService/internal/integrations/payment"
	"github.com/m04kA/SMC-TableService/pkg/ptr"
)

const (
	outletID  = int64(1)
	invoiceID = int64(100)
)

var now = time.Date(2026, 3, 1, 18, 5, 0, 0, time.UTC)

type fixture struct {
	uc       *UseCase
	store    *fakeStore
	payment  *fakePayment
	audit    *fakeAudit
	cache    *fakeCache
	notifier *fakeNotifier
}

// newFixture: инвойс 100 занимает столы 5 и 6 (бронирования 1 и 2)
func newFixture() *fixture {
	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	store := &fakeStore{
		bookings: map[int64]*domain.TableBooking{
			1: {ID: 1, InvoiceID: invoiceID, TableID: 5, OutletID: outletID, BookingStartTime: start, BookingEndTime: start.Add(2 * time.Hour), Status: domain.StatusBooked, IsActive: true},
			2: {ID: 2, InvoiceID: invoiceID, TableID: 6, OutletID: outletID, BookingStartTime: start, BookingEndTime: start.Add(2 * time.Hour), Status: domain.StatusBooked, IsActive: true},
			3: {ID: 3, InvoiceID: 200, TableID: 7, OutletID: outletID, BookingStartTime: start, BookingEndTime: start.Add(time.Hour), Status: domain.StatusBooked, IsActive: true},
		},
		invoices: map[int64]*domain.Invoice{
			invoiceID: {
				ID:                 invoiceID,
				OutletID:           outletID,
				Status:             domain.StatusBooked,
				IsValidSetupIntent: true,
				PaymentCustomerID:  ptr.Ptr("cust_1"),
				PaymentMethodID:    ptr.Ptr("card_1"),
				SetupChargeID:      ptr.Ptr("chrg_setup"),
				NoShowChargeAmount: 5000,
			},
			200: {ID: 200, OutletID: outletID, Status: domain.StatusBooked},
		},
	}
	f := &fixture{
		store:    store,
		payment:  &fakePayment{},
		audit:    &fakeAudit{},
		cache:    &fakeCache{},
		notifier: &fakeNotifier{},
	}
	f.uc = NewUseCase(store, invoiceStore{store: store}, f.payment, f.audit, f.cache, f.notifier, &fakeTxManager{store: store}, nopLogger{})
	f.uc.timeProvider = fixedTime{now: now}
	return f
}

func (f *fixture) invoice() *domain.Invoice {
	return f.store.invoices[invoiceID]
}

func TestExecute_Seated(t *testing.T) {
	f := newFixture()
	f.store.bookings[1].SeatEndTime = ptr.Ptr(now.Add(-time.Hour))

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, Status: domain.StatusSeated, UserID: 9})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusBooked, resp.OldStatus)
	assert.Equal(t, domain.StatusSeated, resp.Status)
	require.Len(t, resp.Bookings, 2)

	for _, id := range []int64{1, 2} {
		b := f.store.bookings[id]
		assert.Equal(t, domain.StatusSeated, b.Status)
		require.NotNil(t, b.SeatStartTime)
		assert.True(t, now.Equal(*b.SeatStartTime))
		assert.Nil(t, b.SeatEndTime)
	}
	assert.Equal(t, domain.StatusBooked, f.store.bookings[3].Status)
	assert.Equal(t, domain.StatusSeated, f.invoice().Status)
	assert.Equal(t, 0, f.payment.cancels+f.payment.charges)

	require.Len(t, f.audit.records, 1)
	record := f.audit.records[0]
	assert.Equal(t, domain.AuditActionStatusChange, record.Action)
	assert.Equal(t, int64(1), record.EntityID)
	assert.Equal(t, int64(9), record.UserID)
	assert.Contains(t, record.Change, "Status")
	assert.Contains(t, record.Change, "InvoiceStatus")
	assert.Contains(t, record.Change, "SeatStartTime")
	assert.Contains(t, record.Change, "SeatEndTime")

	assert.ElementsMatch(t, []int64{5, 6}, f.cache.invalidated)
	require.Len(t, f.notifier.events, 1)
	assert.Equal(t, "SEATED", f.notifier.events[0].NewStatus)
	assert.Equal(t, "BOOKED", f.notifier.events[0].OldStatus)
	assert.ElementsMatch(t, []int64{1, 2}, f.notifier.events[0].BookingIDs)
}

func TestExecute_LeftReleasesSetupIntentOnce(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, &Request{BookingID: 2, Status: domain.StatusLeft})
	require.NoError(t, err)

	assert.Equal(t, 1, f.payment.cancels)
	assert.False(t, f.invoice().IsValidSetupIntent)
	assert.Equal(t, domain.StatusLeft, f.invoice().Status)
	require.NotNil(t, f.store.bookings[1].SeatEndTime)
	assert.True(t, now.Equal(*f.store.bookings[1].SeatEndTime))

	_, err = f.uc.Execute(ctx, &Request{BookingID: 2, Status: domain.StatusLeft})
	require.NoError(t, err)
	assert.Equal(t, 1, f.payment.cancels)
}

func TestExecute_LeftCancelFailureRollsBack(t *testing.T) {
	f := newFixture()
	f.payment.cancelErr = fmt.Errorf("%w: reverse", payment.ErrServiceUnavailable)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, Status: domain.StatusLeft})
	assert.ErrorIs(t, err, ErrInternal)

	assert.Equal(t, domain.StatusBooked, f.store.bookings[1].Status)
	assert.True(t, f.invoice().IsValidSetupIntent)
	assert.Empty(t, f.notifier.events)

	f.payment.cancelErr = nil
	_, err = f.uc.Execute(context.Background(), &Request{BookingID: 1, Status: domain.StatusLeft})
	require.NoError(t, err)
	assert.Equal(t, 2, f.payment.cancels)
	assert.False(t, f.invoice().IsValidSetupIntent)
}

func TestExecute_LeftRetryAfterStatusFailureDoesNotReverseAgain(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.updateErr = errors.New("db down")

	_, err := f.uc.Execute(ctx, &Request{BookingID: 1, Status: domain.StatusLeft})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 1, f.payment.cancels)
	assert.False(t, f.invoice().IsValidSetupIntent)
	assert.Equal(t, domain.StatusBooked, f.store.bookings[1].Status)

	f.store.updateErr = nil
	_, err = f.uc.Execute(ctx, &Request{BookingID: 1, Status: domain.StatusLeft})
	require.NoError(t, err)
	assert.Equal(t, 1, f.payment.cancels)
	assert.Equal(t, domain.StatusLeft, f.store.bookings[1].Status)
}

func TestExecute_NoShowCharge(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, Status: domain.StatusNoShow, ChargeNoShow: true})
	require.NoError(t, err)

	require.NotNil(t, resp.Charge)
	assert.Equal(t, int64(5000), resp.Charge.Amount)
	assert.Equal(t, 1, f.payment.charges)
	assert.Equal(t, int64(5000), f.invoice().TotalPaidAmount)
	assert.False(t, f.invoice().IsValidSetupIntent)
	assert.Equal(t, domain.StatusNoShow, f.store.bookings[2].Status)
}

func TestExecute_NoShowChargeSurvivesStatusFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.updateErr = errors.New("db down")

	_, err := f.uc.Execute(ctx, &Request{BookingID: 1, Status: domain.StatusNoShow, ChargeNoShow: true})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 1, f.payment.charges)
	assert.Equal(t, int64(5000), f.invoice().TotalPaidAmount)
	assert.False(t, f.invoice().IsValidSetupIntent)
	assert.Equal(t, domain.StatusBooked, f.store.bookings[1].Status)
	assert.Empty(t, f.notifier.events)

	f.store.updateErr = nil

	_, err = f.uc.Execute(ctx, &Request{BookingID: 1, Status: domain.StatusNoShow, ChargeNoShow: true})
	assert.ErrorIs(t, err, domain.ErrAlreadyCharged)
	assert.Equal(t, 1, f.payment.charges)

	resp, err := f.uc.Execute(ctx, &Request{BookingID: 1, Status: domain.StatusNoShow})
	require.NoError(t, err)
	assert.Nil(t, resp.Charge)
	assert.Equal(t, 1, f.payment.charges)
	assert.Equal(t, domain.StatusNoShow, f.store.bookings[1].Status)
	assert.Equal(t, domain.StatusNoShow, f.invoice().Status)
}

func TestExecute_NoShowChargeNotRecorded(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.store.recordErr = errors.New("db down")

	_, err := f.uc.Execute(ctx, &Request{BookingID: 1, Status: domain.StatusNoShow, ChargeNoShow: true})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, 1, f.payment.charges)
	assert.False(t, f.invoice().IsValidSetupIntent)

	f.store.recordErr = nil
	_, err = f.uc.Execute(ctx, &Request{BookingID: 1, Status: domain.StatusNoShow, ChargeNoShow: true})
	assert.ErrorIs(t, err, domain.ErrAlreadyCharged)
	assert.Equal(t, 1, f.payment.charges)
}

func TestExecute_NoShowChargeAudit(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, Status: domain.StatusNoShow, ChargeNoShow: true})
	require.NoError(t, err)

	require.Len(t, f.audit.records, 1)
	change := f.audit.records[0].Change
	assert.Contains(t, change, "Status")
	assert.Contains(t, change, "TotalPaidAmount")
	assert.Contains(t, change, "IsValidSetupIntent")
}

func TestExecute_NoShowChargePreconditions(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(inv *domain.Invoice)
		wantErr error
	}{
		{name: "no saved card", prepare: func(inv *domain.Invoice) { inv.PaymentMethodID = nil }, wantErr: domain.ErrCardNotSaved},
		{name: "already paid", prepare: func(inv *domain.Invoice) { inv.TotalPaidAmount = 100 }, wantErr: domain.ErrAlreadyCharged},
		{name: "setup intent gone", prepare: func(inv *domain.Invoice) { inv.IsValidSetupIntent = false }, wantErr: domain.ErrAlreadyCharged},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.prepare(f.invoice())

			_, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, Status: domain.StatusNoShow, ChargeNoShow: true})
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 0, f.payment.charges)
			assert.Equal(t, domain.StatusBooked, f.store.bookings[1].Status)
			assert.Empty(t, f.audit.records)
		})
	}
}

func TestExecute_NoShowWithoutChargeTouchesNoPayment(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, Status: domain.StatusNoShow})
	require.NoError(t, err)

	assert.Nil(t, resp.Charge)
	assert.Equal(t, 0, f.payment.charges)
	assert.True(t, f.invoice().IsValidSetupIntent)
	assert.Equal(t, domain.StatusNoShow, f.invoice().Status)
}

func TestExecute_ChargeDeclined(t *testing.T) {
	f := newFixture()
	f.payment.chargeErr = fmt.Errorf("%w: declined", payment.ErrChargeFailed)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, Status: domain.StatusNoShow, ChargeNoShow: true})
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, int64(0), f.invoice().TotalPaidAmount)
	assert.True(t, f.invoice().IsValidSetupIntent)
	assert.Equal(t, domain.StatusBooked, f.store.bookings[1].Status)
}

func TestExecute_PlainOverwrite(t *testing.T) {
	f := newFixture()
	f.store.bookings[1].Status = domain.StatusSeated
	f.store.bookings[2].Status = domain.StatusSeated

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 1, Status: domain.StatusCancelled})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusCancelled, f.store.bookings[1].Status)
	assert.Equal(t, domain.StatusCancelled, f.invoice().Status)
	assert.Equal(t, 0, f.payment.cancels)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		prepare func(f *fixture)
		wantErr error
	}{
		{name: "unknown status", req: &Request{BookingID: 1, Status: "GONE"}, wantErr: domain.ErrInvalidInput},
		{name: "charge with other status", req: &Request{BookingID: 1, Status: domain.StatusLeft, ChargeNoShow: true}, wantErr: domain.ErrInvalidInput},
		{name: "unknown booking", req: &Request{BookingID: 404, Status: domain.StatusSeated}, wantErr: domain.ErrBookingNotFound},
		{
			name:    "missing invoice",
			req:     &Request{BookingID: 3, Status: domain.StatusSeated},
			prepare: func(f *fixture) { delete(f.store.invoices, 200) },
			wantErr: domain.ErrInvoiceNotFound,
		},
		{
			name:    "reactivation overlaps another booking",
			req:     &Request{BookingID: 1, Status: domain.StatusBooked},
			prepare: func(f *fixture) { f.store.updateErr = fmt.Errorf("%w: exclusion", bookingRepo.ErrTimeslotTaken) },
			wantErr: domain.ErrBookingTimeslotFull,
		},
		{
			name:    "storage failure",
			req:     &Request{BookingID: 1, Status: domain.StatusSeated},
			prepare: func(f *fixture) { f.store.updateErr = errors.New("db down") },
			wantErr: ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.prepare != nil {
				tt.prepare(f)
			}
			_, err := f.uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, f.notifier.events)
		})
	}
}

func TestConfirmFromLink(t *testing.T) {
	t.Run("all booked", func(t *testing.T) {
		f := newFixture()

		resp, err := f.uc.ConfirmFromLink(context.Background(), invoiceID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusBooked, resp.Status)
		require.NotNil(t, f.invoice().ConfirmedAt)
		assert.True(t, now.Equal(*f.invoice().ConfirmedAt))
	})

	t.Run("booking already seated", func(t *testing.T) {
		f := newFixture()
		f.store.bookings[2].Status = domain.StatusSeated

		resp, err := f.uc.ConfirmFromLink(context.Background(), invoiceID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusError, resp.Status)
		assert.Nil(t, f.invoice().ConfirmedAt)
		assert.Equal(t, domain.StatusBooked, f.invoice().Status)
		assert.Equal(t, domain.StatusBooked, f.store.bookings[1].Status)
		assert.Equal(t, domain.StatusSeated, f.store.bookings[2].Status)
	})

	t.Run("unknown invoice", func(t *testing.T) {
		f := newFixture()

		_, err := f.uc.ConfirmFromLink(context.Background(), 404)
		assert.ErrorIs(t, err, domain.ErrInvoiceNotFound)
	})

	t.Run("invoice without bookings", func(t *testing.T) {
		f := newFixture()
		f.store.invoices[300] = &domain.Invoice{ID: 300, OutletID: outletID}

		_, err := f.uc.ConfirmFromLink(context.Background(), 300)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})
}
