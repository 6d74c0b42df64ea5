package create_table_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-TableService/internal/api/handlers"
	"github.com/m04kA/SMC-TableService/internal/domain"
	createTableBooking "github.com/m04kA/SMC-TableService/internal/usecase/create_table_booking"
)

type fakeUseCase struct {
	req  *createTableBooking.Request
	resp *createTableBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *createTableBooking.Request) (*createTableBooking.Response, error) {
	f.req = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func serve(uc *fakeUseCase, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/outlets/{outletId}/table-bookings", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, strings.NewReader(body)))
	return rec
}

func TestHandle_Created(t *testing.T) {
	start := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	uc := &fakeUseCase{resp: &createTableBooking.Response{
		InvoiceID: 500,
		TableIDs:  []int64{5, 6},
		Bookings: []createTableBooking.Booking{
			{ID: 1, TableID: 5, StartTime: start, EndTime: start.Add(2 * time.Hour), Status: "BOOKED"},
			{ID: 2, TableID: 6, StartTime: start, EndTime: start.Add(2 * time.Hour), Status: "BOOKED"},
		},
	}}

	rec := serve(uc, "/outlets/1/table-bookings",
		`{"invoiceId":500,"startTime":"2026-03-01T19:00:00Z","endTime":"2026-03-01T21:00:00Z","tableIds":[5,6]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(1), uc.req.OutletID)
	assert.Equal(t, []int64{5, 6}, uc.req.TableIDs)
	assert.True(t, uc.req.StartTime.Equal(start))

	var body CreateTableBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(500), body.InvoiceID)
	assert.Len(t, body.Bookings, 2)
	assert.Equal(t, "2026-03-01T19:00:00Z", body.Bookings[0].StartTime)
}

func TestHandle_Errors(t *testing.T) {
	valid := `{"invoiceId":500,"startTime":"2026-03-01T19:00:00Z","endTime":"2026-03-01T21:00:00Z","tableIds":[5]}`

	tests := []struct {
		name       string
		path       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "bad outlet id", path: "/outlets/abc/table-bookings", body: valid, wantStatus: http.StatusBadRequest},
		{name: "unknown field", path: "/outlets/1/table-bookings", body: `{"invoice":500}`, wantStatus: http.StatusBadRequest},
		{
			name: "timeslot full", path: "/outlets/1/table-bookings", body: valid,
			err:        fmt.Errorf("%w: Execute - table 5", domain.ErrBookingTimeslotFull),
			wantStatus: http.StatusConflict, wantCode: "BOOKING_TIMESLOT_FULL",
		},
		{
			name: "invalid table", path: "/outlets/1/table-bookings", body: valid,
			err:        fmt.Errorf("%w: Execute - table 9", domain.ErrInvalidTable),
			wantStatus: http.StatusNotFound, wantCode: "INVALID_TABLE",
		},
		{
			name: "internal", path: "/outlets/1/table-bookings", body: valid,
			err:        fmt.Errorf("%w: Execute - %v", createTableBooking.ErrInternal, "db down"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeUseCase{err: tt.err}, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}
