package move_booking

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
	"github.com/m04kA/SMC-TableService/internal/api/middleware"
	"github.com/m04kA/SMC-TableService/internal/domain"
	moveBooking "github.com/m04kA/SMC-TableService/internal/usecase/move_booking"
)

type fakeUseCase struct {
	req  *moveBooking.Request
	resp *moveBooking.Response
	err  error
}

func (f *fakeUseCase) Execute(ctx context.Context, req *moveBooking.Request) (*moveBooking.Response, error) {
	f.req = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const validBody = `{"destinationTableId":2,"rangeStart":"2026-03-01T00:00:00Z","rangeEnd":"2026-03-02T00:00:00Z"}`

func serve(uc *fakeUseCase, path, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.Use(middleware.Auth)
	router.HandleFunc("/table-bookings/{bookingId}/move", NewHandler(uc, nopLogger{}).Handle).Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set(middleware.HeaderUserID, "42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Moved(t *testing.T) {
	start := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	booking := &domain.TableBooking{
		ID: 10, InvoiceID: 100, TableID: 2, OutletID: 1,
		BookingStartTime: start, BookingEndTime: start.Add(2 * time.Hour),
		Status: domain.StatusBooked, IsActive: true,
	}
	uc := &fakeUseCase{resp: &moveBooking.Response{
		Booking:     booking,
		Source:      &domain.TableView{Table: domain.OutletTable{ID: 1, Name: "T1"}, Bookings: []*domain.TableBooking{}},
		Destination: &domain.TableView{Table: domain.OutletTable{ID: 2, Name: "T2"}, Bookings: []*domain.TableBooking{booking}},
	}}

	rec := serve(uc, "/table-bookings/10/move", validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(10), uc.req.BookingID)
	assert.Equal(t, int64(2), uc.req.DestinationTableID)
	assert.Equal(t, int64(42), uc.req.UserID)

	var body MoveBookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(2), body.Booking.TableID)
	assert.Empty(t, body.Source.Bookings)
	require.Len(t, body.Destination.Bookings, 1)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "bad booking id", path: "/table-bookings/abc/move", body: validBody, wantStatus: http.StatusBadRequest},
		{name: "unknown field", path: "/table-bookings/10/move", body: `{"tableId":2}`, wantStatus: http.StatusBadRequest},
		{
			name: "destination busy", path: "/table-bookings/10/move", body: validBody,
			err:        fmt.Errorf("%w: MoveBooking - table 2 is busy", domain.ErrInvalidMove),
			wantStatus: http.StatusBadRequest, wantCode: "INVALID_MOVE",
		},
		{
			name: "lost serialization race", path: "/table-bookings/10/move", body: validBody,
			err:        fmt.Errorf("%w: MoveBooking - serialization failure", domain.ErrInvalidMove),
			wantStatus: http.StatusBadRequest, wantCode: "INVALID_MOVE",
		},
		{
			name: "booking not found", path: "/table-bookings/404/move", body: validBody,
			err:        fmt.Errorf("%w: MoveBooking - booking=404", domain.ErrBookingNotFound),
			wantStatus: http.StatusNotFound, wantCode: "BOOKING_NOT_FOUND",
		},
		{
			name: "table of another outlet", path: "/table-bookings/10/move", body: validBody,
			err:        fmt.Errorf("%w: MoveBooking - table 9", domain.ErrInvalidTable),
			wantStatus: http.StatusNotFound, wantCode: "INVALID_TABLE",
		},
		{
			name: "table deleted meanwhile", path: "/table-bookings/10/move", body: validBody,
			err:        fmt.Errorf("%w: BuildView - id=2", domain.ErrTableNotFound),
			wantStatus: http.StatusNotFound, wantCode: "INVALID_TABLE",
		},
		{
			name: "invalid range", path: "/table-bookings/10/move", body: validBody,
			err:        fmt.Errorf("%w: empty range", domain.ErrInvalidInput),
			wantStatus: http.StatusBadRequest, wantCode: "INVALID_INPUT",
		},
		{
			name: "internal", path: "/table-bookings/10/move", body: validBody,
			err:        fmt.Errorf("db down"),
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
		})
	}
}
