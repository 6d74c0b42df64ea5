package create_table_booking

import (
	"context"

	createTableBooking "github.com/m04kA/SMC-TableService/internal/usecase/create_table_booking"
)

type CreateTableBookingUseCase interface {
	Execute(ctx context.Context, req *createTableBooking.Request) (*createTableBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
