package confirm_booking

import (
	"context"

	changeStatus "github.com/m04kA/SMC-TableService/internal/usecase/change_booking_status"
)

type ConfirmUseCase interface {
	ConfirmFromLink(ctx context.Context, invoiceID int64) (*changeStatus.ConfirmResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
