package get_table_view

import (
	"context"

	"github.com/m04kA/SMC-TableService/internal/domain"
	"github.com/m04kA/SMC-TableService/internal/service/bookings/models"
)

type BookingService interface {
	GetTableView(ctx context.Context, tableID int64, displayRange domain.TimeWindow) (*models.TableViewResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
