package move_booking

import (
	"fmt"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// validateRequest проверяет запрос и возвращает диапазон отображения
func validateRequest(req *Request) (domain.TimeWindow, error) {
	if req.BookingID <= 0 {
		return domain.TimeWindow{}, fmt.Errorf("%w: booking id is required", domain.ErrInvalidInput)
	}
	if req.DestinationTableID <= 0 {
		return domain.TimeWindow{}, fmt.Errorf("%w: destination table id is required", domain.ErrInvalidInput)
	}
	return domain.NewTimeWindow(req.RangeStart, req.RangeEnd)
}
