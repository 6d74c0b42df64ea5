package check_availability

import (
	"fmt"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// validateRequest проверяет запрос и строит окно бронирования
func validateRequest(req *Request) (domain.TimeWindow, error) {
	if req.OutletID <= 0 {
		return domain.TimeWindow{}, fmt.Errorf("%w: outlet id is required", domain.ErrInvalidInput)
	}
	if len(req.TableIDs) == 0 {
		return domain.TimeWindow{}, fmt.Errorf("%w: at least one table is required", domain.ErrInvalidInput)
	}
	if domain.HasDuplicateIDs(req.TableIDs) {
		return domain.TimeWindow{}, fmt.Errorf("%w: table ids must be unique", domain.ErrInvalidInput)
	}

	return domain.NewTimeWindow(req.StartTime, req.EndTime)
}
