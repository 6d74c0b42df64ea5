package create_table_booking

import (
	"fmt"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// validateRequest проверяет запрос и строит окно бронирования
func validateRequest(req *Request) (domain.TimeWindow, error) {
	if req.InvoiceID <= 0 {
		return domain.TimeWindow{}, fmt.Errorf("%w: invoice id is required", domain.ErrInvalidInput)
	}
	if req.OutletID <= 0 {
		return domain.TimeWindow{}, fmt.Errorf("%w: outlet id is required", domain.ErrInvalidInput)
	}

	byGroup := req.GroupID != nil || req.PossibilityID != nil
	if byGroup && (req.GroupID == nil || req.PossibilityID == nil) {
		return domain.TimeWindow{}, fmt.Errorf("%w: groupId and possibilityId go together", domain.ErrInvalidInput)
	}
	if byGroup && len(req.TableIDs) > 0 {
		return domain.TimeWindow{}, fmt.Errorf("%w: either tableIds or a group possibility, not both", domain.ErrInvalidInput)
	}
	if !byGroup {
		if len(req.TableIDs) == 0 {
			return domain.TimeWindow{}, fmt.Errorf("%w: at least one table is required", domain.ErrInvalidInput)
		}
		if domain.HasDuplicateIDs(req.TableIDs) {
			return domain.TimeWindow{}, fmt.Errorf("%w: table ids must be unique", domain.ErrInvalidInput)
		}
	}

	return domain.NewTimeWindow(req.StartTime, req.EndTime)
}
