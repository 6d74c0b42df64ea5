package change_booking_status

import (
	"fmt"

	"github.com/m04kA/SMC-TableService/internal/domain"
)

// validateRequest проверяет запрос на смену статуса
func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking id is required", domain.ErrInvalidInput)
	}
	if !req.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, req.Status)
	}
	if req.ChargeNoShow && req.Status != domain.StatusNoShow {
		return fmt.Errorf("%w: charge is only allowed with status %s", domain.ErrInvalidInput, domain.StatusNoShow)
	}
	return nil
}
