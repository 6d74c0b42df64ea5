package check_availability

import (
	"time"

	checkAvailability "github.com/m04kA/SMC-TableService/internal/usecase/check_availability"
)

// CheckAvailabilityRequest HTTP request model
type CheckAvailabilityRequest struct {
	TableIDs  []int64   `json:"tableIds"`
	StartTime time.Time `json:"startTime"` // RFC 3339
	EndTime   time.Time `json:"endTime"`   // RFC 3339
}

// ConflictResponse бронирование, мешающее кандидату
type ConflictResponse struct {
	BookingID int64  `json:"bookingId"`
	TableID   int64  `json:"tableId"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Status    string `json:"status"`
}

// AvailabilityResponse HTTP response model
type AvailabilityResponse struct {
	Available bool               `json:"available"`
	Conflicts []ConflictResponse `json:"conflicts"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CheckAvailabilityRequest) ToUseCaseRequest(outletID int64) *checkAvailability.Request {
	return &checkAvailability.Request{
		OutletID:  outletID,
		TableIDs:  r.TableIDs,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *checkAvailability.Response) *AvailabilityResponse {
	out := &AvailabilityResponse{
		Available: resp.Available,
		Conflicts: make([]ConflictResponse, 0, len(resp.Conflicts)),
	}
	for _, c := range resp.Conflicts {
		out.Conflicts = append(out.Conflicts, ConflictResponse{
			BookingID: c.BookingID,
			TableID:   c.TableID,
			StartTime: c.StartTime.Format(time.RFC3339),
			EndTime:   c.EndTime.Format(time.RFC3339),
			Status:    c.Status,
		})
	}
	return out
}
