package domain

// NonBlockingStatuses bookings in these statuses never block a table
var NonBlockingStatuses = []BookingStatus{
	StatusLeft,
	StatusCancelled,
	StatusNoShow,
}

// Group validation limits
const (
	MinGroupTables       = 2
	MinPossibilityTables = 2
	MinGroupPax          = 1
	MaxGroupNameLength   = 100
)

// ManualPossibilityIndex index assigned to every possibility added by hand.
// Bulk-generated possibilities are numbered 1..K instead, so indices may repeat within a group.
const ManualPossibilityIndex = 1

// DefaultCurrency currency used for charges when an invoice has none
const DefaultCurrency = "sgd"
