package domain

import "time"

// Invoice is the reservation record a table booking belongs to.
// Owned by the invoicing side; this service only reads it and mirrors booking status onto it.
type Invoice struct {
	ID                 int64
	OutletID           int64
	Status             BookingStatus
	IsValidSetupIntent bool

	// Saved payment method (processor customer + card)
	PaymentCustomerID *string
	PaymentMethodID   *string

	// SetupChargeID pre-authorised charge held against the card
	SetupChargeID *string

	TotalPaidAmount    int64 // minor units
	NoShowChargeAmount int64 // minor units
	Currency           string

	ConfirmedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasSavedPaymentMethod returns true if a card is stored for the invoice
func (i *Invoice) HasSavedPaymentMethod() bool {
	return i.PaymentMethodID != nil && *i.PaymentMethodID != ""
}

// IsCharged returns true if money was already taken or the pre-authorisation is gone
func (i *Invoice) IsCharged() bool {
	return i.TotalPaidAmount > 0 || !i.IsValidSetupIntent
}

// InvoiceUpdate fields written back to the invoice; nil means unchanged
type InvoiceUpdate struct {
	Status             *BookingStatus
	IsValidSetupIntent *bool
	TotalPaidAmount    *int64
	ConfirmedAt        *time.Time
}

// Apply mirrors the update onto an in-memory invoice
func (u InvoiceUpdate) Apply(inv *Invoice) {
	if u.Status != nil {
		inv.Status = *u.Status
	}
	if u.IsValidSetupIntent != nil {
		inv.IsValidSetupIntent = *u.IsValidSetupIntent
	}
	if u.TotalPaidAmount != nil {
		inv.TotalPaidAmount = *u.TotalPaidAmount
	}
	if u.ConfirmedAt != nil {
		inv.ConfirmedAt = u.ConfirmedAt
	}
}

// PaymentResult outcome of a charge against a saved payment method
type PaymentResult struct {
	ChargeID string
	Amount   int64
	Currency string
	Status   string
}
