package domain

import "time"

// FieldChange old and new value of a single field
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// ContentChange field-level diff between two snapshots
type ContentChange map[string]FieldChange

// IsEmpty returns true if nothing changed
func (c ContentChange) IsEmpty() bool {
	return len(c) == 0
}

// AuditRecord one audit trail entry
type AuditRecord struct {
	ID            int64
	CorrelationID string
	Entity        string
	EntityID      int64
	Action        string
	UserID        int64
	Change        ContentChange
	CreatedAt     time.Time
}

// Audit actions
const (
	AuditActionStatusChange      = "status_change"
	AuditActionMove              = "move"
	AuditActionCreate            = "create"
	AuditActionUpdate            = "update"
	AuditActionDelete            = "delete"
	AuditActionAddPossibility    = "add_possibility"
	AuditActionDeletePossibility = "delete_possibility"
)

// Audit entities
const (
	AuditEntityTableBooking = "table_booking"
	AuditEntityGroupTable   = "group_table"
)
