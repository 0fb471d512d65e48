package domain

import (
	"encoding/json"
	"fmt"
)

// EventKind is the mutation type of a change event.
type EventKind string

const (
	EventCreate EventKind = "create"
	EventUpdate EventKind = "update"
	EventDelete EventKind = "delete"
)

// Logical event sources. Handler bindings key on (source, kind).
const (
	SourceUsers     = "users"
	SourceOrders    = "orders"
	SourceSuppliers = "suppliers"
)

// ChangeEvent is a store-agnostic record of a single document mutation.
// Before is absent for creates, After is absent for deletes. Both carry the
// raw document; handlers decode them into typed snapshots at the boundary.
type ChangeEvent struct {
	Source    string          `json:"source" validate:"required"`
	Kind      EventKind       `json:"kind" validate:"required,oneof=create update delete"`
	ID        string          `json:"id" validate:"required"`
	CompanyID string          `json:"companyId"`
	Before    json.RawMessage `json:"before,omitempty"`
	After     json.RawMessage `json:"after,omitempty"`
}

// UserSnapshot is the before/after view of a user document. Optional fields
// are pointers so "missing" is distinguishable from a zero value.
type UserSnapshot struct {
	IsActive bool    `json:"isActive"`
	FCMToken *string `json:"fcmToken"`
}

// OrderSnapshot is the before/after view of an order document.
type OrderSnapshot struct {
	EmployeeID   *string `json:"employeeId"`
	EmployeeName *string `json:"employeeName"`
	Status       string  `json:"status"`
}

// DecodeUserSnapshot parses a raw document into a UserSnapshot.
// A nil raw document yields a nil snapshot, not an error.
func DecodeUserSnapshot(raw json.RawMessage) (*UserSnapshot, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var s UserSnapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode user snapshot: %w", ErrBadRequest)
	}
	return &s, nil
}

// DecodeOrderSnapshot parses a raw document into an OrderSnapshot.
// A nil raw document yields a nil snapshot, not an error.
func DecodeOrderSnapshot(raw json.RawMessage) (*OrderSnapshot, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var s OrderSnapshot
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode order snapshot: %w", ErrBadRequest)
	}
	return &s, nil
}
