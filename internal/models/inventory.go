package models

import (
	"time"

	"github.com/google/uuid"
)

// StandardUnit is the canonical unit family a user-facing unit belongs to.
type StandardUnit string

const (
	UnitGram       StandardUnit = "g"
	UnitMilliliter StandardUnit = "ml"
	UnitCount      StandardUnit = "count"
)

// Valid reports whether u is one of the three canonical families.
func (u StandardUnit) Valid() bool {
	switch u {
	case UnitGram, UnitMilliliter, UnitCount:
		return true
	}
	return false
}

// ActionType classifies an inventory log entry.
type ActionType string

const (
	ActionConsumed ActionType = "consumed"
	ActionSpoiled  ActionType = "spoiled"
	ActionAdjusted ActionType = "adjusted"
	ActionAdded    ActionType = "added"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionConsumed, ActionSpoiled, ActionAdjusted, ActionAdded:
		return true
	}
	return false
}

// Item lifecycle flags stored in inventory.status. NULL is read as active.
const (
	StatusActive  = 1
	StatusExpired = -1
)

// SortKey selects the ordering column for active pantry listings.
type SortKey string

const (
	SortByExpiration SortKey = "expiration_date"
	SortByCategory   SortKey = "category"
	SortByName       SortKey = "name"
	SortByCreatedAt  SortKey = "created_at"
)

// ParseSortKey maps a query value to a SortKey, falling back to expiration date.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortByExpiration, SortByCategory, SortByName, SortByCreatedAt:
		return SortKey(s)
	}
	return SortByExpiration
}

// InventoryItem is one pantry entry.
type InventoryItem struct {
	ID               uuid.UUID    `json:"id" db:"id"`
	UserID           *uuid.UUID   `json:"user_id,omitempty" db:"user_id"`
	Name             string       `json:"name" db:"name"`
	Category         *string      `json:"category,omitempty" db:"category"`
	InitialQuantity  float64      `json:"initial_quantity" db:"initial_quantity"`
	CurrentQuantity  float64      `json:"current_quantity" db:"current_quantity"`
	UserUnit         string       `json:"user_unit" db:"user_unit"`
	StandardUnit     StandardUnit `json:"standard_unit" db:"standard_unit"`
	ConversionFactor float64      `json:"conversion_factor" db:"conversion_factor"`
	Price            *float64     `json:"price,omitempty" db:"price"`
	ExpirationDate   *time.Time   `json:"expiration_date,omitempty" db:"expiration_date"`
	CreatedAt        time.Time    `json:"created_at" db:"created_at"`
	Status           *int         `json:"status,omitempty" db:"status"`
}

// IsActive treats a missing status as active.
func (i *InventoryItem) IsActive() bool {
	return i.Status == nil || *i.Status == StatusActive
}

// StandardQuantity is the remaining amount expressed in the standard unit.
func (i *InventoryItem) StandardQuantity() float64 {
	return i.CurrentQuantity * i.ConversionFactor
}

// InventoryLogEntry records one consumption or adjustment event.
type InventoryLogEntry struct {
	ID            uuid.UUID  `json:"id" db:"log_id"`
	ItemID        uuid.UUID  `json:"item_id" db:"item_id"`
	ActionType    ActionType `json:"action_type" db:"action_type"`
	AmountChanged float64    `json:"amount_changed" db:"amount_changed"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
}

// NewInventoryItem is the input for a manual add.
type NewInventoryItem struct {
	UserID         *uuid.UUID
	Name           string
	Category       *string
	Quantity       float64
	UserUnit       string
	StandardUnit   StandardUnit // optional; classified from UserUnit when empty
	Price          *float64
	ExpirationDate *time.Time
}

// PantryStats summarizes the pantry for the dashboard.
type PantryStats struct {
	ActiveCount       int       `json:"active_count"`
	ExpiringSoonCount int       `json:"expiring_soon_count"`
	ExpiredCount      int       `json:"expired_count"`
	ActiveValue       float64   `json:"active_value"`
	WastedValue       float64   `json:"wasted_value"`
	GeneratedAt       time.Time `json:"generated_at"`
}

// UsageResult is the outcome of a partial-usage event.
type UsageResult struct {
	Entry             *InventoryLogEntry `json:"log"`
	RemainingQuantity float64            `json:"remaining_quantity"`
}
