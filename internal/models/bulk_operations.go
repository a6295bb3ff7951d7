package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ReconcileResult partitions a receipt batch into created items and failures.
type ReconcileResult struct {
	OperationID    string       `json:"operation_id"`
	Status         string       `json:"status"` // "completed", "partial", "failed"
	TotalItems     int          `json:"total_items"`
	Succeeded      []uuid.UUID  `json:"succeeded"`
	Failed         []FailedLine `json:"failed"`
	StartTime      time.Time    `json:"start_time"`
	CompletionTime time.Time    `json:"completion_time"`
}

// FailedLine is a row that could not be stored, with the reason.
type FailedLine struct {
	ItemIndex int         `json:"item_index"`
	Item      RawLineItem `json:"item"`
	Error     string      `json:"error"`

	Err error `json:"-"`
}

// Summary renders the "7 of 8 items added" message shown after a scan.
func (r *ReconcileResult) Summary() string {
	msg := fmt.Sprintf("%d of %d items added", len(r.Succeeded), r.TotalItems)
	if len(r.Failed) == 0 {
		return msg
	}
	return fmt.Sprintf("%s, %d failed: %s", msg, len(r.Failed), r.Failed[0].Error)
}
