package model

import (
	"encoding/json"
	"fmt"
	"time"
)

type Operation string

const (
	OpCreate Operation = "create"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

func (o Operation) Validate() error {
	switch o {
	case OpCreate, OpUpdate, OpDelete:
		return nil
	}
	return fmt.Errorf("invalid outbox operation: %s", o)
}

func (o Operation) String() string {
	return string(o)
}

// OutboxRecord is one pending mutation in the durable outbox queue. Records
// are immutable except for the syncedAt transition from nil to a timestamp.
// SyncedAt == nil means pending.
type OutboxRecord struct {
	ID        string          `json:"id"`
	Operation Operation       `json:"operation"`
	Kind      Kind            `json:"table"`
	RecordID  string          `json:"recordId"`
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
	SyncedAt  *time.Time      `json:"syncedAt,omitempty"`
}

// Tombstone is the snapshot carried by a delete record: only the id, never a
// full row.
type Tombstone struct {
	ID string `json:"id"`
}
