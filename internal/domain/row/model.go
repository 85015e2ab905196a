package row

import (
	"encoding/json"
	"time"
)

// Row is one synchronized record as the server stores it: an opaque JSON
// snapshot keyed by (table, id) and scoped to its owner.
type Row struct {
	Table     string
	ID        string
	UserID    string
	Data      json.RawMessage
	UpdatedAt time.Time
}
