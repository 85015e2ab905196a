package model

import (
	"encoding/json"
	"fmt"
)

// Kind is the closed set of syncable tables. Sync dispatch goes through this
// type rather than bare table-name strings, so a misspelled table fails
// loudly instead of becoming a silent no-op. LineItem is intentionally
// absent: line items never leave the local store.
type Kind string

const (
	KindBusiness Kind = "business"
	KindClient   Kind = "client"
	KindInvoice  Kind = "invoice"
	KindPayment  Kind = "payment"
)

// SyncOrder is the pull order for syncable kinds: parents before children, so
// a partial pull cannot leave a child row pointing at a parent that was never
// fetched.
var SyncOrder = []Kind{KindBusiness, KindClient, KindInvoice, KindPayment}

func (k Kind) Validate() error {
	switch k {
	case KindBusiness, KindClient, KindInvoice, KindPayment:
		return nil
	}
	return fmt.Errorf("invalid syncable kind: %s", k)
}

func (k Kind) String() string {
	return string(k)
}

// Table returns the table name the kind maps to, identical on the local and
// remote stores.
func (k Kind) Table() string {
	return string(k)
}

// KindForTable maps a table name back to its kind.
func KindForTable(table string) (Kind, error) {
	k := Kind(table)
	if err := k.Validate(); err != nil {
		return "", err
	}
	return k, nil
}

// DecodeSnapshot parses an outbox or remote-row snapshot into the kind's
// entity type. It returns *Business, *Client, *Invoice or *Payment.
func (k Kind) DecodeSnapshot(data []byte) (any, error) {
	switch k {
	case KindBusiness:
		var b Business
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("decode business snapshot: %w", err)
		}
		return &b, nil
	case KindClient:
		var c Client
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("decode client snapshot: %w", err)
		}
		return &c, nil
	case KindInvoice:
		var i Invoice
		if err := json.Unmarshal(data, &i); err != nil {
			return nil, fmt.Errorf("decode invoice snapshot: %w", err)
		}
		return &i, nil
	case KindPayment:
		var p Payment
		if err := json.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode payment snapshot: %w", err)
		}
		return &p, nil
	}
	return nil, fmt.Errorf("invalid syncable kind: %s", k)
}

// EncodeSnapshot produces the canonical JSON snapshot for an outbox record.
// The value must be one of the syncable entity types.
func EncodeSnapshot(v any) (json.RawMessage, error) {
	switch v.(type) {
	case *Business, *Client, *Invoice, *Payment, Business, Client, Invoice, Payment, Tombstone, *Tombstone:
	default:
		return nil, fmt.Errorf("not a syncable entity: %T", v)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}
