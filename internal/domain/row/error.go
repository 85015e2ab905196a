package row

import "errors"

var (
	ErrUnknownTable = errors.New("unknown table")
	ErrInvalidData  = errors.New("invalid row data")
	ErrNotFound     = errors.New("row not found")
	ErrForbidden    = errors.New("row belongs to another user")
)
