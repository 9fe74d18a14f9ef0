package allocation

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidBounds = errors.New("invalid bounds")
	ErrInvalidSeed   = errors.New("invalid seed")
	ErrInvalidEntry  = errors.New("invalid entry")
	ErrDuplicateID   = errors.New("duplicate entry id")
	ErrUnknownEntry  = errors.New("unknown entry")
)

// OpError records which operation failed and for which entry.
type OpError struct {
	Op  string
	ID  int64
	Err error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	if e.ID > 0 {
		return fmt.Sprintf("%s entry %d: %v", e.Op, e.ID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func opErr(op string, id int64, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, ID: id, Err: err}
}
