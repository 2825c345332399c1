package checkout

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySession = errors.New("no session")
	ErrEmptyCart    = errors.New("cart empty")
)

// PersistenceError marks a ledger transaction failure. The transaction is
// already rolled back when it is returned; no partial order exists.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persisting order: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
