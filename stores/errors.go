package stores

import (
	"errors"
	"fmt"
)

// ErrToggleInProgress is returned when a favorite toggle for the same menu
// item has not finished yet.
var ErrToggleInProgress = errors.New("favorite toggle already in progress")

// FetchError wraps a failed remote read or write. It is never retried by
// the stores; callers surface it and let the user try again.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
