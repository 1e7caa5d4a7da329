// Package booking implements the reservation engine: the single code
// path allowed to decrement room availability and append to the
// bookings ledger.  All outcomes of a booking attempt are expressed as
// the sentinel errors and error types defined in this file so that
// handlers can map them to transport responses without string
// matching.
package booking

import (
    "errors"
    "fmt"
)

// ErrInvalidRange is returned when the requested end date is not
// strictly after the start date.  It is decided before any storage
// access, so a request failing this way never acquires a lock.
var ErrInvalidRange = errors.New("end date must be after start date")

// ErrRoomNotFound is returned when the referenced room does not exist
// in the catalog.  It is never retried.
var ErrRoomNotFound = errors.New("room not found")

// ErrNoAvailability is returned when the room exists but has no units
// left at decision time.  This is an expected, frequent outcome, not a
// fault, and is never retried.
var ErrNoAvailability = errors.New("no rooms available")

// StorageError reports that a booking transaction could not be
// committed after exhausting the engine's bounded retries.  The engine
// guarantees that no partial state is visible when it is returned;
// callers may retry the whole request with backoff.
type StorageError struct {
    Attempts int   // number of transaction attempts made
    Err      error // last underlying substrate error
}

func (e *StorageError) Error() string {
    return fmt.Sprintf("booking storage failure after %d attempt(s): %v", e.Attempts, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// retryable is implemented by substrate errors that represent
// transient conflicts (deadlock, lock wait timeout, serialization
// failure) for which restarting the whole transaction is safe.
type retryable interface {
    Retryable() bool
}

// IsRetryable reports whether err is a transient substrate conflict
// that warrants restarting the transaction from the beginning.
func IsRetryable(err error) bool {
    var r retryable
    return errors.As(err, &r) && r.Retryable()
}
