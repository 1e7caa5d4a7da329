package booking

import (
    "context"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// Store opens unit-of-work transactions against the catalog and the
// bookings ledger.  Implementations must provide at least
// read-committed isolation plus exclusive row locking on rooms;
// substrates without native row locks may substitute optimistic
// conflict detection as long as LockRoom/Commit report conflicts as
// retryable errors.
type Store interface {
    Begin(ctx context.Context) (Tx, error)
}

// Tx is one booking transaction.  Every Tx must end in exactly one
// Commit or Rollback; Rollback after a successful Commit is a no-op so
// callers can unconditionally defer it.  All mutating operations are
// only valid while the transaction holds the lock on the targeted
// room.
type Tx interface {
    // LockRoom acquires the exclusive lock on the room row and returns
    // its current committed state.  It blocks while another
    // transaction holds the same room's lock, but never blocks on
    // unrelated rooms.  Returns ErrRoomNotFound when the room does not
    // exist.
    LockRoom(ctx context.Context, roomID uint64) (*model.Room, error)

    // DecrementAvailability reduces the locked room's availability.
    // Callers must have validated capacity under the lock first;
    // implementations refuse to drive the count below zero.
    DecrementAvailability(ctx context.Context, roomID uint64, by int64) error

    // InsertBooking appends a row to the bookings ledger within this
    // transaction and populates the generated ID on b.
    InsertBooking(ctx context.Context, b *model.Booking) error

    Commit() error
    Rollback() error
}
