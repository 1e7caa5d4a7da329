package booking

import (
    "context"
    "errors"
    "time"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// DefaultMaxAttempts bounds how many times a booking transaction is
// restarted after a retryable substrate conflict before giving up.
const DefaultMaxAttempts = 3

// Engine decides booking requests.  It owns all writes to room
// availability and all inserts into the bookings ledger; no other
// component mutates either.  An Engine is safe for concurrent use by
// any number of goroutines; coordination is delegated entirely to the
// store's per-room locks.
type Engine struct {
    store       Store
    maxAttempts int
}

// NewEngine returns an Engine backed by the given store.  maxAttempts
// values below 1 fall back to DefaultMaxAttempts.
func NewEngine(store Store, maxAttempts int) *Engine {
    if store == nil {
        panic("nil store passed to NewEngine")
    }
    if maxAttempts < 1 {
        maxAttempts = DefaultMaxAttempts
    }
    return &Engine{store: store, maxAttempts: maxAttempts}
}

// Book attempts to reserve one unit of the room for [start, end).  It
// returns the committed booking on success, or one of ErrInvalidRange,
// ErrRoomNotFound, ErrNoAvailability or *StorageError.
//
// The date check happens before any storage access so that invalid
// requests never touch a lock.  Business rejections (room missing,
// capacity exhausted) abort the transaction immediately, which
// releases the row lock for waiting transactions, and are never
// retried.
// Retryable substrate conflicts restart the whole transaction from
// the beginning, up to the configured attempt bound, with no
// caller-visible intermediate state.
func (e *Engine) Book(ctx context.Context, userID, roomID uint64, start, end time.Time) (*model.Booking, error) {
    if !end.After(start) {
        return nil, ErrInvalidRange
    }

    var lastErr error
    for attempt := 1; attempt <= e.maxAttempts; attempt++ {
        b, err := e.bookOnce(ctx, userID, roomID, start, end)
        if err == nil {
            return b, nil
        }
        if errors.Is(err, ErrRoomNotFound) || errors.Is(err, ErrNoAvailability) {
            return nil, err
        }
        lastErr = err
        // A cancelled caller gets no further attempts: the deadline
        // already rolled the transaction back.
        if ctx.Err() != nil || !IsRetryable(err) {
            return nil, &StorageError{Attempts: attempt, Err: err}
        }
    }
    return nil, &StorageError{Attempts: e.maxAttempts, Err: lastErr}
}

// bookOnce runs a single lock → validate → decrement → append → commit
// cycle.  Every exit path other than a successful commit rolls the
// transaction back, which releases the room lock.
func (e *Engine) bookOnce(ctx context.Context, userID, roomID uint64, start, end time.Time) (*model.Booking, error) {
    tx, err := e.store.Begin(ctx)
    if err != nil {
        return nil, err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    // Existence is decided before capacity: only a room that was
    // actually locked gets its availability inspected.
    room, err := tx.LockRoom(ctx, roomID)
    if err != nil {
        return nil, err
    }
    if room.Availability <= 0 {
        return nil, ErrNoAvailability
    }

    if err := tx.DecrementAvailability(ctx, roomID, 1); err != nil {
        return nil, err
    }

    b := &model.Booking{
        UserID:    userID,
        RoomID:    roomID,
        StartDate: start,
        EndDate:   end,
    }
    if err := tx.InsertBooking(ctx, b); err != nil {
        return nil, err
    }

    if err := tx.Commit(); err != nil {
        return nil, err
    }
    committed = true
    return b, nil
}
