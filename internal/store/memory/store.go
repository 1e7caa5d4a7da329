// Package memory provides an in-process implementation of the booking
// store.  Each room carries its own single-slot lock channel, giving
// the same per-row exclusivity as SELECT ... FOR UPDATE while honoring
// context cancellation.  Mutations are buffered in the transaction and
// applied to the committed state only on Commit, so a rollback (or an
// injected commit failure) leaves the store untouched.
//
// The package backs the engine's concurrency tests and is suitable for
// local development without a MySQL server.
package memory

import (
    "context"
    "errors"
    "fmt"
    "sync"
    "time"

    "github.com/iliyamo/hotel-room-reservation/internal/booking"
    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// ConflictError is a transient conflict surfaced by the store.  It is
// retryable: the engine restarts the whole transaction when it sees
// one.  The store only produces these through fault injection, since
// its blocking locks cannot conflict on their own, but the type mirrors
// what an optimistic substrate would return on a lost compare-and-swap.
type ConflictError struct {
    Op string
}

func (e *ConflictError) Error() string   { return fmt.Sprintf("memory store: conflict during %s", e.Op) }
func (e *ConflictError) Retryable() bool { return true }

// roomSlot pairs a room's committed state with its lock.  The lock is
// a one-slot channel so acquisition can race against ctx.Done().
type roomSlot struct {
    lock chan struct{}
    room model.Room
}

// Store holds the committed catalog and ledger.  The zero value is not
// usable; call NewStore.
type Store struct {
    mu            sync.Mutex
    rooms         map[uint64]*roomSlot
    bookings      []model.Booking
    nextBookingID uint64

    beginCalls  int
    commitFails int   // remaining injected commit failures
    commitErr   error // error returned while commitFails > 0
}

// NewStore returns an empty store.
func NewStore() *Store {
    return &Store{rooms: make(map[uint64]*roomSlot), nextBookingID: 1}
}

// AddRoom seeds a room into the catalog.  Existing state for the same
// ID is replaced; holding transactions are not disturbed because seeds
// are expected before traffic starts.
func (s *Store) AddRoom(room model.Room) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.rooms[room.ID] = &roomSlot{lock: make(chan struct{}, 1), room: room}
}

// Room returns a snapshot of the committed state of one room.
func (s *Store) Room(roomID uint64) (model.Room, bool) {
    s.mu.Lock()
    defer s.mu.Unlock()
    slot, ok := s.rooms[roomID]
    if !ok {
        return model.Room{}, false
    }
    return slot.room, true
}

// BookingsForRoom returns copies of all committed ledger rows for a room.
func (s *Store) BookingsForRoom(roomID uint64) []model.Booking {
    s.mu.Lock()
    defer s.mu.Unlock()
    var out []model.Booking
    for _, b := range s.bookings {
        if b.RoomID == roomID {
            out = append(out, b)
        }
    }
    return out
}

// BeginCalls reports how many transactions have been opened.  Tests
// use it to verify that rejected-before-storage requests never open one.
func (s *Store) BeginCalls() int {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.beginCalls
}

// FailCommits makes the next n Commit calls fail with err without
// applying any buffered state.  Pass a *ConflictError to simulate a
// retryable serialization conflict, or any other error for a hard
// substrate fault.
func (s *Store) FailCommits(n int, err error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.commitFails = n
    s.commitErr = err
}

// Begin opens a transaction.
func (s *Store) Begin(ctx context.Context) (booking.Tx, error) {
    if err := ctx.Err(); err != nil {
        return nil, err
    }
    s.mu.Lock()
    s.beginCalls++
    s.mu.Unlock()
    return &memTx{
        s:          s,
        held:       make(map[uint64]*roomSlot),
        decrements: make(map[uint64]int64),
    }, nil
}

// memTx is one in-flight transaction.  held tracks the room locks this
// transaction owns; decrements and inserts stay buffered until Commit.
type memTx struct {
    s          *Store
    held       map[uint64]*roomSlot
    decrements map[uint64]int64
    inserts    []model.Booking
    done       bool
}

func (t *memTx) LockRoom(ctx context.Context, roomID uint64) (*model.Room, error) {
    if t.done {
        return nil, errors.New("memory store: transaction already finished")
    }
    t.s.mu.Lock()
    slot, ok := t.s.rooms[roomID]
    t.s.mu.Unlock()
    if !ok {
        return nil, booking.ErrRoomNotFound
    }
    if _, already := t.held[roomID]; !already {
        // Block until the holder commits or rolls back, or the caller's
        // deadline fires.  Waiter wake-up order is whatever the runtime
        // picks; no FIFO fairness is promised.
        select {
        case slot.lock <- struct{}{}:
            t.held[roomID] = slot
        case <-ctx.Done():
            return nil, ctx.Err()
        }
    }
    t.s.mu.Lock()
    view := slot.room
    t.s.mu.Unlock()
    view.Availability -= t.decrements[roomID]
    return &view, nil
}

func (t *memTx) DecrementAvailability(ctx context.Context, roomID uint64, by int64) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    slot, ok := t.held[roomID]
    if !ok {
        return errors.New("memory store: decrement without holding the room lock")
    }
    if by < 0 {
        return errors.New("memory store: negative decrement")
    }
    t.s.mu.Lock()
    avail := slot.room.Availability
    t.s.mu.Unlock()
    if avail-t.decrements[roomID]-by < 0 {
        return errors.New("memory store: decrement would drive availability below zero")
    }
    t.decrements[roomID] += by
    return nil
}

func (t *memTx) InsertBooking(ctx context.Context, b *model.Booking) error {
    if err := ctx.Err(); err != nil {
        return err
    }
    if t.done {
        return errors.New("memory store: transaction already finished")
    }
    t.s.mu.Lock()
    b.ID = t.s.nextBookingID
    t.s.nextBookingID++ // IDs burn on rollback, like AUTO_INCREMENT
    t.s.mu.Unlock()
    t.inserts = append(t.inserts, *b)
    return nil
}

func (t *memTx) Commit() error {
    if t.done {
        return errors.New("memory store: transaction already finished")
    }
    t.s.mu.Lock()
    if t.s.commitFails > 0 {
        t.s.commitFails--
        err := t.s.commitErr
        t.s.mu.Unlock()
        t.finish()
        return err
    }
    now := time.Now().UTC()
    for roomID, by := range t.decrements {
        slot := t.s.rooms[roomID]
        slot.room.Availability -= by
        slot.room.UpdatedAt = now
    }
    for _, b := range t.inserts {
        b.CreatedAt = now
        t.s.bookings = append(t.s.bookings, b)
    }
    t.s.mu.Unlock()
    t.finish()
    return nil
}

func (t *memTx) Rollback() error {
    if t.done {
        return nil
    }
    t.finish()
    return nil
}

// finish releases every held room lock and marks the transaction done.
func (t *memTx) finish() {
    for id, slot := range t.held {
        <-slot.lock
        delete(t.held, id)
    }
    t.decrements = nil
    t.inserts = nil
    t.done = true
}
