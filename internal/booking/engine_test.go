package booking_test

import (
    "context"
    "errors"
    "sync"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-room-reservation/internal/booking"
    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/store/memory"
)

var (
    d1 = time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC)
    d2 = time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
)

func newStoreWithRoom(roomID uint64, availability int64) *memory.Store {
    s := memory.NewStore()
    s.AddRoom(model.Room{ID: roomID, HotelID: 1, RoomType: "double", PriceCents: 12000, Availability: availability})
    return s
}

func TestBookSuccess(t *testing.T) {
    s := newStoreWithRoom(1, 3)
    e := booking.NewEngine(s, 3)

    b, err := e.Book(context.Background(), 42, 1, d1, d2)
    require.NoError(t, err)
    require.NotNil(t, b)
    assert.NotZero(t, b.ID)
    assert.Equal(t, uint64(42), b.UserID)
    assert.Equal(t, uint64(1), b.RoomID)
    assert.Equal(t, d1, b.StartDate)
    assert.Equal(t, d2, b.EndDate)

    room, ok := s.Room(1)
    require.True(t, ok)
    assert.Equal(t, int64(2), room.Availability)
    assert.Len(t, s.BookingsForRoom(1), 1)
}

func TestBookInvalidRangeTouchesNoStorage(t *testing.T) {
    s := newStoreWithRoom(1, 1)
    e := booking.NewEngine(s, 3)

    for _, end := range []time.Time{d1, d1.AddDate(0, 0, -5)} {
        _, err := e.Book(context.Background(), 42, 1, d1, end)
        assert.ErrorIs(t, err, booking.ErrInvalidRange)
    }
    // Rejected requests must not have opened a transaction, let alone
    // acquired a lock.
    assert.Equal(t, 0, s.BeginCalls())
    room, _ := s.Room(1)
    assert.Equal(t, int64(1), room.Availability)
}

func TestBookRoomNotFound(t *testing.T) {
    s := newStoreWithRoom(1, 1)
    e := booking.NewEngine(s, 3)

    _, err := e.Book(context.Background(), 42, 99, d1, d2)
    assert.ErrorIs(t, err, booking.ErrRoomNotFound)
    assert.Empty(t, s.BookingsForRoom(99))
}

func TestBookNoAvailability(t *testing.T) {
    s := newStoreWithRoom(1, 0)
    e := booking.NewEngine(s, 3)

    _, err := e.Book(context.Background(), 42, 1, d1, d2)
    assert.ErrorIs(t, err, booking.ErrNoAvailability)
    room, _ := s.Room(1)
    assert.Equal(t, int64(0), room.Availability)
    assert.Empty(t, s.BookingsForRoom(1))
}

// bookConcurrently fires callers simultaneous Book calls against one
// room and tallies the outcomes.
func bookConcurrently(t *testing.T, e *booking.Engine, roomID uint64, callers int) (successes, soldOut int) {
    t.Helper()
    var (
        wg    sync.WaitGroup
        mu    sync.Mutex
        start = make(chan struct{})
    )
    for i := 0; i < callers; i++ {
        wg.Add(1)
        go func(userID uint64) {
            defer wg.Done()
            <-start
            _, err := e.Book(context.Background(), userID, roomID, d1, d2)
            mu.Lock()
            defer mu.Unlock()
            switch {
            case err == nil:
                successes++
            case errors.Is(err, booking.ErrNoAvailability):
                soldOut++
            default:
                t.Errorf("unexpected error: %v", err)
            }
        }(uint64(i + 1))
    }
    close(start)
    wg.Wait()
    return successes, soldOut
}

func TestNoOversellUnderContention(t *testing.T) {
    const initial, callers = 5, 25
    s := newStoreWithRoom(1, initial)
    e := booking.NewEngine(s, 3)

    successes, soldOut := bookConcurrently(t, e, 1, callers)

    assert.Equal(t, initial, successes)
    assert.Equal(t, callers-initial, soldOut)

    room, _ := s.Room(1)
    assert.Equal(t, int64(0), room.Availability)
    assert.Len(t, s.BookingsForRoom(1), initial)
}

func TestTwoCallersOneUnit(t *testing.T) {
    s := newStoreWithRoom(1, 1)
    e := booking.NewEngine(s, 3)

    successes, soldOut := bookConcurrently(t, e, 1, 2)

    assert.Equal(t, 1, successes)
    assert.Equal(t, 1, soldOut)
    room, _ := s.Room(1)
    assert.Equal(t, int64(0), room.Availability)
    assert.Len(t, s.BookingsForRoom(1), 1)
}

func TestSixthCallerSoldOut(t *testing.T) {
    s := newStoreWithRoom(2, 5)
    e := booking.NewEngine(s, 3)

    successes, soldOut := bookConcurrently(t, e, 2, 6)

    assert.Equal(t, 5, successes)
    assert.Equal(t, 1, soldOut)
    room, _ := s.Room(2)
    assert.Equal(t, int64(0), room.Availability)
}

func TestInvariantAcrossRooms(t *testing.T) {
    s := memory.NewStore()
    initial := map[uint64]int64{1: 3, 2: 7, 3: 0}
    for id, avail := range initial {
        s.AddRoom(model.Room{ID: id, HotelID: 1, RoomType: "double", Availability: avail})
    }
    e := booking.NewEngine(s, 3)

    var wg sync.WaitGroup
    for i := 0; i < 30; i++ {
        wg.Add(1)
        go func(i int) {
            defer wg.Done()
            roomID := uint64(i%3 + 1)
            _, err := e.Book(context.Background(), uint64(i+1), roomID, d1, d2)
            if err != nil && !errors.Is(err, booking.ErrNoAvailability) {
                t.Errorf("room %d: unexpected error: %v", roomID, err)
            }
        }(i)
    }
    wg.Wait()

    // availability == initial − committed ledger rows, and never negative.
    for id, init := range initial {
        room, ok := s.Room(id)
        require.True(t, ok)
        booked := int64(len(s.BookingsForRoom(id)))
        assert.Equal(t, init-booked, room.Availability, "room %d", id)
        assert.GreaterOrEqual(t, room.Availability, int64(0), "room %d", id)
    }
}

func TestCommitFailureLeavesStateUntouched(t *testing.T) {
    s := newStoreWithRoom(1, 2)
    s.FailCommits(1, errors.New("disk full"))
    e := booking.NewEngine(s, 3)

    _, err := e.Book(context.Background(), 42, 1, d1, d2)

    var se *booking.StorageError
    require.ErrorAs(t, err, &se)
    assert.Equal(t, 1, se.Attempts) // hard faults are not retried

    room, _ := s.Room(1)
    assert.Equal(t, int64(2), room.Availability)
    assert.Empty(t, s.BookingsForRoom(1))
}

func TestRetryRecoversFromConflicts(t *testing.T) {
    s := newStoreWithRoom(1, 2)
    s.FailCommits(2, &memory.ConflictError{Op: "commit"})
    e := booking.NewEngine(s, 3)

    b, err := e.Book(context.Background(), 42, 1, d1, d2)
    require.NoError(t, err)
    require.NotNil(t, b)

    // Two conflicted attempts rolled back cleanly; only the third
    // committed.
    room, _ := s.Room(1)
    assert.Equal(t, int64(1), room.Availability)
    assert.Len(t, s.BookingsForRoom(1), 1)
    assert.Equal(t, 3, s.BeginCalls())
}

func TestRetryBoundExhausted(t *testing.T) {
    s := newStoreWithRoom(1, 2)
    s.FailCommits(3, &memory.ConflictError{Op: "commit"})
    e := booking.NewEngine(s, 3)

    _, err := e.Book(context.Background(), 42, 1, d1, d2)

    var se *booking.StorageError
    require.ErrorAs(t, err, &se)
    assert.Equal(t, 3, se.Attempts)

    room, _ := s.Room(1)
    assert.Equal(t, int64(2), room.Availability)
    assert.Empty(t, s.BookingsForRoom(1))
}

func TestDeadlineWhileWaitingForLock(t *testing.T) {
    s := newStoreWithRoom(1, 1)
    e := booking.NewEngine(s, 3)

    // Park a transaction on the room's lock.
    holder, err := s.Begin(context.Background())
    require.NoError(t, err)
    _, err = holder.LockRoom(context.Background(), 1)
    require.NoError(t, err)

    ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
    defer cancel()
    _, err = e.Book(ctx, 42, 1, d1, d2)

    var se *booking.StorageError
    require.ErrorAs(t, err, &se)
    assert.ErrorIs(t, err, context.DeadlineExceeded)
    assert.Equal(t, 1, se.Attempts) // no retries after cancellation

    require.NoError(t, holder.Rollback())
    room, _ := s.Room(1)
    assert.Equal(t, int64(1), room.Availability)
    assert.Empty(t, s.BookingsForRoom(1))
}

func TestUnrelatedRoomsDoNotBlock(t *testing.T) {
    s := memory.NewStore()
    s.AddRoom(model.Room{ID: 1, HotelID: 1, RoomType: "double", Availability: 1})
    s.AddRoom(model.Room{ID: 2, HotelID: 1, RoomType: "suite", Availability: 1})
    e := booking.NewEngine(s, 3)

    // Hold room 1's lock for the duration of the test.
    holder, err := s.Begin(context.Background())
    require.NoError(t, err)
    _, err = holder.LockRoom(context.Background(), 1)
    require.NoError(t, err)
    defer func() { _ = holder.Rollback() }()

    ctx, cancel := context.WithTimeout(context.Background(), time.Second)
    defer cancel()
    b, err := e.Book(ctx, 42, 2, d1, d2)
    require.NoError(t, err)
    assert.Equal(t, uint64(2), b.RoomID)
}
