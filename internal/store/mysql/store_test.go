package mysql

import (
    "context"
    "database/sql"
    "testing"
    "time"

    sqlmock "github.com/DATA-DOG/go-sqlmock"
    mysqldrv "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/hotel-room-reservation/internal/booking"
    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

const (
    lockRoomPattern  = `SELECT id, hotel_id, room_type, price_cents, availability, created_at, updated_at\s+FROM rooms WHERE id = \? FOR UPDATE`
    decrementPattern = `UPDATE rooms SET availability = availability - \?, updated_at = UTC_TIMESTAMP\(\)\s+WHERE id = \? AND availability >= \?`
    insertPattern    = `INSERT INTO bookings \(user_id, room_id, start_date, end_date\) VALUES \(\?, \?, \?, \?\)`
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() {
        assert.NoError(t, mock.ExpectationsWereMet())
        db.Close()
    })
    return NewStore(db), mock
}

func roomRows(availability int64) *sqlmock.Rows {
    now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
    return sqlmock.NewRows([]string{
        "id", "hotel_id", "room_type", "price_cents", "availability", "created_at", "updated_at",
    }).AddRow(7, 3, "double", 12000, availability, now, now)
}

func TestLockRoomReturnsLockedRow(t *testing.T) {
    s, mock := newMock(t)
    mock.ExpectBegin()
    mock.ExpectQuery(lockRoomPattern).WithArgs(uint64(7)).WillReturnRows(roomRows(4))
    mock.ExpectRollback()

    tx, err := s.Begin(context.Background())
    require.NoError(t, err)
    defer tx.Rollback()

    room, err := tx.LockRoom(context.Background(), 7)
    require.NoError(t, err)
    assert.Equal(t, uint64(7), room.ID)
    assert.Equal(t, uint64(3), room.HotelID)
    assert.Equal(t, "double", room.RoomType)
    assert.Equal(t, int64(4), room.Availability)
}

func TestLockRoomMissingRow(t *testing.T) {
    s, mock := newMock(t)
    mock.ExpectBegin()
    mock.ExpectQuery(lockRoomPattern).WithArgs(uint64(99)).WillReturnError(sql.ErrNoRows)
    mock.ExpectRollback()

    tx, err := s.Begin(context.Background())
    require.NoError(t, err)
    defer tx.Rollback()

    _, err = tx.LockRoom(context.Background(), 99)
    assert.ErrorIs(t, err, booking.ErrRoomNotFound)
    assert.False(t, booking.IsRetryable(err))
}

func TestDeadlockIsRetryable(t *testing.T) {
    s, mock := newMock(t)
    deadlock := &mysqldrv.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
    mock.ExpectBegin()
    mock.ExpectQuery(lockRoomPattern).WithArgs(uint64(7)).WillReturnError(deadlock)
    mock.ExpectRollback()

    tx, err := s.Begin(context.Background())
    require.NoError(t, err)
    defer tx.Rollback()

    _, err = tx.LockRoom(context.Background(), 7)
    require.Error(t, err)
    assert.True(t, booking.IsRetryable(err))
    assert.ErrorAs(t, err, &deadlock)
}

func TestLockWaitTimeoutIsRetryable(t *testing.T) {
    s, mock := newMock(t)
    timeout := &mysqldrv.MySQLError{Number: 1205, Message: "Lock wait timeout exceeded"}
    mock.ExpectBegin()
    mock.ExpectQuery(lockRoomPattern).WithArgs(uint64(7)).WillReturnRows(roomRows(1))
    mock.ExpectExec(decrementPattern).WithArgs(int64(1), uint64(7), int64(1)).WillReturnError(timeout)
    mock.ExpectRollback()

    tx, err := s.Begin(context.Background())
    require.NoError(t, err)
    defer tx.Rollback()

    _, err = tx.LockRoom(context.Background(), 7)
    require.NoError(t, err)
    err = tx.DecrementAvailability(context.Background(), 7, 1)
    require.Error(t, err)
    assert.True(t, booking.IsRetryable(err))
}

func TestDecrementGuardRefusesNegative(t *testing.T) {
    s, mock := newMock(t)
    mock.ExpectBegin()
    mock.ExpectExec(decrementPattern).
        WithArgs(int64(1), uint64(7), int64(1)).
        WillReturnResult(sqlmock.NewResult(0, 0)) // guard matched no row
    mock.ExpectRollback()

    tx, err := s.Begin(context.Background())
    require.NoError(t, err)
    defer tx.Rollback()

    err = tx.DecrementAvailability(context.Background(), 7, 1)
    require.Error(t, err)
    assert.False(t, booking.IsRetryable(err))
    assert.Contains(t, err.Error(), "would go negative")
}

func TestInsertBookingPopulatesID(t *testing.T) {
    s, mock := newMock(t)
    mock.ExpectBegin()
    mock.ExpectExec(insertPattern).
        WithArgs(uint64(42), uint64(7), "2025-06-05", "2025-06-10").
        WillReturnResult(sqlmock.NewResult(11, 1))
    mock.ExpectCommit()

    tx, err := s.Begin(context.Background())
    require.NoError(t, err)

    b := &model.Booking{
        UserID:    42,
        RoomID:    7,
        StartDate: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC),
        EndDate:   time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC),
    }
    require.NoError(t, tx.InsertBooking(context.Background(), b))
    assert.Equal(t, uint64(11), b.ID)
    require.NoError(t, tx.Commit())
}

func TestCommitConflictIsRetryable(t *testing.T) {
    s, mock := newMock(t)
    mock.ExpectBegin()
    mock.ExpectCommit().WillReturnError(&mysqldrv.MySQLError{Number: 1213, Message: "Deadlock found"})

    tx, err := s.Begin(context.Background())
    require.NoError(t, err)

    err = tx.Commit()
    require.Error(t, err)
    assert.True(t, booking.IsRetryable(err))

    // Rollback after a finished transaction is a no-op.
    assert.NoError(t, tx.Rollback())
}

func TestRollbackAfterCommitIsNoOp(t *testing.T) {
    s, mock := newMock(t)
    mock.ExpectBegin()
    mock.ExpectCommit()

    tx, err := s.Begin(context.Background())
    require.NoError(t, err)
    require.NoError(t, tx.Commit())
    assert.NoError(t, tx.Rollback())
    assert.ErrorIs(t, tx.Commit(), sql.ErrTxDone)
}
