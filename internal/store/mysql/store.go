// Package mysql implements the booking store on top of database/sql
// and MySQL/InnoDB.  Room rows are locked with SELECT ... FOR UPDATE,
// which serializes concurrent bookings of the same room at row
// granularity while leaving other rooms fully parallel.  Deadlocks and
// lock wait timeouts are reported as retryable so the engine can
// restart the transaction.
package mysql

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/hotel-room-reservation/internal/booking"
    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// MySQL server error numbers that mean "retry the whole transaction".
const (
    errLockDeadlock    = 1213 // ER_LOCK_DEADLOCK
    errLockWaitTimeout = 1205 // ER_LOCK_WAIT_TIMEOUT
)

// conflictError wraps a transient InnoDB conflict so the engine's
// retry loop can recognize it via the Retryable interface.
type conflictError struct {
    err error
}

func (e *conflictError) Error() string   { return e.err.Error() }
func (e *conflictError) Unwrap() error   { return e.err }
func (e *conflictError) Retryable() bool { return true }

// classify wraps transient MySQL conflicts as retryable and passes
// everything else through unchanged.
func classify(err error) error {
    var me *mysql.MySQLError
    if errors.As(err, &me) && (me.Number == errLockDeadlock || me.Number == errLockWaitTimeout) {
        return &conflictError{err: err}
    }
    return err
}

// Store opens booking transactions against a MySQL database.
type Store struct {
    db *sql.DB
}

// NewStore returns a Store bound to the given database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Begin starts a transaction at the connection's default isolation
// level (REPEATABLE READ on InnoDB); the explicit row locks below are
// what actually serialize bookings, so no stricter level is requested.
func (s *Store) Begin(ctx context.Context) (booking.Tx, error) {
    tx, err := s.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, classify(err)
    }
    return &sqlTx{tx: tx}, nil
}

type sqlTx struct {
    tx   *sql.Tx
    done bool
}

// LockRoom acquires the exclusive row lock and returns the row as it
// stands once the lock is held.  InnoDB blocks the statement while
// another transaction holds the same row, which is exactly the waiting
// behavior the engine relies on; a missing row surfaces as
// booking.ErrRoomNotFound.
func (t *sqlTx) LockRoom(ctx context.Context, roomID uint64) (*model.Room, error) {
    const q = `SELECT id, hotel_id, room_type, price_cents, availability, created_at, updated_at
               FROM rooms WHERE id = ? FOR UPDATE`
    var r model.Room
    err := t.tx.QueryRowContext(ctx, q, roomID).Scan(
        &r.ID, &r.HotelID, &r.RoomType, &r.PriceCents, &r.Availability, &r.CreatedAt, &r.UpdatedAt,
    )
    if err != nil {
        if errors.Is(err, sql.ErrNoRows) {
            return nil, booking.ErrRoomNotFound
        }
        return nil, classify(err)
    }
    return &r, nil
}

// DecrementAvailability reduces the locked row's count.  The WHERE
// guard is a safety net against a decrement that was not validated
// under the lock: zero affected rows means the count would have gone
// negative, which is a caller bug, not a business outcome.
func (t *sqlTx) DecrementAvailability(ctx context.Context, roomID uint64, by int64) error {
    const q = `UPDATE rooms SET availability = availability - ?, updated_at = UTC_TIMESTAMP()
               WHERE id = ? AND availability >= ?`
    res, err := t.tx.ExecContext(ctx, q, by, roomID, by)
    if err != nil {
        return classify(err)
    }
    n, err := res.RowsAffected()
    if err != nil {
        return classify(err)
    }
    if n == 0 {
        return fmt.Errorf("decrement of room %d by %d refused: availability would go negative", roomID, by)
    }
    return nil
}

// InsertBooking appends the ledger row and populates the generated ID.
func (t *sqlTx) InsertBooking(ctx context.Context, b *model.Booking) error {
    const q = `INSERT INTO bookings (user_id, room_id, start_date, end_date) VALUES (?, ?, ?, ?)`
    res, err := t.tx.ExecContext(ctx, q,
        b.UserID, b.RoomID,
        b.StartDate.UTC().Format("2006-01-02"),
        b.EndDate.UTC().Format("2006-01-02"),
    )
    if err != nil {
        return classify(err)
    }
    id, err := res.LastInsertId()
    if err != nil {
        return classify(err)
    }
    b.ID = uint64(id)
    return nil
}

func (t *sqlTx) Commit() error {
    if t.done {
        return sql.ErrTxDone
    }
    t.done = true
    return classify(t.tx.Commit())
}

func (t *sqlTx) Rollback() error {
    if t.done {
        return nil
    }
    t.done = true
    if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
        return err
    }
    return nil
}
