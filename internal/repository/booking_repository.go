package repository

import (
    "context"
    "database/sql"
    "time"
)

// BookingRepo provides read access to the bookings ledger.  The ledger
// is append-only and written exclusively by the booking engine; this
// repository exposes no insert, update or delete.
type BookingRepo struct {
    db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookingDetail is a ledger row joined with its room and hotel for
// display to the customer who made it.
type BookingDetail struct {
    ID         uint64 `json:"id"`
    RoomID     uint64 `json:"room_id"`
    RoomType   string `json:"room_type"`
    HotelID    uint64 `json:"hotel_id"`
    HotelName  string `json:"hotel_name"`
    StartDate  string `json:"start_date"`
    EndDate    string `json:"end_date"`
    PriceCents uint32 `json:"price_cents"`
}

// ListByUser returns all bookings made by the given user, newest
// first.  When no bookings exist, an empty slice is returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]BookingDetail, error) {
    const q = `SELECT b.id, b.room_id, r.room_type, h.id, h.name, b.start_date, b.end_date, r.price_cents
               FROM bookings b
               JOIN rooms r ON r.id = b.room_id
               JOIN hotels h ON h.id = r.hotel_id
               WHERE b.user_id = ?
               ORDER BY b.created_at DESC, b.id DESC`
    rows, err := r.db.QueryContext(ctx, q, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]BookingDetail, 0)
    for rows.Next() {
        var d BookingDetail
        var start, end time.Time
        if err := rows.Scan(&d.ID, &d.RoomID, &d.RoomType, &d.HotelID, &d.HotelName, &start, &end, &d.PriceCents); err != nil {
            return nil, err
        }
        d.StartDate = start.UTC().Format("2006-01-02")
        d.EndDate = end.UTC().Format("2006-01-02")
        out = append(out, d)
    }
    return out, rows.Err()
}

// CountByRoom returns the number of ledger rows referencing one room.
// Together with the room's availability this lets operators audit the
// engine's invariant: availability == initial − count(bookings).
func (r *BookingRepo) CountByRoom(ctx context.Context, roomID uint64) (int64, error) {
    var n int64
    err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookings WHERE room_id = ?`, roomID).Scan(&n)
    if err != nil && err != sql.ErrNoRows {
        return 0, err
    }
    return n, nil
}
