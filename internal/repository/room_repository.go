package repository

import (
    "context"
    "database/sql"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// RoomRepo provides catalog administration and read access for the
// rooms table.  It deliberately exposes no way to change availability:
// the counter is owned by the booking engine and only ever moves
// inside a locked booking transaction.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// Create inserts a room under a hotel with its initial availability
// and returns the generated ID.  Used by the catalog load path only.
func (r *RoomRepo) Create(ctx context.Context, hotelID uint64, roomType string, priceCents uint32, availability int64) (uint64, error) {
    const q = `INSERT INTO rooms (hotel_id, room_type, price_cents, availability) VALUES (?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, hotelID, roomType, priceCents, availability)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByID fetches one room.  Plain read-committed lookup; the locked
// variant used for booking lives in the mysql store.
func (r *RoomRepo) GetByID(ctx context.Context, roomID uint64) (model.Room, error) {
    const q = `SELECT id, hotel_id, room_type, price_cents, availability, created_at, updated_at
               FROM rooms WHERE id = ?`
    var m model.Room
    err := r.db.QueryRowContext(ctx, q, roomID).Scan(
        &m.ID, &m.HotelID, &m.RoomType, &m.PriceCents, &m.Availability, &m.CreatedAt, &m.UpdatedAt)
    return m, err
}

// ListByHotel returns all rooms of one hotel ordered by price.
func (r *RoomRepo) ListByHotel(ctx context.Context, hotelID uint64) ([]model.Room, error) {
    const q = `SELECT id, hotel_id, room_type, price_cents, availability, created_at, updated_at
               FROM rooms WHERE hotel_id = ? ORDER BY price_cents`
    rows, err := r.db.QueryContext(ctx, q, hotelID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Room, 0)
    for rows.Next() {
        var m model.Room
        if err := rows.Scan(&m.ID, &m.HotelID, &m.RoomType, &m.PriceCents, &m.Availability, &m.CreatedAt, &m.UpdatedAt); err != nil {
            return nil, err
        }
        out = append(out, m)
    }
    return out, rows.Err()
}
