package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/hotel-room-reservation/internal/model"
)

// HotelRepo provides read access and catalog administration for the
// hotels table.  Hotels are immutable once created as far as the
// booking engine is concerned; this repository never touches room
// availability.
type HotelRepo struct {
    db *sql.DB
}

// NewHotelRepo returns a HotelRepo bound to the given database.
func NewHotelRepo(db *sql.DB) *HotelRepo { return &HotelRepo{db: db} }

// HotelWithRooms is the search result shape returned to guests: a
// hotel together with its current room inventory.  Availability here
// is a read-committed snapshot and may be stale by the time a booking
// is attempted; only the engine's locked read is authoritative.
type HotelWithRooms struct {
    ID          uint64       `json:"id"`
    Name        string       `json:"name"`
    Destination string       `json:"destination"`
    Rating      uint8        `json:"rating"`
    Rooms       []RoomResult `json:"rooms"`
}

// RoomResult is one room line inside a search result.
type RoomResult struct {
    ID           uint64 `json:"id"`
    RoomType     string `json:"room_type"`
    PriceCents   uint32 `json:"price_cents"`
    Availability int64  `json:"availability"`
}

// SearchByDestination returns all hotels whose destination contains
// the given substring, case-insensitively, each with its rooms.  An
// empty filter matches every hotel.  The query is read-only and runs
// outside any booking transaction.
func (r *HotelRepo) SearchByDestination(ctx context.Context, destination string) ([]HotelWithRooms, error) {
    const q = `SELECT id, name, destination, rating FROM hotels
               WHERE LOWER(destination) LIKE CONCAT('%', LOWER(?), '%')
               ORDER BY rating DESC, name`
    rows, err := r.db.QueryContext(ctx, q, strings.TrimSpace(destination))
    if err != nil {
        return nil, err
    }
    defer rows.Close()

    hotels := make([]HotelWithRooms, 0)
    index := make(map[uint64]int)
    for rows.Next() {
        var h HotelWithRooms
        if err := rows.Scan(&h.ID, &h.Name, &h.Destination, &h.Rating); err != nil {
            return nil, err
        }
        h.Rooms = []RoomResult{}
        index[h.ID] = len(hotels)
        hotels = append(hotels, h)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    if len(hotels) == 0 {
        return hotels, nil
    }

    // Fetch rooms for all matched hotels in one query.
    ids := make([]interface{}, 0, len(hotels))
    placeholders := make([]string, 0, len(hotels))
    for _, h := range hotels {
        ids = append(ids, h.ID)
        placeholders = append(placeholders, "?")
    }
    roomQ := `SELECT id, hotel_id, room_type, price_cents, availability
              FROM rooms
              WHERE hotel_id IN (` + strings.Join(placeholders, ",") + `)
              ORDER BY hotel_id, price_cents`
    rrows, err := r.db.QueryContext(ctx, roomQ, ids...)
    if err != nil {
        return nil, err
    }
    defer rrows.Close()
    for rrows.Next() {
        var rr RoomResult
        var hotelID uint64
        if err := rrows.Scan(&rr.ID, &hotelID, &rr.RoomType, &rr.PriceCents, &rr.Availability); err != nil {
            return nil, err
        }
        if idx, ok := index[hotelID]; ok {
            hotels[idx].Rooms = append(hotels[idx].Rooms, rr)
        }
    }
    if err := rrows.Err(); err != nil {
        return nil, err
    }
    return hotels, nil
}

// GetByID fetches a single hotel.  Returns ErrHotelNotFound when no
// row exists.
func (r *HotelRepo) GetByID(ctx context.Context, hotelID uint64) (model.Hotel, error) {
    const q = `SELECT id, name, destination, rating, created_at FROM hotels WHERE id = ?`
    var h model.Hotel
    err := r.db.QueryRowContext(ctx, q, hotelID).Scan(&h.ID, &h.Name, &h.Destination, &h.Rating, &h.CreatedAt)
    if errors.Is(err, sql.ErrNoRows) {
        return model.Hotel{}, ErrHotelNotFound
    }
    return h, err
}

// Create inserts a hotel and returns its generated ID.
func (r *HotelRepo) Create(ctx context.Context, name, destination string, rating uint8) (uint64, error) {
    const q = `INSERT INTO hotels (name, destination, rating) VALUES (?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, strings.TrimSpace(name), strings.TrimSpace(destination), rating)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}
