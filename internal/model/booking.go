package model

import "time"

// Booking records one accepted reservation of a single room unit for a
// date range.  Rows are append-only: a booking is created as the final
// step of a successful booking transaction and never updated or
// deleted afterwards.  This struct corresponds to a row in the
// `bookings` table.
//
// Fields:
//  ID        – primary key identifier (assigned by the database).
//  UserID    – user who made the booking.
//  RoomID    – room that was booked.
//  StartDate – first night of the stay (UTC date).
//  EndDate   – checkout date; strictly after StartDate.
//  CreatedAt – timestamp when the booking was committed.
type Booking struct {
    ID        uint64    // bookings.id
    UserID    uint64    // bookings.user_id
    RoomID    uint64    // bookings.room_id
    StartDate time.Time // bookings.start_date
    EndDate   time.Time // bookings.end_date
    CreatedAt time.Time // bookings.created_at
}
