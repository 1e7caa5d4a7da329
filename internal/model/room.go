package model

import "time"

// Room is one bookable inventory line of a hotel: a room type with a
// finite number of units left.  Availability is the invariant-bearing
// field; it is decremented exclusively inside a booking transaction
// while the row is locked, and must never go below zero.  This struct
// corresponds to a row in the `rooms` table.
//
// Fields:
//  ID           – primary key identifier.
//  HotelID      – hotel to which this room belongs.
//  RoomType     – opaque category label (e.g. "double", "suite").
//  PriceCents   – price per night in cents.
//  Availability – number of units still bookable.
//  CreatedAt    – timestamp when the room was created.
//  UpdatedAt    – timestamp of last availability change.
type Room struct {
    ID           uint64    // rooms.id
    HotelID      uint64    // rooms.hotel_id
    RoomType     string    // rooms.room_type
    PriceCents   uint32    // rooms.price_cents
    Availability int64     // rooms.availability
    CreatedAt    time.Time // rooms.created_at
    UpdatedAt    time.Time // rooms.updated_at
}
