package model

import "time"

// Hotel represents a bookable property in a destination.  A hotel
// owns zero or more rooms and is immutable as far as the booking
// engine is concerned: only the catalog administration endpoints
// create hotels, and nothing updates them afterwards.  This struct
// corresponds to a row in the `hotels` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the hotel.
//  Destination – city or region used for searching.
//  Rating      – star rating (1–5).
//  CreatedAt   – timestamp when the hotel was created.
type Hotel struct {
    ID          uint64    // hotels.id
    Name        string    // hotels.name
    Destination string    // hotels.destination
    Rating      uint8     // hotels.rating
    CreatedAt   time.Time // hotels.created_at
}
