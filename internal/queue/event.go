// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published after a booking transaction
// commits.  It carries enough information for downstream consumers to
// log, notify or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
    BookingID   uint64 `json:"booking_id"`
    UserID      uint64 `json:"user_id"`
    RoomID      uint64 `json:"room_id"`
    RoomType    string `json:"room_type"`
    HotelID     uint64 `json:"hotel_id"`
    HotelName   string `json:"hotel_name"`
    Destination string `json:"destination"`
    StartDate   string `json:"start_date"`
    EndDate     string `json:"end_date"`
    PriceCents  uint32 `json:"price_cents"`
    ConfirmedAt string `json:"confirmed_at"`
}
