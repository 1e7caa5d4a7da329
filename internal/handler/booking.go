package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/booking"
    "github.com/iliyamo/hotel-room-reservation/internal/model"
    "github.com/iliyamo/hotel-room-reservation/internal/queue"
    "github.com/iliyamo/hotel-room-reservation/internal/repository"
    queue_publisher "github.com/iliyamo/hotel-room-reservation/internal/service"
)

const dateLayout = "2006-01-02"

// Booker decides booking requests.  It is satisfied by
// *booking.Engine; the indirection keeps the handler testable without
// a storage substrate.
type Booker interface {
    Book(ctx context.Context, userID, roomID uint64, start, end time.Time) (*model.Booking, error)
}

// BookingHandler exposes the booking endpoints.  All methods assume
// JWT authentication ran first; the engine receives an
// already-resolved user ID and never a credential.
type BookingHandler struct {
    Engine      Booker
    BookingRepo *repository.BookingRepo
    RoomRepo    *repository.RoomRepo
    HotelRepo   *repository.HotelRepo
}

// NewBookingHandler constructs a BookingHandler and panics if any
// dependency is nil.
func NewBookingHandler(engine Booker, bookingRepo *repository.BookingRepo, roomRepo *repository.RoomRepo, hotelRepo *repository.HotelRepo) *BookingHandler {
    if engine == nil || bookingRepo == nil || roomRepo == nil || hotelRepo == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Engine: engine, BookingRepo: bookingRepo, RoomRepo: roomRepo, HotelRepo: hotelRepo}
}

// CreateBooking handles POST /v1/bookings.  The body must contain a
// room_id and a start_date/end_date pair in YYYY-MM-DD form.  The
// request is decided atomically by the engine; the outcome maps to:
//
//	201 – booked, body carries the ledger record
//	400 – malformed body or end_date not after start_date
//	404 – room does not exist
//	409 – room exists but is sold out (expected outcome, safe to retry later)
//	503 – storage failure after bounded retries (retry with backoff)
func (h *BookingHandler) CreateBooking(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var body struct {
        RoomID    uint64 `json:"room_id"`
        StartDate string `json:"start_date"`
        EndDate   string `json:"end_date"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.RoomID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
    }
    start, err := time.ParseInLocation(dateLayout, body.StartDate, time.UTC)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid start_date, want YYYY-MM-DD"})
    }
    end, err := time.ParseInLocation(dateLayout, body.EndDate, time.UTC)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid end_date, want YYYY-MM-DD"})
    }

    // Bound the transaction: a deadline rolls back and releases the
    // row lock instead of holding it while the client waits.
    ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
    defer cancel()

    b, err := h.Engine.Book(ctx, userID, body.RoomID, start, end)
    if err != nil {
        switch {
        case errors.Is(err, booking.ErrInvalidRange):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "end date must be after start date"})
        case errors.Is(err, booking.ErrRoomNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room not found"})
        case errors.Is(err, booking.ErrNoAvailability):
            return c.JSON(http.StatusConflict, echo.Map{"error": "no rooms available"})
        default:
            return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "booking temporarily unavailable, retry later"})
        }
    }

    h.publishConfirmed(b)

    return c.JSON(http.StatusCreated, echo.Map{
        "booking_id": b.ID,
        "room_id":    b.RoomID,
        "start_date": b.StartDate.Format(dateLayout),
        "end_date":   b.EndDate.Format(dateLayout),
    })
}

// publishConfirmed emits the booking.confirmed event in the
// background.  The booking is already committed; broker or lookup
// trouble is logged by the publisher and never affects the response.
func (h *BookingHandler) publishConfirmed(b *model.Booking) {
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer cancel()

        ev := queue.BookingConfirmedEvent{
            BookingID:   b.ID,
            UserID:      b.UserID,
            RoomID:      b.RoomID,
            StartDate:   b.StartDate.Format(dateLayout),
            EndDate:     b.EndDate.Format(dateLayout),
            ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
        }
        if room, err := h.RoomRepo.GetByID(ctx, b.RoomID); err == nil {
            ev.RoomType = room.RoomType
            ev.PriceCents = room.PriceCents
            if hotel, err := h.HotelRepo.GetByID(ctx, room.HotelID); err == nil {
                ev.HotelID = hotel.ID
                ev.HotelName = hotel.Name
                ev.Destination = hotel.Destination
            }
        }
        _ = queue_publisher.PublishBookingConfirmed(ctx, ev)
    }()
}

// ListMyBookings handles GET /v1/my-bookings.  It returns every ledger
// row of the calling user, newest first.
func (h *BookingHandler) ListMyBookings(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    items, err := h.BookingRepo.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
