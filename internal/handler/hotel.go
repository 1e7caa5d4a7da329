package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-room-reservation/internal/repository"
)

// HotelHandler serves the catalog: public destination search and the
// owner-only endpoints that create hotels and rooms.  Room
// availability shown here is a snapshot; the booking engine is the
// only component that changes it.
type HotelHandler struct {
    HotelRepo   *repository.HotelRepo
    RoomRepo    *repository.RoomRepo
    BookingRepo *repository.BookingRepo
}

// NewHotelHandler constructs a HotelHandler and panics if any
// dependency is nil.
func NewHotelHandler(hotelRepo *repository.HotelRepo, roomRepo *repository.RoomRepo, bookingRepo *repository.BookingRepo) *HotelHandler {
    if hotelRepo == nil || roomRepo == nil || bookingRepo == nil {
        panic("nil repository passed to NewHotelHandler")
    }
    return &HotelHandler{HotelRepo: hotelRepo, RoomRepo: roomRepo, BookingRepo: bookingRepo}
}

// SearchHotels handles GET /v1/hotels?destination=paris.  It returns
// hotels whose destination contains the query substring
// (case-insensitive) along with their rooms.  An empty query lists
// every hotel.
func (h *HotelHandler) SearchHotels(c echo.Context) error {
    destination := c.QueryParam("destination")
    hotels, err := h.HotelRepo.SearchByDestination(c.Request().Context(), destination)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "search failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": hotels})
}

// CreateHotel handles POST /v1/hotels (OWNER role).  The body must
// contain name, destination and a rating between 1 and 5.
func (h *HotelHandler) CreateHotel(c echo.Context) error {
    var body struct {
        Name        string `json:"name"`
        Destination string `json:"destination"`
        Rating      uint8  `json:"rating"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Name = strings.TrimSpace(body.Name)
    body.Destination = strings.TrimSpace(body.Destination)
    if body.Name == "" || body.Destination == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and destination are required"})
    }
    if body.Rating < 1 || body.Rating > 5 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be between 1 and 5"})
    }
    id, err := h.HotelRepo.Create(c.Request().Context(), body.Name, body.Destination, body.Rating)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hotel failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// AddRoom handles POST /v1/hotels/:id/rooms (OWNER role).  It loads a
// room type with its initial availability into the catalog.  After
// this point the availability counter belongs to the booking engine.
func (h *HotelHandler) AddRoom(c echo.Context) error {
    hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || hotelID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    var body struct {
        RoomType     string `json:"room_type"`
        PriceCents   uint32 `json:"price_cents"`
        Availability int64  `json:"availability"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.RoomType = strings.TrimSpace(body.RoomType)
    if body.RoomType == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_type is required"})
    }
    if body.Availability < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "availability must not be negative"})
    }

    ctx := c.Request().Context()
    if _, err := h.HotelRepo.GetByID(ctx, hotelID); err != nil {
        if errors.Is(err, repository.ErrHotelNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    id, err := h.RoomRepo.Create(ctx, hotelID, body.RoomType, body.PriceCents, body.Availability)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// ListRooms handles GET /v1/hotels/:id/rooms.  It returns the rooms of
// one hotel with their booked counts so operators can audit the
// engine's invariant (availability == initial − booked).
func (h *HotelHandler) ListRooms(c echo.Context) error {
    hotelID, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil || hotelID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hotel id"})
    }
    ctx := c.Request().Context()
    if _, err := h.HotelRepo.GetByID(ctx, hotelID); err != nil {
        if errors.Is(err, repository.ErrHotelNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "hotel not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    rooms, err := h.RoomRepo.ListByHotel(ctx, hotelID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list rooms failed"})
    }

    type roomView struct {
        ID           uint64 `json:"id"`
        RoomType     string `json:"room_type"`
        PriceCents   uint32 `json:"price_cents"`
        Availability int64  `json:"availability"`
        Booked       int64  `json:"booked"`
    }
    items := make([]roomView, 0, len(rooms))
    for _, r := range rooms {
        booked, err := h.BookingRepo.CountByRoom(ctx, r.ID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "count bookings failed"})
        }
        items = append(items, roomView{
            ID:           r.ID,
            RoomType:     r.RoomType,
            PriceCents:   r.PriceCents,
            Availability: r.Availability,
            Booked:       booked,
        })
    }
    return c.JSON(http.StatusOK, echo.Map{"items": items})
}
