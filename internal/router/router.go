package router // package router wires HTTP routes to their handlers and middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/hotel-room-reservation/internal/config"
	"github.com/iliyamo/hotel-room-reservation/internal/handler"
	"github.com/iliyamo/hotel-room-reservation/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
// Currently it exposes only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the identity endpoints.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterHotels registers the catalog routes.  Destination search and
// room listing are public (search responses are served through the
// Redis cache); hotel and room creation require the OWNER role.
func RegisterHotels(e *echo.Echo, h *handler.HotelHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	cache := middleware.NewRedisCache(cacheCfg, rdb)
	e.GET("/v1/hotels", h.SearchHotels, cache)
	e.GET("/v1/hotels/:id/rooms", h.ListRooms)

	owner := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("OWNER"),
	)
	owner.POST("/hotels", h.CreateHotel)
	owner.POST("/hotels/:id/rooms", h.AddRoom)
}

// RegisterBookings registers the booking routes.  Both roles may book;
// the create endpoint additionally sits behind the distributed rate
// limiter since it is the contended write path of the service.
func RegisterBookings(e *echo.Echo, h *handler.BookingHandler, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "OWNER"),
	)
	g.POST("/bookings", h.CreateBooking, middleware.NewTokenBucket(rlCfg, rdb))
	g.GET("/my-bookings", h.ListMyBookings)
}
