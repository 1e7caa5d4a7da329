// Package repository implements the read paths and catalog
// administration queries of the service on database/sql.  The booking
// write path does not live here: availability decrements and ledger
// inserts belong exclusively to the engine in internal/booking and its
// store implementations.  Sentinel values below let handlers map
// repository failures to HTTP responses without string matching.
package repository

import "errors"

// ErrHotelNotFound is returned when a referenced hotel does not exist.
// Handlers should translate this into an HTTP 404 response.
var ErrHotelNotFound = errors.New("hotel not found")

// ErrEmailExists is returned when registering with an email address
// that is already taken.  Handlers should translate this into an
// HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")
