package repository

import (
    "context"
    "testing"

    sqlmock "github.com/DATA-DOG/go-sqlmock"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

const (
    searchHotelsPattern = `SELECT id, name, destination, rating FROM hotels\s+WHERE LOWER\(destination\) LIKE CONCAT\('%', LOWER\(\?\), '%'\)\s+ORDER BY rating DESC, name`
    searchRoomsPattern  = `SELECT id, hotel_id, room_type, price_cents, availability\s+FROM rooms\s+WHERE hotel_id IN \((\?,?)+\)\s+ORDER BY hotel_id, price_cents`
)

func newHotelRepo(t *testing.T) (*HotelRepo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock, err := sqlmock.New()
    require.NoError(t, err)
    t.Cleanup(func() {
        assert.NoError(t, mock.ExpectationsWereMet())
        db.Close()
    })
    return NewHotelRepo(db), mock
}

func TestSearchByDestinationGroupsRooms(t *testing.T) {
    repo, mock := newHotelRepo(t)

    mock.ExpectQuery(searchHotelsPattern).
        WithArgs("paris").
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "destination", "rating"}).
            AddRow(1, "Hotel Lumiere", "Paris", 5).
            AddRow(2, "Gare Nord Inn", "Paris", 3))
    mock.ExpectQuery(searchRoomsPattern).
        WithArgs(uint64(1), uint64(2)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "hotel_id", "room_type", "price_cents", "availability"}).
            AddRow(10, 1, "double", 18000, 4).
            AddRow(11, 1, "suite", 42000, 1).
            AddRow(20, 2, "single", 9000, 0))

    hotels, err := repo.SearchByDestination(context.Background(), "  paris ")
    require.NoError(t, err)
    require.Len(t, hotels, 2)

    assert.Equal(t, "Hotel Lumiere", hotels[0].Name)
    require.Len(t, hotels[0].Rooms, 2)
    assert.Equal(t, "double", hotels[0].Rooms[0].RoomType)
    assert.Equal(t, uint32(18000), hotels[0].Rooms[0].PriceCents)

    require.Len(t, hotels[1].Rooms, 1)
    assert.Equal(t, int64(0), hotels[1].Rooms[0].Availability)
}

func TestSearchByDestinationNoMatches(t *testing.T) {
    repo, mock := newHotelRepo(t)

    mock.ExpectQuery(searchHotelsPattern).
        WithArgs("atlantis").
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "destination", "rating"}))

    hotels, err := repo.SearchByDestination(context.Background(), "atlantis")
    require.NoError(t, err)
    // Empty, not nil: the handler serializes this as [] rather than null.
    require.NotNil(t, hotels)
    assert.Empty(t, hotels)
}

func TestHotelGetByIDNotFound(t *testing.T) {
    repo, mock := newHotelRepo(t)

    mock.ExpectQuery(`SELECT id, name, destination, rating, created_at FROM hotels WHERE id = \?`).
        WithArgs(uint64(99)).
        WillReturnRows(sqlmock.NewRows([]string{"id", "name", "destination", "rating", "created_at"}))

    _, err := repo.GetByID(context.Background(), 99)
    assert.ErrorIs(t, err, ErrHotelNotFound)
}

func TestHotelCreateReturnsID(t *testing.T) {
    repo, mock := newHotelRepo(t)

    mock.ExpectExec(`INSERT INTO hotels \(name, destination, rating\) VALUES \(\?, \?, \?\)`).
        WithArgs("Hotel Lumiere", "Paris", uint8(5)).
        WillReturnResult(sqlmock.NewResult(7, 1))

    id, err := repo.Create(context.Background(), " Hotel Lumiere ", " Paris ", 5)
    require.NoError(t, err)
    assert.Equal(t, uint64(7), id)
}
