package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/model"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenDriver(database.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	_, err = database.Migrate(context.Background(), db, database.DriverSQLite)
	require.NoError(t, err)
	return db
}

func newReservation(code, slug, date, clock string) *model.Reservation {
	return &model.Reservation{
		Code:           code,
		Name:           "Ada Lovelace",
		Email:          "ada@example.com",
		Phone:          "+44 20 7946 0000",
		Guests:         4,
		Date:           date,
		Time:           clock,
		RestaurantSlug: slug,
		CalendarStatus: model.CalendarPending,
	}
}
