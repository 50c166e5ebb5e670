package store_test

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/mauv0809/tournament-importer/internal/database"
	"github.com/mauv0809/tournament-importer/internal/roster"
	"github.com/mauv0809/tournament-importer/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textDateDriver answers every query with one tournament row whose dates are
// text, the way libSQL returns DATE columns.
type textDateDriver struct{}

func (textDateDriver) Open(string) (driver.Conn, error) { return textDateConn{}, nil }

type textDateConn struct{}

func (textDateConn) Prepare(string) (driver.Stmt, error) { return textDateStmt{}, nil }
func (textDateConn) Close() error                        { return nil }
func (textDateConn) Begin() (driver.Tx, error)           { return nil, errors.New("transactions not supported") }

type textDateStmt struct{}

func (textDateStmt) Close() error  { return nil }
func (textDateStmt) NumInput() int { return -1 }
func (textDateStmt) Exec([]driver.Value) (driver.Result, error) {
	return nil, errors.New("read only")
}
func (textDateStmt) Query([]driver.Value) (driver.Rows, error) { return &textDateRows{}, nil }

type textDateRows struct{ done bool }

func (*textDateRows) Columns() []string {
	return []string{"id", "name", "start_date", "end_date", "location", "status", "created_by"}
}
func (*textDateRows) Close() error { return nil }
func (r *textDateRows) Next(dest []driver.Value) error {
	if r.done {
		return io.EOF
	}
	r.done = true
	copy(dest, []driver.Value{"t-1", "UDAAN 2025", "2025-12-25 00:00:00+00:00", []byte("2025-12-26"), "Dehradun", "registration_open", "p-1"})
	return nil
}

func init() {
	sql.Register("textdate", textDateDriver{})
}

func TestFindTournament_TextDates(t *testing.T) {
	raw, err := sql.Open("textdate", "")
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	s := store.New(&database.DB{DB: raw, Dialect: database.LibSQL})
	ctx := context.Background()

	for _, find := range []func() (*roster.Tournament, error){
		func() (*roster.Tournament, error) { return s.FindTournamentByName(ctx, "UDAAN 2025") },
		func() (*roster.Tournament, error) { return s.FindTournamentByID(ctx, "t-1") },
	} {
		tour, err := find()
		require.NoError(t, err)
		assert.Equal(t, "t-1", tour.ID)
		assert.True(t, tour.StartDate.Equal(time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)), "start %s", tour.StartDate)
		assert.True(t, tour.EndDate.Equal(time.Date(2025, 12, 26, 0, 0, 0, 0, time.UTC)), "end %s", tour.EndDate)
	}
}
