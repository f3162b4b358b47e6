package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/bookcatalog/internal/data"
)

var columns = []string{"id", "title", "author", "isbn", "year", "genre", "description", "cover_url", "created_at", "updated_at"}

func newMock(t *testing.T) (data.Models, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return data.NewModels(db), mock
}

func expectInsert(mock sqlmock.Sqlmock, id int64, title string) {
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO books`).
		WithArgs(title, sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(id, now, now))
}

func TestSeed_EmptyTable(t *testing.T) {
	models, mock := newMock(t)

	mock.ExpectQuery(`SELECT (.+) FROM books`).WillReturnRows(sqlmock.NewRows(columns))
	expectInsert(mock, 1, "To Kill a Mockingbird")
	expectInsert(mock, 2, "1984")
	expectInsert(mock, 3, "The Great Gatsby")

	n, err := seed(context.Background(), models, false)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_SkipsWhenPopulated(t *testing.T) {
	models, mock := newMock(t)
	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM books`).WillReturnRows(sqlmock.NewRows(columns).
		AddRow(int64(1), "x", "x", "x", 2000, "x", "x", nil, now, now))

	n, err := seed(context.Background(), models, false)
	require.NoError(t, err)
	assert.Zero(t, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSeed_ForceStopsOnFirstError(t *testing.T) {
	models, mock := newMock(t)

	expectInsert(mock, 10, "To Kill a Mockingbird")
	mock.ExpectQuery(`INSERT INTO books`).WillReturnError(errors.New("connection reset"))

	n, err := seed(context.Background(), models, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"1984"`)
	assert.Equal(t, 1, n)
}

func TestSampleBooksAreComplete(t *testing.T) {
	for _, b := range sampleBooks() {
		assert.NotEmpty(t, b.Title)
		assert.NotEmpty(t, b.Author)
		assert.NotEmpty(t, b.ISBN)
		assert.NotZero(t, b.Year)
		assert.NotEmpty(t, b.Genre)
		assert.NotEmpty(t, b.Description)
		require.NotNil(t, b.CoverURL)
	}
}
