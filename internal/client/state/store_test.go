package state

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/bookcatalog/internal/client"
)

var errDown = errors.New("connection refused")

type fakeGateway struct {
	mu       sync.Mutex
	books    []client.Book
	nextID   int64
	err      error
	failFor  map[int64]error
	block    map[int64]chan struct{}
	searched []string
}

func (f *fakeGateway) ListBooks(context.Context) ([]client.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]client.Book{}, f.books...), nil
}

func (f *fakeGateway) CreateBook(_ context.Context, in client.BookInput) (*client.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	b := client.Book{ID: f.nextID, Title: in.Title, Author: in.Author, Genre: in.Genre, Year: in.Year}
	f.books = append(f.books, b)
	return &b, nil
}

func (f *fakeGateway) UpdateBook(_ context.Context, id int64, in client.BookInput) (*client.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return &client.Book{ID: id, Title: in.Title, Author: in.Author, Genre: in.Genre, Year: in.Year}, nil
}

func (f *fakeGateway) DeleteBook(_ context.Context, id int64) error {
	f.mu.Lock()
	ch := f.block[id]
	err := f.failFor[id]
	if err == nil {
		err = f.err
	}
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}
	return err
}

func (f *fakeGateway) SearchBooks(_ context.Context, q string) ([]client.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searched = append(f.searched, q)
	if f.err != nil {
		return nil, f.err
	}
	return []client.Book{{ID: 99, Title: "from server"}}, nil
}

func sampleBooks() []client.Book {
	return []client.Book{
		{ID: 1, Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Fiction"},
		{ID: 2, Title: "1984", Author: "George Orwell", Genre: "Dystopian"},
		{ID: 3, Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Classic"},
		{ID: 4, Title: "Brave New World", Author: "Aldous Huxley", Genre: "Dystopian"},
	}
}

func loaded(t *testing.T) (*Store, *fakeGateway) {
	t.Helper()
	gw := &fakeGateway{books: sampleBooks(), nextID: 4}
	s := New(gw)
	require.NoError(t, s.Load(context.Background()))
	return s, gw
}

func TestLoad(t *testing.T) {
	s, _ := loaded(t)

	assert.Equal(t, 4, s.Total())
	assert.Equal(t, []string{"Fiction", "Dystopian", "Classic"}, s.Genres())
	assert.Len(t, s.ByGenre("Dystopian"), 2)
	assert.Empty(t, s.ByGenre("Poetry"))
	assert.Equal(t, Status{}, s.Status(OpLoad))

	b, ok := s.Book(2)
	require.True(t, ok)
	assert.Equal(t, "1984", b.Title)

	_, ok = s.Book(42)
	assert.False(t, ok)
}

func TestLoad_FailureKeepsSnapshot(t *testing.T) {
	s, gw := loaded(t)
	gw.err = errDown

	err := s.Load(context.Background())
	require.ErrorIs(t, err, errDown)
	assert.Equal(t, 4, s.Total())
	assert.Equal(t, Status{Err: "Failed to load books"}, s.Status(OpLoad))
	assert.False(t, s.Loading())
}

func TestAdd(t *testing.T) {
	s, gw := loaded(t)

	b, err := s.Add(context.Background(), client.BookInput{Title: "Dune", Genre: "Science Fiction"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), b.ID)
	assert.Equal(t, 5, s.Total())
	assert.Equal(t, "Science Fiction", s.Genres()[3])

	gw.err = errDown
	b, err = s.Add(context.Background(), client.BookInput{Title: "Nope"})
	require.Error(t, err)
	assert.Nil(t, b)
	assert.Equal(t, 5, s.Total())
	assert.Equal(t, "Failed to add book", s.Status(OpCreate).Err)
}

func TestUpdate(t *testing.T) {
	s, gw := loaded(t)

	ok, err := s.Update(context.Background(), 2, client.BookInput{Title: "Nineteen Eighty-Four", Genre: "Dystopian"})
	require.NoError(t, err)
	assert.True(t, ok)
	b, _ := s.Book(2)
	assert.Equal(t, "Nineteen Eighty-Four", b.Title)

	ok, err = s.Update(context.Background(), 77, client.BookInput{Title: "x"})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 4, s.Total())

	gw.err = errDown
	ok, err = s.Update(context.Background(), 3, client.BookInput{Title: "y"})
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Failed to update book", s.Status(OpUpdate(3)).Err)
	assert.Equal(t, Status{}, s.Status(OpUpdate(2)))
}

func TestDelete(t *testing.T) {
	s, gw := loaded(t)

	ok, err := s.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 3, s.Total())
	assert.Equal(t, []string{"Dystopian", "Classic"}, s.Genres())

	ok, err = s.Delete(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, ok)

	gw.err = errDown
	ok, err = s.Delete(context.Background(), 2)
	require.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, 3, s.Total())
}

func TestSearch(t *testing.T) {
	t.Run("blank query returns the snapshot without a call", func(t *testing.T) {
		s, gw := loaded(t)

		books, err := s.Search(context.Background(), "   ")
		require.NoError(t, err)
		assert.Len(t, books, 4)
		assert.Empty(t, gw.searched)
	})

	t.Run("server results", func(t *testing.T) {
		s, gw := loaded(t)

		books, err := s.Search(context.Background(), "orwell")
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, int64(99), books[0].ID)
		assert.Equal(t, []string{"orwell"}, gw.searched)
	})

	t.Run("falls back to local matching", func(t *testing.T) {
		s, gw := loaded(t)
		gw.err = errDown

		books, err := s.Search(context.Background(), "DYSTOP")
		require.ErrorIs(t, err, errDown)
		require.Len(t, books, 2)
		assert.Equal(t, int64(2), books[0].ID)
		assert.Equal(t, int64(4), books[1].ID)
		assert.Equal(t, "Failed to search books", s.Status(OpSearch).Err)

		books, _ = s.Search(context.Background(), "fitzgerald")
		require.Len(t, books, 1)
		assert.Equal(t, "The Great Gatsby", books[0].Title)
	})
}

func TestConcurrentOperationsKeepSeparateSlots(t *testing.T) {
	s, gw := loaded(t)

	release := make(chan struct{})
	gw.failFor = map[int64]error{2: errDown}
	gw.block = map[int64]chan struct{}{3: release}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := s.Delete(context.Background(), 3)
		assert.NoError(t, err)
	}()

	require.Eventually(t, func() bool { return s.Status(OpDelete(3)).Loading }, time.Second, time.Millisecond)

	_, err := s.Delete(context.Background(), 2)
	require.Error(t, err)

	assert.Equal(t, Status{Err: "Failed to delete book"}, s.Status(OpDelete(2)))
	assert.Equal(t, Status{Loading: true}, s.Status(OpDelete(3)))
	assert.True(t, s.Loading())

	close(release)
	<-done

	assert.Equal(t, Status{}, s.Status(OpDelete(3)))
	assert.Equal(t, Status{Err: "Failed to delete book"}, s.Status(OpDelete(2)))
	assert.False(t, s.Loading())
	assert.Equal(t, map[string]string{"delete:2": "Failed to delete book"}, s.Errors())

	_, ok := s.Book(3)
	assert.False(t, ok)
	_, ok = s.Book(2)
	assert.True(t, ok)
}
