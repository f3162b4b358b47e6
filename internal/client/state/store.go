// Package state keeps a local snapshot of the catalog and tracks the progress
// of each operation issued through the API client.
package state

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/aoideee/bookcatalog/internal/client"
)

// Gateway is the subset of *client.Client the store depends on.
type Gateway interface {
	ListBooks(ctx context.Context) ([]client.Book, error)
	CreateBook(ctx context.Context, in client.BookInput) (*client.Book, error)
	UpdateBook(ctx context.Context, id int64, in client.BookInput) (*client.Book, error)
	DeleteBook(ctx context.Context, id int64) error
	SearchBooks(ctx context.Context, q string) ([]client.Book, error)
}

// Status is the progress of one operation. Err is a short message meant for
// display; the underlying error is returned to the caller instead.
type Status struct {
	Loading bool
	Err     string
}

const (
	OpLoad   = "load"
	OpCreate = "create"
	OpSearch = "search"
)

func OpUpdate(id int64) string { return "update:" + strconv.FormatInt(id, 10) }
func OpDelete(id int64) string { return "delete:" + strconv.FormatInt(id, 10) }

type Store struct {
	gw Gateway

	mu    sync.RWMutex
	books []client.Book
	slots map[string]Status
}

func New(gw Gateway) *Store {
	return &Store{
		gw:    gw,
		books: []client.Book{},
		slots: make(map[string]Status),
	}
}

func (s *Store) begin(op string) {
	s.mu.Lock()
	s.slots[op] = Status{Loading: true}
	s.mu.Unlock()
}

// finish must be called with s.mu held.
func (s *Store) finish(op string, err error, message string) {
	st := Status{}
	if err != nil {
		st.Err = message
	}
	s.slots[op] = st
}

// Load replaces the snapshot with the server's list. The snapshot is left
// untouched on failure.
func (s *Store) Load(ctx context.Context) error {
	s.begin(OpLoad)
	books, err := s.gw.ListBooks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		s.books = slices.Clone(books)
	}
	s.finish(OpLoad, err, "Failed to load books")
	return err
}

// Add creates a book and appends the server's record to the snapshot.
func (s *Store) Add(ctx context.Context, in client.BookInput) (*client.Book, error) {
	s.begin(OpCreate)
	book, err := s.gw.CreateBook(ctx, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil && book != nil {
		s.books = append(s.books, *book)
	}
	s.finish(OpCreate, err, "Failed to add book")
	if err != nil {
		return nil, err
	}
	return book, nil
}

// Update sends the new values and replaces the local copy. It reports
// whether the book was present in the snapshot.
func (s *Store) Update(ctx context.Context, id int64, in client.BookInput) (bool, error) {
	op := OpUpdate(id)
	s.begin(op)
	book, err := s.gw.UpdateBook(ctx, id, in)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.finish(op, err, "Failed to update book")
	if err != nil {
		return false, err
	}
	i := s.indexOf(id)
	if i < 0 || book == nil {
		return false, nil
	}
	s.books[i] = *book
	return true, nil
}

// Delete removes the book on the server and from the snapshot. It reports
// whether the book was present in the snapshot.
func (s *Store) Delete(ctx context.Context, id int64) (bool, error) {
	op := OpDelete(id)
	s.begin(op)
	err := s.gw.DeleteBook(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.finish(op, err, "Failed to delete book")
	if err != nil {
		return false, err
	}
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.books = slices.Delete(s.books, i, i+1)
	return true, nil
}

// Search asks the server for matches. A blank query returns the snapshot
// without a call. When the server call fails, Search returns matches from
// the snapshot along with the error.
func (s *Store) Search(ctx context.Context, q string) ([]client.Book, error) {
	if strings.TrimSpace(q) == "" {
		return s.Books(), nil
	}

	s.begin(OpSearch)
	books, err := s.gw.SearchBooks(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.finish(OpSearch, err, "Failed to search books")
	if err != nil {
		return s.localMatches(q), err
	}
	return books, nil
}

func (s *Store) localMatches(q string) []client.Book {
	q = strings.ToLower(q)
	out := []client.Book{}
	for _, b := range s.books {
		if strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) ||
			strings.Contains(strings.ToLower(b.Genre), q) {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.books, func(b client.Book) bool { return b.ID == id })
}

// Books returns a copy of the snapshot.
func (s *Store) Books() []client.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.books)
}

func (s *Store) Book(id int64) (client.Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.books[i], true
	}
	return client.Book{}, false
}

func (s *Store) Total() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.books)
}

// Genres lists distinct genres in the order they first appear.
func (s *Store) Genres() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]bool)
	out := []string{}
	for _, b := range s.books {
		if !seen[b.Genre] {
			seen[b.Genre] = true
			out = append(out, b.Genre)
		}
	}
	return out
}

func (s *Store) ByGenre(genre string) []client.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []client.Book{}
	for _, b := range s.books {
		if b.Genre == genre {
			out = append(out, b)
		}
	}
	return out
}

// Status returns the slot for op. Unknown ops report the zero Status.
func (s *Store) Status(op string) Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slots[op]
}

// Loading reports whether any operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.slots {
		if st.Loading {
			return true
		}
	}
	return false
}

// Errors returns the error message of every slot that has one.
func (s *Store) Errors() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string)
	for op, st := range s.slots {
		if st.Err != "" {
			out[op] = st.Err
		}
	}
	return out
}
