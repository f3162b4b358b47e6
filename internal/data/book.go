// Package data provides the data models and database interaction logic
// for the book catalog.
package data

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/aoideee/bookcatalog/internal/validator"
)

// ErrInvalidYear is returned when a year value in a request body is not an integer.
var ErrInvalidYear = errors.New("year must be an integer")

// Book represents a single book record stored in the database.
// It maps directly to a row in the "books" table.
type Book struct {
	ID          int64     `json:"id"`          // Unique identifier assigned by the database
	Title       string    `json:"title"`       // Title of the book
	Author      string    `json:"author"`      // Author's name
	ISBN        string    `json:"isbn"`        // Free-form ISBN, no format check
	Year        int       `json:"year"`        // Year the book was published
	Genre       string    `json:"genre"`       // Free-text genre
	Description string    `json:"description"` // Short description
	CoverURL    *string   `json:"coverUrl"`    // Optional cover image URL (null when absent)
	CreatedAt   time.Time `json:"-"`           // Set by the database on insert
	UpdatedAt   time.Time `json:"-"`           // Refreshed by the database on update
}

// Year is a publication year as sent by clients. It decodes from either a
// JSON number or a numeric string; null and "" decode to zero.
type Year int

// UnmarshalJSON implements json.Unmarshaler.
func (y *Year) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		*y = 0
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return ErrInvalidYear
	}
	*y = Year(n)
	return nil
}

// BookInput holds the fields a client supplies when creating or replacing a book.
// CoverURL is the only optional field.
type BookInput struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	ISBN        string  `json:"isbn"`
	Year        Year    `json:"year"`
	Genre       string  `json:"genre"`
	Description string  `json:"description"`
	CoverURL    *string `json:"coverUrl"`
}

// Book maps the input onto a new, unsaved Book.
func (in BookInput) Book() *Book {
	return &Book{
		Title:       in.Title,
		Author:      in.Author,
		ISBN:        in.ISBN,
		Year:        int(in.Year),
		Genre:       in.Genre,
		Description: in.Description,
		CoverURL:    in.CoverURL,
	}
}

// ValidateBookInput flags every required field that is missing or empty.
func ValidateBookInput(v *validator.Validator, in BookInput) {
	v.Required("title", in.Title)
	v.Required("author", in.Author)
	v.Required("isbn", in.ISBN)
	v.RequiredInt("year", int(in.Year))
	v.Required("genre", in.Genre)
	v.Required("description", in.Description)
}

// sanitized returns a copy of b in storage form.
func (b Book) sanitized() Book {
	b.Title = sanitize(b.Title)
	b.Author = sanitize(b.Author)
	b.ISBN = sanitize(b.ISBN)
	b.Genre = sanitize(b.Genre)
	b.Description = sanitize(b.Description)
	if b.CoverURL != nil {
		cover := sanitize(*b.CoverURL)
		b.CoverURL = &cover
	}
	return b
}

// unescape converts every stored text field back to its readable form.
func (b *Book) unescape() {
	b.Title = unsanitize(b.Title)
	b.Author = unsanitize(b.Author)
	b.ISBN = unsanitize(b.ISBN)
	b.Genre = unsanitize(b.Genre)
	b.Description = unsanitize(b.Description)
	if b.CoverURL != nil {
		cover := unsanitize(*b.CoverURL)
		b.CoverURL = &cover
	}
}

// coverArg returns the cover URL as a statement argument (NULL when absent).
func (b Book) coverArg() any {
	if b.CoverURL == nil {
		return nil
	}
	return *b.CoverURL
}

// BookModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, deleting and searching book records.
type BookModel struct {
	DB *sql.DB // Shared database connection pool
}

const bookColumns = `id, title, author, isbn, year, genre, description, cover_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanBook reads one row selected with bookColumns and returns it in readable form.
func scanBook(row rowScanner) (*Book, error) {
	var (
		book  Book
		cover sql.NullString
	)
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.ISBN,
		&book.Year,
		&book.Genre,
		&book.Description,
		&cover,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if cover.Valid {
		book.CoverURL = &cover.String
	}
	book.unescape()
	return &book, nil
}

// Insert sanitizes and adds a new book record to the database.
// After a successful insert the database-assigned id and timestamps are written
// back into book, and its text fields hold what later reads will return.
func (m BookModel) Insert(ctx context.Context, book *Book) error {
	query := `
		INSERT INTO books (title, author, isbn, year, genre, description, cover_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	stored := book.sanitized()

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := m.DB.QueryRowContext(ctx, query,
		stored.Title,
		stored.Author,
		stored.ISBN,
		stored.Year,
		stored.Genre,
		stored.Description,
		stored.coverArg(),
	).Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		return err
	}

	stored.unescape()
	*book = stored
	return nil
}

// Get retrieves a single book by its primary key.
// Returns ErrRecordNotFound if no book with the given id exists.
func (m BookModel) Get(ctx context.Context, id int64) (*Book, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `SELECT ` + bookColumns + ` FROM books WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	book, err := scanBook(m.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return book, nil
}

// GetAll retrieves every book, newest first. An empty table yields an empty
// slice and no error.
func (m BookModel) GetAll(ctx context.Context) ([]*Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books ORDER BY created_at DESC, id DESC`
	return m.list(ctx, query)
}

// Search returns books whose title, author or genre contains term,
// case-insensitively, newest first.
func (m BookModel) Search(ctx context.Context, term string) ([]*Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE title ILIKE $1 OR author ILIKE $1 OR genre ILIKE $1
		ORDER BY created_at DESC, id DESC`
	return m.list(ctx, query, searchPattern(term))
}

func (m BookModel) list(ctx context.Context, query string, args ...any) ([]*Book, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	rows, err := m.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, book)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// Update overwrites every field of the book identified by book.ID.
// Returns ErrRecordNotFound when no row matches; on success book holds the
// stored values in readable form and the refreshed timestamps.
func (m BookModel) Update(ctx context.Context, book *Book) error {
	if book.ID < 1 {
		return ErrRecordNotFound
	}

	query := `
		UPDATE books
		SET title = $1, author = $2, isbn = $3, year = $4, genre = $5,
		    description = $6, cover_url = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING created_at, updated_at`

	stored := book.sanitized()

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := m.DB.QueryRowContext(ctx, query,
		stored.Title,
		stored.Author,
		stored.ISBN,
		stored.Year,
		stored.Genre,
		stored.Description,
		stored.coverArg(),
		stored.ID,
	).Scan(&stored.CreatedAt, &stored.UpdatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return ErrRecordNotFound
		default:
			return err
		}
	}

	stored.unescape()
	*book = stored
	return nil
}

// Delete removes the book with the given id from the database.
// Returns ErrRecordNotFound if no matching record exists.
func (m BookModel) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	query := `DELETE FROM books WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := m.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}

	return nil
}
