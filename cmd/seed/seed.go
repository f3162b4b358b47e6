package main

import (
	"context"
	"fmt"

	"github.com/aoideee/bookcatalog/internal/data"
)

func cover(s string) *string { return &s }

func sampleBooks() []data.Book {
	return []data.Book{
		{
			Title:       "To Kill a Mockingbird",
			Author:      "Harper Lee",
			ISBN:        "978-0-06-112008-4",
			Year:        1960,
			Genre:       "Fiction",
			Description: "A gripping tale of racial injustice and childhood innocence in the American South.",
			CoverURL:    cover("https://via.placeholder.com/150/4A90E2/FFFFFF?text=Book+1"),
		},
		{
			Title:       "1984",
			Author:      "George Orwell",
			ISBN:        "978-0-452-28423-4",
			Year:        1949,
			Genre:       "Dystopian",
			Description: "A dystopian social science fiction novel and cautionary tale about totalitarianism.",
			CoverURL:    cover("https://via.placeholder.com/150/E94B3C/FFFFFF?text=Book+2"),
		},
		{
			Title:       "The Great Gatsby",
			Author:      "F. Scott Fitzgerald",
			ISBN:        "978-0-7432-7356-5",
			Year:        1925,
			Genre:       "Classic",
			Description: "A story of decadence and excess in the Jazz Age.",
			CoverURL:    cover("https://via.placeholder.com/150/6FCC76/FFFFFF?text=Book+3"),
		},
	}
}

// seed inserts the sample books unless the table already has rows and force
// is false. It returns the number of books inserted.
func seed(ctx context.Context, models data.Models, force bool) (int, error) {
	if !force {
		existing, err := models.Books.GetAll(ctx)
		if err != nil {
			return 0, err
		}
		if len(existing) > 0 {
			return 0, nil
		}
	}

	n := 0
	for _, b := range sampleBooks() {
		book := b
		if err := models.Books.Insert(ctx, &book); err != nil {
			return n, fmt.Errorf("insert %q: %w", b.Title, err)
		}
		n++
	}
	return n, nil
}
