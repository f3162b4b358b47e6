package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aoideee/bookcatalog/internal/client"
	"github.com/aoideee/bookcatalog/internal/client/state"
)

type cli struct {
	client *client.Client
	store  *state.Store
	out    io.Writer
	errOut io.Writer
	// table selects aligned columns with a header; otherwise rows are
	// tab-separated for scripts.
	table bool
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "list":
		return c.list(ctx)
	case "get":
		return c.get(ctx, args)
	case "add":
		return c.add(ctx, args)
	case "update":
		return c.update(ctx, args)
	case "delete":
		return c.delete(ctx, args)
	case "search":
		return c.search(ctx, args)
	case "genres":
		return c.genres(ctx)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func (c *cli) list(ctx context.Context) error {
	if err := c.store.Load(ctx); err != nil {
		return err
	}
	return c.printBooks(c.store.Books())
}

func (c *cli) get(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	book, err := c.client.GetBook(ctx, id)
	if err != nil {
		if client.IsNotFound(err) {
			return fmt.Errorf("book %d not found", id)
		}
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%d\n", book.ID)
	fmt.Fprintf(tw, "Title:\t%s\n", book.Title)
	fmt.Fprintf(tw, "Author:\t%s\n", book.Author)
	fmt.Fprintf(tw, "ISBN:\t%s\n", book.ISBN)
	fmt.Fprintf(tw, "Year:\t%d\n", book.Year)
	fmt.Fprintf(tw, "Genre:\t%s\n", book.Genre)
	fmt.Fprintf(tw, "Description:\t%s\n", book.Description)
	if book.CoverURL != "" {
		fmt.Fprintf(tw, "Cover:\t%s\n", book.CoverURL)
	}
	return tw.Flush()
}

func (c *cli) add(ctx context.Context, args []string) error {
	in, err := parseBookInput("add", args)
	if err != nil {
		return err
	}
	book, err := c.store.Add(ctx, in)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "created book %d\n", book.ID)
	return nil
}

func (c *cli) update(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	in, err := parseBookInput("update", args[1:])
	if err != nil {
		return err
	}
	if _, err := c.store.Update(ctx, id, in); err != nil {
		if client.IsNotFound(err) {
			return fmt.Errorf("book %d not found", id)
		}
		return err
	}
	fmt.Fprintf(c.out, "updated book %d\n", id)
	return nil
}

func (c *cli) delete(ctx context.Context, args []string) error {
	id, err := parseID(args)
	if err != nil {
		return err
	}
	if _, err := c.store.Delete(ctx, id); err != nil {
		if client.IsNotFound(err) {
			return fmt.Errorf("book %d not found", id)
		}
		return err
	}
	fmt.Fprintf(c.out, "deleted book %d\n", id)
	return nil
}

// search falls back to matching the local snapshot when the server search
// fails but the list could still be loaded.
func (c *cli) search(ctx context.Context, args []string) error {
	q := strings.Join(args, " ")
	if strings.TrimSpace(q) == "" {
		return fmt.Errorf("%w: search needs a term", errUsage)
	}

	loadErr := c.store.Load(ctx)
	books, err := c.store.Search(ctx, q)
	if err != nil {
		if loadErr != nil {
			return err
		}
		fmt.Fprintf(c.errOut, "search failed (%s), showing local matches\n", c.store.Status(state.OpSearch).Err)
	}
	return c.printBooks(books)
}

func (c *cli) genres(ctx context.Context) error {
	if err := c.store.Load(ctx); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	if c.table {
		fmt.Fprintln(tw, "GENRE\tBOOKS")
	}
	for _, g := range c.store.Genres() {
		fmt.Fprintf(tw, "%s\t%d\n", g, len(c.store.ByGenre(g)))
	}
	return tw.Flush()
}

func (c *cli) printBooks(books []client.Book) error {
	if len(books) == 0 {
		if c.table {
			fmt.Fprintln(c.out, "no books")
		}
		return nil
	}

	var w io.Writer = c.out
	var tw *tabwriter.Writer
	if c.table {
		tw = tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
		w = tw
		fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tYEAR\tGENRE")
	}
	for _, b := range books {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", b.ID, b.Title, b.Author, b.Year, b.Genre)
	}
	if tw != nil {
		return tw.Flush()
	}
	return nil
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("%w: missing book id", errUsage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid book id %q", errUsage, args[0])
	}
	return id, nil
}

func parseBookInput(name string, args []string) (client.BookInput, error) {
	var in client.BookInput

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&in.Title, "title", "", "")
	fs.StringVar(&in.Author, "author", "", "")
	fs.StringVar(&in.ISBN, "isbn", "", "")
	fs.IntVar(&in.Year, "year", 0, "")
	fs.StringVar(&in.Genre, "genre", "", "")
	fs.StringVar(&in.Description, "description", "", "")
	fs.StringVar(&in.CoverURL, "cover", "", "")

	if err := fs.Parse(args); err != nil {
		return in, fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return in, fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}
	return in, nil
}
