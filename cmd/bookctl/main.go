// Command bookctl manages the book catalog from a terminal.
//
//	bookctl [global flags] <command> [args]
//
// Commands: list, get <id>, add, update <id>, delete <id>, search <term>, genres.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"github.com/aoideee/bookcatalog/internal/client"
	"github.com/aoideee/bookcatalog/internal/client/state"
	"github.com/aoideee/bookcatalog/internal/env"
)

const usage = `usage: bookctl [-api URL] [-token-file PATH] [-timeout D] <command> [args]

commands:
  list                 list every book, newest first
  get <id>             show one book
  add [flags]          create a book (-title -author -isbn -year -genre -description -cover)
  update <id> [flags]  replace every field of a book (same flags as add)
  delete <id>          delete a book
  search <term>        match title, author or genre
  genres               list genres with their book counts
`

var errUsage = errors.New("invalid usage")

func main() {
	env.Load()
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".bookcatalog", "token")
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bookctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }

	apiURL := fs.String("api", env.String("BOOKCATALOG_API_URL", "http://localhost:4000"), "API base URL")
	tokenFile := fs.String("token-file", env.String("BOOKCATALOG_TOKEN_FILE", defaultTokenFile()), "File holding a bearer token")
	timeout := fs.Duration("timeout", env.Duration("BOOKCATALOG_TIMEOUT", client.DefaultTimeout), "Per-request timeout")
	verbose := fs.Bool("v", false, "Log failed requests to stderr")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	level := slog.LevelError + 1
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	c := client.New(*apiURL,
		client.WithTimeout(*timeout),
		client.WithTokenFile(*tokenFile),
		client.WithLogger(logger),
	)

	app := &cli{
		client: c,
		store:  state.New(c),
		out:    stdout,
		errOut: stderr,
		table:  isTerminal(stdout),
	}

	err := app.dispatch(ctx, fs.Arg(0), fs.Args()[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "bookctl: %v\n\n", err)
		fs.Usage()
		return 2
	default:
		fmt.Fprintf(stderr, "bookctl: %v\n", err)
		return 1
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
