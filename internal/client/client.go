// Package client is a typed HTTP client for the book catalog API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds every call made by a Client.
const DefaultTimeout = 10 * time.Second

// Book is a catalog entry as returned by the API.
type Book struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	Year        int    `json:"year"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl,omitempty"`
}

// BookInput is the payload for create and update.
type BookInput struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	ISBN        string `json:"isbn"`
	Year        int    `json:"year"`
	Genre       string `json:"genre"`
	Description string `json:"description"`
	CoverURL    string `json:"coverUrl,omitempty"`
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	tokenFile  string
	logger     *slog.Logger
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenFile sets the file a bearer token is read from before each call.
// A missing or empty file means no Authorization header.
func WithTokenFile(path string) Option {
	return func(c *Client) { c.tokenFile = path }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListBooks(ctx context.Context) ([]Book, error) {
	books, err := call[[]Book](ctx, c, http.MethodGet, "/books/read", nil, nil)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

func (c *Client) GetBook(ctx context.Context, id int64) (*Book, error) {
	return call[*Book](ctx, c, http.MethodGet, "/books/read_single", idQuery(id), nil)
}

func (c *Client) CreateBook(ctx context.Context, in BookInput) (*Book, error) {
	return call[*Book](ctx, c, http.MethodPost, "/books/create", nil, in)
}

func (c *Client) UpdateBook(ctx context.Context, id int64, in BookInput) (*Book, error) {
	return call[*Book](ctx, c, http.MethodPut, "/books/update", idQuery(id), in)
}

func (c *Client) DeleteBook(ctx context.Context, id int64) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, "/books/delete", idQuery(id), nil)
	return err
}

// SearchBooks matches q against title, author and genre on the server.
func (c *Client) SearchBooks(ctx context.Context, q string) ([]Book, error) {
	books, err := call[[]Book](ctx, c, http.MethodGet, "/books/search", url.Values{"q": {q}}, nil)
	if err != nil {
		return nil, err
	}
	if books == nil {
		books = []Book{}
	}
	return books, nil
}

// BooksByGenre lists every book and keeps those whose genre equals genre exactly.
func (c *Client) BooksByGenre(ctx context.Context, genre string) ([]Book, error) {
	books, err := c.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	out := []Book{}
	for _, b := range books {
		if b.Genre == genre {
			out = append(out, b)
		}
	}
	return out, nil
}

func idQuery(id int64) url.Values {
	return url.Values{"id": {strconv.FormatInt(id, 10)}}
}

func (c *Client) token() string {
	if c.tokenFile == "" {
		return ""
	}
	b, err := os.ReadFile(c.tokenFile)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var zero T

	data, err := c.do(ctx, method, path, query, body)
	if err != nil {
		c.logger.Error("api request failed", "method", method, "path", path, "error", err)
		return zero, err
	}

	var env envelope[T]
	if err := json.Unmarshal(data, &env); err != nil {
		err = fmt.Errorf("decode %s %s: %w", method, path, err)
		c.logger.Error("api request failed", "method", method, "path", path, "error", err)
		return zero, err
	}
	return env.Data, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var env envelope[json.RawMessage]
		if json.Unmarshal(data, &env) == nil && env.Message != "" {
			apiErr.Message = env.Message
		}
		return nil, apiErr
	}
	return data, nil
}
