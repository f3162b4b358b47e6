package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/bookcatalog/internal/data"
)

func TestReadJSON(t *testing.T) {
	app, _ := newTestApplication(t)

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"valid", `{"title":"Dune","year":"1965"}`, ""},
		{"empty", ``, "body must not be empty"},
		{"truncated", `{"title":`, "body contains badly-formed JSON"},
		{"syntax", `{"title" "Dune"}`, "body contains badly-formed JSON (at character"},
		{"wrong type", `{"title":42}`, `body contains incorrect JSON type for field "title"`},
		{"unknown key", `{"pages":300}`, `body contains unknown key "pages"`},
		{"two values", `{"title":"a"}{"title":"b"}`, "body must only contain a single JSON value"},
		{"bad year", `{"year":"nineteen"}`, data.ErrInvalidYear.Error()},
		{"too large", `{"description":"` + strings.Repeat("x", maxBodyBytes) + `"}`, "body must not be larger than 1048576 bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/books/create", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			var in data.BookInput
			err := app.readJSON(w, r, &in)
			if tt.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, "Dune", in.Title)
				assert.Equal(t, data.Year(1965), in.Year)
				return
			}
			require.Error(t, err)
			assert.True(t, strings.HasPrefix(err.Error(), tt.wantErr), err.Error())
		})
	}
}

func TestReadIDParam(t *testing.T) {
	app, _ := newTestApplication(t)

	tests := []struct {
		target string
		want   int64
		err    error
	}{
		{"/books/read_single?id=12", 12, nil},
		{"/books/read_single?id=0", 0, nil},
		{"/books/read_single", 0, errMissingID},
		{"/books/read_single?id=", 0, errMissingID},
		{"/books/read_single?id=1.5", 0, errInvalidID},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, tt.target, nil)
		id, err := app.readIDParam(r)
		assert.Equal(t, tt.want, id, tt.target)
		assert.ErrorIs(t, err, tt.err, tt.target)
	}
}
