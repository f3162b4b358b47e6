// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// queryTimeout bounds every statement issued by the model layer.
const queryTimeout = 3 * time.Second

// ErrRecordNotFound is returned when a query or statement matches no row.
var ErrRecordNotFound = errors.New("record not found")

// Models groups the table models that share one connection pool.
type Models struct {
	Books BookModel

	db *sql.DB
}

func NewModels(db *sql.DB) Models {
	return Models{
		Books: BookModel{DB: db},
		db:    db,
	}
}

// Ping reports whether the database behind the models is reachable.
func (m Models) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}
