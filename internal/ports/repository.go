// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never gorm records or other infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrConflict, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"
	"fmt"
	"strings"
)

// Repository is the storage contract shared by every entity type. Entities
// are keyed by an int64 identifier assigned on first save.
type Repository[E any] interface {
	// Save inserts the entity when it has no identifier and replaces the full
	// row otherwise. It returns the stored entity with its relations loaded.
	Save(ctx context.Context, entity E) (E, error)

	// FindByID returns domain.ErrNotFound if the entity does not exist.
	FindByID(ctx context.Context, id int64) (E, error)

	// FindAll returns every entity, ordered by sort or by id when sort is empty.
	FindAll(ctx context.Context, sort ...SortOrder) ([]E, error)

	// ExistsByID reports whether a row with the identifier exists.
	ExistsByID(ctx context.Context, id int64) (bool, error)

	// DeleteByID removes the row. Deleting a missing id is not an error.
	DeleteByID(ctx context.Context, id int64) error

	// Count returns the number of stored rows.
	Count(ctx context.Context) (int64, error)
}

// Direction is the ordering direction of a SortOrder.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortOrder orders a listing by a field of the public representation,
// for example "quoteDate". Repositories map the field to a column.
type SortOrder struct {
	Field     string
	Direction Direction
}

// ParseSortOrder parses the "field[,direction]" form used by the sort query
// parameter. The direction defaults to ascending and is case-insensitive.
func ParseSortOrder(raw string) (SortOrder, error) {
	field, dir, hasDir := strings.Cut(strings.TrimSpace(raw), ",")

	field = strings.TrimSpace(field)
	if field == "" {
		return SortOrder{}, fmt.Errorf("sort field is empty in %q", raw)
	}

	order := SortOrder{Field: field, Direction: Asc}

	if hasDir {
		switch Direction(strings.ToLower(strings.TrimSpace(dir))) {
		case Asc, "":
		case Desc:
			order.Direction = Desc
		default:
			return SortOrder{}, fmt.Errorf("unknown sort direction %q", dir)
		}
	}

	return order, nil
}

// Transactor runs a unit of work atomically. Repositories called with the
// context passed to fn take part in the same transaction, which commits when
// fn returns nil and rolls back otherwise.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Cache defines the contract for caching operations.
// Implementations may use Redis or an in-memory map.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns domain.ErrNotFound if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with optional TTL.
	// A TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error

	// Delete removes a value from the cache.
	// Does not return an error if the key does not exist.
	Delete(ctx context.Context, key string) error
}
