package mocks

import (
	"context"

	"github.com/boostclient/boostclient-service/internal/ports"
)

// Transactor runs the unit of work directly and counts how often it was used.
// Err, when set, is returned instead of running the unit of work.
type Transactor struct {
	Calls int
	Err   error
}

// WithinTransaction implements ports.Transactor.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.Calls++

	if t.Err != nil {
		return t.Err
	}

	return fn(ctx)
}

var _ ports.Transactor = (*Transactor)(nil)
