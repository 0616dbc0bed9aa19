package persistence

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"github.com/boostclient/boostclient-service/internal/ports"
)

type uowKey struct{}

// unitOfWork is the transaction shared by every repository call made with
// the same context. Hooks registered on it run once the transaction has
// either committed or rolled back.
type unitOfWork struct {
	tx *gorm.DB

	mu              sync.Mutex
	dirty           map[string]struct{}
	afterCompletion []func(ctx context.Context)
}

func unitOfWorkFrom(ctx context.Context) *unitOfWork {
	uow, _ := ctx.Value(uowKey{}).(*unitOfWork)
	return uow
}

// markDirty records that regions were written in this transaction.
func (u *unitOfWork) markDirty(regions ...string) {
	u.mu.Lock()
	defer u.mu.Unlock()

	for _, region := range regions {
		u.dirty[region] = struct{}{}
	}
}

func (u *unitOfWork) isDirty(region string) bool {
	u.mu.Lock()
	defer u.mu.Unlock()

	_, ok := u.dirty[region]

	return ok
}

// onCompletion stages fn to run after the transaction has finished.
func (u *unitOfWork) onCompletion(fn func(ctx context.Context)) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.afterCompletion = append(u.afterCompletion, fn)
}

func (u *unitOfWork) complete(ctx context.Context) {
	u.mu.Lock()
	hooks := u.afterCompletion
	u.afterCompletion = nil
	u.mu.Unlock()

	for _, hook := range hooks {
		hook(ctx)
	}
}

// Transactor implements ports.Transactor on a GORM connection.
type Transactor struct {
	db *gorm.DB
}

// NewTransactor creates a Transactor.
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTransaction runs fn in a database transaction. A call made with a
// context that already carries a transaction joins it instead of nesting.
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if unitOfWorkFrom(ctx) != nil {
		return fn(ctx)
	}

	uow := &unitOfWork{dirty: make(map[string]struct{})}

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		uow.tx = tx
		return fn(context.WithValue(ctx, uowKey{}, uow))
	})

	// Hooks must not observe a cancelled request context.
	uow.complete(context.WithoutCancel(ctx))

	return err
}

// conn returns the transaction carried by ctx, or a session on db.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if uow := unitOfWorkFrom(ctx); uow != nil {
		return uow.tx.WithContext(ctx)
	}

	return db.WithContext(ctx)
}

var _ ports.Transactor = (*Transactor)(nil)
