package persistence

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/boostclient/boostclient-service/internal/domain"
	"github.com/boostclient/boostclient-service/internal/ports"
)

// Schema describes how an entity is stored.
type Schema[E domain.Entity, R any] struct {
	// Entity names the entity in errors and is the cache region of its rows.
	Entity string

	// Preloads lists the relations loaded with every read.
	Preloads []string

	// SortColumns maps sortable field names of the public representation to columns.
	SortColumns map[string]string

	// Invalidates lists other cache regions whose cached rows embed this entity.
	Invalidates []string

	ToRecord func(E) *R
	ToEntity func(*R) E
	RecordID func(*R) int64
}

// Repository is the GORM implementation of ports.Repository for one entity type.
type Repository[E domain.Entity, R any] struct {
	db     *gorm.DB
	schema Schema[E, R]
	cache  *EntityCache
}

// RepositoryOption configures a Repository.
type RepositoryOption func(*repositoryOptions)

type repositoryOptions struct {
	cache *EntityCache
}

// WithCache serves FindByID from the entity cache.
func WithCache(cache *EntityCache) RepositoryOption {
	return func(o *repositoryOptions) {
		o.cache = cache
	}
}

// NewRepository creates a Repository for the schema.
func NewRepository[E domain.Entity, R any](db *gorm.DB, schema Schema[E, R], opts ...RepositoryOption) *Repository[E, R] {
	var o repositoryOptions
	for _, opt := range opts {
		opt(&o)
	}

	return &Repository[E, R]{db: db, schema: schema, cache: o.cache}
}

// Save inserts entity when it has no id and otherwise overwrites every
// column of its row. Relations are written by their owning side only.
func (r *Repository[E, R]) Save(ctx context.Context, entity E) (E, error) {
	var zero E

	rec := r.schema.ToRecord(entity)
	db := conn(ctx, r.db).Omit(clause.Associations)

	if entity.Identifier() == nil {
		if err := db.Create(rec).Error; err != nil {
			return zero, r.translate(err, "create")
		}
	} else {
		res := db.Model(rec).Select("*").Updates(rec)
		if res.Error != nil {
			return zero, r.translate(res.Error, "update")
		}

		if res.RowsAffected == 0 {
			return zero, domain.NewNotFoundError(r.schema.Entity, strconv.FormatInt(*entity.Identifier(), 10))
		}
	}

	r.invalidate(ctx)

	return r.FindByID(ctx, r.schema.RecordID(rec))
}

// FindByID loads the entity with its relations.
func (r *Repository[E, R]) FindByID(ctx context.Context, id int64) (E, error) {
	var zero E

	rec := new(R)

	var slot CacheSlot

	if r.cache != nil {
		var hit bool
		if slot, hit = r.cache.Load(ctx, r.schema.Entity, id, rec); hit {
			return r.schema.ToEntity(rec), nil
		}
	}

	if err := r.query(ctx).First(rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return zero, domain.NewNotFoundError(r.schema.Entity, strconv.FormatInt(id, 10))
		}

		return zero, r.translate(err, "find")
	}

	if r.cache != nil {
		r.cache.Store(ctx, slot, rec)
	}

	return r.schema.ToEntity(rec), nil
}

// FindAll lists every entity. Rows are ordered by the requested fields and
// then by id, so equal sort keys come back in a stable order.
func (r *Repository[E, R]) FindAll(ctx context.Context, sort ...ports.SortOrder) ([]E, error) {
	query := r.query(ctx)

	byID := false

	for _, order := range sort {
		column, ok := r.schema.SortColumns[order.Field]
		if !ok {
			return nil, domain.NewValidationErrorWithValue("sort",
				fmt.Sprintf("cannot sort %s by %q", r.schema.Entity, order.Field), order.Field)
		}

		byID = byID || column == "id"

		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Name: column},
			Desc:   order.Direction == ports.Desc,
		})
	}

	if !byID {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: "id"}})
	}

	var recs []R
	if err := query.Find(&recs).Error; err != nil {
		return nil, r.translate(err, "list")
	}

	entities := make([]E, len(recs))
	for i := range recs {
		entities[i] = r.schema.ToEntity(&recs[i])
	}

	return entities, nil
}

// ExistsByID reports whether a row with id exists.
func (r *Repository[E, R]) ExistsByID(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := conn(ctx, r.db).Model(new(R)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, r.translate(err, "exists")
	}

	return count > 0, nil
}

// DeleteByID removes the row. A missing row is not an error.
func (r *Repository[E, R]) DeleteByID(ctx context.Context, id int64) error {
	if err := conn(ctx, r.db).Delete(new(R), "id = ?", id).Error; err != nil {
		return r.translate(err, "delete")
	}

	r.invalidate(ctx)

	return nil
}

// Count returns the number of rows.
func (r *Repository[E, R]) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := conn(ctx, r.db).Model(new(R)).Count(&count).Error; err != nil {
		return 0, r.translate(err, "count")
	}

	return count, nil
}

func (r *Repository[E, R]) query(ctx context.Context) *gorm.DB {
	db := conn(ctx, r.db)
	for _, preload := range r.schema.Preloads {
		db = db.Preload(preload, func(tx *gorm.DB) *gorm.DB {
			return tx.Order("id")
		})
	}

	return db
}

func (r *Repository[E, R]) invalidate(ctx context.Context) {
	if r.cache == nil {
		return
	}

	regions := append([]string{r.schema.Entity}, r.schema.Invalidates...)
	r.cache.Invalidate(ctx, regions...)
}

// translate maps storage errors onto domain errors. Errors that have no
// domain meaning are wrapped with the failed operation.
func (r *Repository[E, R]) translate(err error, op string) error {
	switch {
	case errors.Is(err, gorm.ErrForeignKeyViolated),
		strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return domain.NewConflictErrorWithDetails(r.schema.Entity, "referenced row constraint violated", op)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.NewConflictErrorWithDetails(r.schema.Entity, "duplicate key", op)
	case errors.Is(err, driver.ErrBadConn):
		return domain.NewUnavailableError("database", err.Error())
	default:
		return fmt.Errorf("%s %s: %w", op, r.schema.Entity, err)
	}
}

var _ ports.Repository[*domain.Employer] = (*Repository[*domain.Employer, employerRecord])(nil)
