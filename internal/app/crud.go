// Package app contains application services that orchestrate use cases.
// This is the application layer in Clean Architecture: it coordinates
// domain logic and infrastructure through ports.
//
// Application Layer Responsibilities:
//   - Orchestrate use cases (business workflows)
//   - Enforce the identifier contract of every resource
//   - Resolve references between entities
//   - Run each use case in one transaction
//
// What does NOT belong here:
//   - HTTP specifics (that's adapters)
//   - Database queries (that's repository adapters)
//   - Field rules of a single entity (that's the domain layer)
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/boostclient/boostclient-service/internal/domain"
	"github.com/boostclient/boostclient-service/internal/platform/logging"
	"github.com/boostclient/boostclient-service/internal/platform/telemetry"
	"github.com/boostclient/boostclient-service/internal/ports"
)

// Resolver checks the references held by an entity before it is stored.
type Resolver[E domain.Entity] func(ctx context.Context, entity E) error

// CrudConfig holds the dependencies of a CrudService.
type CrudConfig[E domain.Entity] struct {
	// Entity is the lower-case entity name used in errors and alerts.
	Entity string

	Repo ports.Repository[E]
	Tx   ports.Transactor

	// Resolve is optional.
	Resolve Resolver[E]

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *telemetry.EntityMetrics
}

// CrudService implements the create, read, update and delete use cases of
// one entity type. Every operation runs in its own transaction.
type CrudService[E domain.Entity, P domain.Patch[E]] struct {
	entity  string
	repo    ports.Repository[E]
	tx      ports.Transactor
	resolve Resolver[E]
	logger  *slog.Logger
	metrics *telemetry.EntityMetrics
}

// NewCrudService creates a CrudService. It panics when the repository or
// the transactor is missing.
func NewCrudService[E domain.Entity, P domain.Patch[E]](cfg CrudConfig[E]) *CrudService[E, P] {
	if cfg.Repo == nil {
		panic("app: CrudConfig.Repo is required")
	}

	if cfg.Tx == nil {
		panic("app: CrudConfig.Tx is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &CrudService[E, P]{
		entity:  cfg.Entity,
		repo:    cfg.Repo,
		tx:      cfg.Tx,
		resolve: cfg.Resolve,
		logger:  logger.With(slog.String("component", "app."+cfg.Entity)),
		metrics: cfg.Metrics,
	}
}

// Entity returns the entity name.
func (s *CrudService[E, P]) Entity() string {
	return s.entity
}

// Create stores a new entity. An entity that already carries an id is rejected.
func (s *CrudService[E, P]) Create(ctx context.Context, entity E) (E, error) {
	var saved E

	if entity.Identifier() != nil {
		return saved, domain.NewBadRequestError(s.entity, domain.KeyIDExists,
			fmt.Sprintf("A new %s cannot already have an ID", s.entity))
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error

		saved, err = s.store(ctx, entity)

		return err
	})
	if err != nil {
		return saved, fmt.Errorf("creating %s: %w", s.entity, err)
	}

	s.log(ctx).InfoContext(ctx, "created "+s.entity, slog.String("id", formatID(saved.Identifier())))
	s.metrics.RecordMutation(ctx, s.entity, "create")

	return saved, nil
}

// Update replaces every field of the stored entity id with those of entity.
func (s *CrudService[E, P]) Update(ctx context.Context, id int64, entity E) (E, error) {
	var saved E

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkIdentity(ctx, id, entity.Identifier()); err != nil {
			return err
		}

		var err error

		saved, err = s.store(ctx, entity)

		return err
	})
	if err != nil {
		return saved, fmt.Errorf("updating %s: %w", s.entity, err)
	}

	s.log(ctx).InfoContext(ctx, "updated "+s.entity, slog.Int64("id", id))
	s.metrics.RecordMutation(ctx, s.entity, "update")

	return saved, nil
}

// PartialUpdate merges the fields set on patch into the stored entity id.
// The merged entity must still be valid.
func (s *CrudService[E, P]) PartialUpdate(ctx context.Context, id int64, patch P) (E, error) {
	var saved E

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.checkIdentity(ctx, id, patch.Identifier()); err != nil {
			return err
		}

		stored, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		patch.ApplyTo(stored)

		saved, err = s.store(ctx, stored)

		return err
	})
	if err != nil {
		return saved, fmt.Errorf("patching %s: %w", s.entity, err)
	}

	s.log(ctx).InfoContext(ctx, "patched "+s.entity, slog.Int64("id", id))
	s.metrics.RecordMutation(ctx, s.entity, "patch")

	return saved, nil
}

// List returns every entity in the requested order.
func (s *CrudService[E, P]) List(ctx context.Context, sort ...ports.SortOrder) ([]E, error) {
	var entities []E

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error

		entities, err = s.repo.FindAll(ctx, sort...)

		return err
	})
	if err != nil {
		return nil, fmt.Errorf("listing %ss: %w", s.entity, err)
	}

	return entities, nil
}

// Get returns the entity id or a domain.NotFoundError.
func (s *CrudService[E, P]) Get(ctx context.Context, id int64) (E, error) {
	var entity E

	s.log(ctx).DebugContext(ctx, "fetching "+s.entity, slog.Int64("id", id))

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error

		entity, err = s.repo.FindByID(ctx, id)

		return err
	})
	if err != nil {
		return entity, fmt.Errorf("getting %s: %w", s.entity, err)
	}

	return entity, nil
}

// Delete removes the entity id. Deleting an absent entity succeeds.
func (s *CrudService[E, P]) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		return s.repo.DeleteByID(ctx, id)
	})
	if err != nil {
		return fmt.Errorf("deleting %s: %w", s.entity, err)
	}

	s.log(ctx).InfoContext(ctx, "deleted "+s.entity, slog.Int64("id", id))
	s.metrics.RecordMutation(ctx, s.entity, "delete")

	return nil
}

// checkIdentity enforces the update preconditions in order: the body carries
// an id, it matches the path, and the row exists.
func (s *CrudService[E, P]) checkIdentity(ctx context.Context, pathID int64, bodyID *int64) error {
	if bodyID == nil {
		return domain.NewBadRequestError(s.entity, domain.KeyIDNull, "Invalid id")
	}

	if *bodyID != pathID {
		return domain.NewBadRequestError(s.entity, domain.KeyIDInvalid, "Invalid ID")
	}

	exists, err := s.repo.ExistsByID(ctx, pathID)
	if err != nil {
		return err
	}

	if !exists {
		return domain.NewBadRequestError(s.entity, domain.KeyIDNotFound, "Entity not found")
	}

	return nil
}

func (s *CrudService[E, P]) store(ctx context.Context, entity E) (E, error) {
	var zero E

	if err := entity.Validate(); err != nil {
		return zero, err
	}

	if s.resolve != nil {
		if err := s.resolve(ctx, entity); err != nil {
			return zero, err
		}
	}

	return s.repo.Save(ctx, entity)
}

func (s *CrudService[E, P]) log(ctx context.Context) *slog.Logger {
	if logger, ok := logging.Lookup(ctx); ok {
		return logger
	}

	return s.logger
}

func formatID(id *int64) string {
	if id == nil {
		return ""
	}

	return strconv.FormatInt(*id, 10)
}
