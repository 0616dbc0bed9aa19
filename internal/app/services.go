package app

import (
	"context"
	"log/slog"

	"github.com/boostclient/boostclient-service/internal/domain"
	"github.com/boostclient/boostclient-service/internal/platform/telemetry"
	"github.com/boostclient/boostclient-service/internal/ports"
)

// Entity names.
const (
	EntityEmployer = "employer"
	EntityQuote    = "quote"
	EntityEmployee = "employee"
)

type (
	// EmployerService manages employers.
	EmployerService = CrudService[*domain.Employer, domain.EmployerPatch]

	// QuoteService manages quotes.
	QuoteService = CrudService[*domain.Quote, domain.QuotePatch]

	// EmployeeService manages employees.
	EmployeeService = CrudService[*domain.Employee, domain.EmployeePatch]
)

// Options holds the dependencies shared by every service.
type Options struct {
	Logger  *slog.Logger
	Metrics *telemetry.EntityMetrics
}

// NewEmployerService creates the employer service.
func NewEmployerService(repo ports.Repository[*domain.Employer], tx ports.Transactor, opts Options) *EmployerService {
	return NewCrudService[*domain.Employer, domain.EmployerPatch](CrudConfig[*domain.Employer]{
		Entity:  EntityEmployer,
		Repo:    repo,
		Tx:      tx,
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})
}

// NewQuoteService creates the quote service. The employer of a quote must exist.
func NewQuoteService(
	repo ports.Repository[*domain.Quote],
	employers ports.Repository[*domain.Employer],
	tx ports.Transactor,
	opts Options,
) *QuoteService {
	return NewCrudService[*domain.Quote, domain.QuotePatch](CrudConfig[*domain.Quote]{
		Entity:  EntityQuote,
		Repo:    repo,
		Tx:      tx,
		Resolve: EmployerReference(employers, func(q *domain.Quote) *domain.Employer { return q.Employer }),
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})
}

// NewEmployeeService creates the employee service. An employee's employer,
// when set, must exist.
func NewEmployeeService(
	repo ports.Repository[*domain.Employee],
	employers ports.Repository[*domain.Employer],
	tx ports.Transactor,
	opts Options,
) *EmployeeService {
	return NewCrudService[*domain.Employee, domain.EmployeePatch](CrudConfig[*domain.Employee]{
		Entity:  EntityEmployee,
		Repo:    repo,
		Tx:      tx,
		Resolve: EmployerReference(employers, func(e *domain.Employee) *domain.Employer { return e.Employer }),
		Logger:  opts.Logger,
		Metrics: opts.Metrics,
	})
}

// EmployerReference returns a Resolver that rejects entities whose employer
// does not exist. Entities without an employer pass; whether one is required
// is decided by the entity's own validation.
func EmployerReference[E domain.Entity](
	employers ports.Repository[*domain.Employer],
	employerOf func(E) *domain.Employer,
) Resolver[E] {
	return func(ctx context.Context, entity E) error {
		employer := employerOf(entity)
		if employer == nil || employer.ID == nil {
			return nil
		}

		exists, err := employers.ExistsByID(ctx, *employer.ID)
		if err != nil {
			return err
		}

		if !exists {
			return domain.NewValidationErrorWithValue("employer", "references an unknown employer", *employer.ID)
		}

		return nil
	}
}
