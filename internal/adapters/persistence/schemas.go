package persistence

import (
	"gorm.io/gorm"

	"github.com/boostclient/boostclient-service/internal/domain"
)

// Cache regions, one per entity.
const (
	RegionEmployer = "employer"
	RegionQuote    = "quote"
	RegionEmployee = "employee"
)

// EmployerSchema loads employers with their employees.
var EmployerSchema = Schema[*domain.Employer, employerRecord]{
	Entity:   RegionEmployer,
	Preloads: []string{"Employees"},
	SortColumns: map[string]string{
		"id":   "id",
		"name": "name",
	},
	Invalidates: []string{RegionQuote, RegionEmployee},
	ToRecord:    employerToRecord,
	ToEntity:    employerFromRecord,
	RecordID:    func(r *employerRecord) int64 { return r.ID },
}

// QuoteSchema loads quotes with their employer.
var QuoteSchema = Schema[*domain.Quote, quoteRecord]{
	Entity:   RegionQuote,
	Preloads: []string{"Employer"},
	SortColumns: map[string]string{
		"id":        "id",
		"name":      "name",
		"quoteDate": "quote_date",
	},
	ToRecord: quoteToRecord,
	ToEntity: quoteFromRecord,
	RecordID: func(r *quoteRecord) int64 { return r.ID },
}

// EmployeeSchema loads employees with their employer. Employers embed their
// employees, so employee writes invalidate the employer region too.
var EmployeeSchema = Schema[*domain.Employee, employeeRecord]{
	Entity:   RegionEmployee,
	Preloads: []string{"Employer"},
	SortColumns: map[string]string{
		"id":          "id",
		"name":        "name",
		"dateOfBirth": "date_of_birth",
	},
	Invalidates: []string{RegionEmployer},
	ToRecord:    employeeToRecord,
	ToEntity:    employeeFromRecord,
	RecordID:    func(r *employeeRecord) int64 { return r.ID },
}

// EmployerRepository stores employers.
type EmployerRepository = Repository[*domain.Employer, employerRecord]

// QuoteRepository stores quotes.
type QuoteRepository = Repository[*domain.Quote, quoteRecord]

// EmployeeRepository stores employees.
type EmployeeRepository = Repository[*domain.Employee, employeeRecord]

// NewEmployerRepository creates the employer repository.
func NewEmployerRepository(db *gorm.DB, opts ...RepositoryOption) *EmployerRepository {
	return NewRepository(db, EmployerSchema, opts...)
}

// NewQuoteRepository creates the quote repository.
func NewQuoteRepository(db *gorm.DB, opts ...RepositoryOption) *QuoteRepository {
	return NewRepository(db, QuoteSchema, opts...)
}

// NewEmployeeRepository creates the employee repository.
func NewEmployeeRepository(db *gorm.DB, opts ...RepositoryOption) *EmployeeRepository {
	return NewRepository(db, EmployeeSchema, opts...)
}

// models lists the records in dependency order for AutoMigrate.
func models() []any {
	return []any{&employerRecord{}, &employeeRecord{}, &quoteRecord{}}
}
