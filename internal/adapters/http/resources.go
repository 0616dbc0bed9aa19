package http

import (
	"github.com/boostclient/boostclient-service/internal/adapters/http/dto"
	"github.com/boostclient/boostclient-service/internal/app"
	"github.com/boostclient/boostclient-service/internal/domain"
)

type (
	// EmployerResource serves /api/employers.
	EmployerResource = Resource[*domain.Employer, domain.EmployerPatch, dto.EmployerRequest, dto.EmployerResponse]

	// QuoteResource serves /api/quotes.
	QuoteResource = Resource[*domain.Quote, domain.QuotePatch, dto.QuoteRequest, dto.QuoteResponse]

	// EmployeeResource serves /api/employees.
	EmployeeResource = Resource[*domain.Employee, domain.EmployeePatch, dto.EmployeeRequest, dto.EmployeeResponse]
)

// NewEmployerResource creates the employer resource.
func NewEmployerResource(appName string, service *app.EmployerService) *EmployerResource {
	return NewResource("/employers", appName, service,
		Codec[*domain.Employer, domain.EmployerPatch, dto.EmployerRequest, dto.EmployerResponse]{
			Entity:   (*dto.EmployerRequest).ToEntity,
			Patch:    (*dto.EmployerRequest).ToPatch,
			Response: dto.NewEmployerResponse,
		})
}

// NewQuoteResource creates the quote resource.
func NewQuoteResource(appName string, service *app.QuoteService) *QuoteResource {
	return NewResource("/quotes", appName, service,
		Codec[*domain.Quote, domain.QuotePatch, dto.QuoteRequest, dto.QuoteResponse]{
			Entity:   (*dto.QuoteRequest).ToEntity,
			Patch:    (*dto.QuoteRequest).ToPatch,
			Response: dto.NewQuoteResponse,
		})
}

// NewEmployeeResource creates the employee resource.
func NewEmployeeResource(appName string, service *app.EmployeeService) *EmployeeResource {
	return NewResource("/employees", appName, service,
		Codec[*domain.Employee, domain.EmployeePatch, dto.EmployeeRequest, dto.EmployeeResponse]{
			Entity:   (*dto.EmployeeRequest).ToEntity,
			Patch:    (*dto.EmployeeRequest).ToPatch,
			Response: dto.NewEmployeeResponse,
		})
}
