package dto

import "github.com/boostclient/boostclient-service/internal/domain"

// QuoteRequest is the body of quote create, update and patch requests.
type QuoteRequest struct {
	ID        *int64     `json:"id"`
	Name      *string    `json:"name"      validate:"required,notempty,max=255"`
	QuoteDate *Date      `json:"quoteDate" validate:"required"`
	Employer  *EntityRef `json:"employer"  validate:"required"`
}

// ToEntity converts the request to a domain quote.
func (r *QuoteRequest) ToEntity() *domain.Quote {
	return &domain.Quote{
		ID:        r.ID,
		Name:      deref(r.Name),
		QuoteDate: r.QuoteDate.timeOrZero(),
		Employer:  r.Employer.employer(),
	}
}

// ToPatch converts the request to a merge patch. The employer is ignored.
func (r *QuoteRequest) ToPatch() domain.QuotePatch {
	return domain.QuotePatch{
		ID:        r.ID,
		Name:      r.Name,
		QuoteDate: r.QuoteDate.timePtr(),
	}
}

// QuoteResponse is the representation of a quote.
type QuoteResponse struct {
	ID        *int64       `json:"id"`
	Name      string       `json:"name"`
	QuoteDate *Date        `json:"quoteDate"`
	Employer  *EmployerRef `json:"employer"`
}

// NewQuoteResponse builds the response for q.
func NewQuoteResponse(q *domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		Name:      q.Name,
		QuoteDate: NewDate(q.QuoteDate),
		Employer:  newEmployerRef(q.Employer),
	}
}
