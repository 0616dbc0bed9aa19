package domain

import (
	"fmt"
	"time"
)

var quoteHash = typeHash("Quote")

// Quote is a dated quotation issued by an employer.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is assigned by storage on first save.
	ID *int64

	// Name is required.
	Name string

	// QuoteDate is the calendar date of the quote, held at UTC midnight.
	QuoteDate time.Time

	// Employer is required and must reference a saved employer.
	Employer *Employer
}

// NewQuote returns an empty quote ready for fluent construction.
func NewQuote() *Quote {
	return &Quote{}
}

// WithID sets the identifier and returns the quote.
func (q *Quote) WithID(id int64) *Quote {
	q.ID = &id
	return q
}

// WithName sets the name and returns the quote.
func (q *Quote) WithName(name string) *Quote {
	q.Name = name
	return q
}

// WithQuoteDate sets the quote date and returns the quote.
func (q *Quote) WithQuoteDate(d time.Time) *Quote {
	q.QuoteDate = TruncateToDate(d)
	return q
}

// WithEmployer sets the employer and returns the quote.
func (q *Quote) WithEmployer(employer *Employer) *Quote {
	q.Employer = employer
	return q
}

// Identifier implements Entity.
func (q *Quote) Identifier() *int64 {
	return q.ID
}

// Validate checks the required fields and the name length.
func (q *Quote) Validate() error {
	if err := validateName(q.Name); err != nil {
		return err
	}

	if q.QuoteDate.IsZero() {
		return NewValidationError("quoteDate", "must not be null")
	}

	if q.Employer == nil || q.Employer.ID == nil {
		return NewValidationError("employer", "must not be null")
	}

	return nil
}

// Equal reports whether q and other denote the same persisted quote.
func (q *Quote) Equal(other *Quote) bool {
	if q == other {
		return true
	}

	if q == nil || other == nil {
		return false
	}

	return sameIdentity(q.ID, other.ID)
}

// HashCode is identical for every quote.
func (q *Quote) HashCode() uint32 {
	return quoteHash
}

func (q *Quote) String() string {
	return fmt.Sprintf("Quote{id=%s, name=%q, quoteDate=%s}",
		formatID(q.ID), q.Name, formatDate(q.QuoteDate))
}

// QuotePatch carries the fields of a merge-patch request for a quote.
// The employer reference is not patchable.
type QuotePatch struct {
	ID        *int64
	Name      *string
	QuoteDate *time.Time
}

// Identifier implements Patch.
func (p QuotePatch) Identifier() *int64 {
	return p.ID
}

// ApplyTo copies the set fields onto target.
func (p QuotePatch) ApplyTo(target *Quote) {
	if p.Name != nil {
		target.Name = *p.Name
	}

	if p.QuoteDate != nil {
		target.QuoteDate = TruncateToDate(*p.QuoteDate)
	}
}

var (
	_ Entity        = (*Quote)(nil)
	_ Patch[*Quote] = QuotePatch{}
)
