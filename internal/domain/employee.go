package domain

import (
	"fmt"
	"time"
)

var employeeHash = typeHash("Employee")

// Employee is a person working for an employer.
type Employee struct {
	ID          *int64
	Name        string
	DateOfBirth time.Time

	// Employer is the owning side of Employer.Employees. Use the helpers on
	// Employer to keep both sides in sync.
	Employer *Employer
}

// NewEmployee returns an empty employee ready for fluent construction.
func NewEmployee() *Employee {
	return &Employee{}
}

// WithID sets the identifier and returns the employee.
func (e *Employee) WithID(id int64) *Employee {
	e.ID = &id
	return e
}

// WithName sets the name and returns the employee.
func (e *Employee) WithName(name string) *Employee {
	e.Name = name
	return e
}

// WithDateOfBirth sets the date of birth and returns the employee.
func (e *Employee) WithDateOfBirth(d time.Time) *Employee {
	e.DateOfBirth = TruncateToDate(d)
	return e
}

// WithEmployer sets the employer reference and returns the employee.
func (e *Employee) WithEmployer(employer *Employer) *Employee {
	e.Employer = employer
	return e
}

// Identifier implements Entity.
func (e *Employee) Identifier() *int64 {
	return e.ID
}

// Validate checks the required fields and the name length.
func (e *Employee) Validate() error {
	if err := validateName(e.Name); err != nil {
		return err
	}

	if e.DateOfBirth.IsZero() {
		return NewValidationError("dateOfBirth", "must not be null")
	}

	if e.Employer != nil && e.Employer.ID == nil {
		return NewValidationError("employer", "must reference a saved employer")
	}

	return nil
}

// Equal reports whether e and other denote the same persisted employee.
func (e *Employee) Equal(other *Employee) bool {
	if e == other {
		return true
	}

	if e == nil || other == nil {
		return false
	}

	return sameIdentity(e.ID, other.ID)
}

// HashCode is identical for every employee.
func (e *Employee) HashCode() uint32 {
	return employeeHash
}

func (e *Employee) String() string {
	return fmt.Sprintf("Employee{id=%s, name=%q, dateOfBirth=%s}",
		formatID(e.ID), e.Name, formatDate(e.DateOfBirth))
}

// EmployeePatch carries the fields of a merge-patch request for an employee.
// The employer reference is not patchable.
type EmployeePatch struct {
	ID          *int64
	Name        *string
	DateOfBirth *time.Time
}

// Identifier implements Patch.
func (p EmployeePatch) Identifier() *int64 {
	return p.ID
}

// ApplyTo copies the set fields onto target.
func (p EmployeePatch) ApplyTo(target *Employee) {
	if p.Name != nil {
		target.Name = *p.Name
	}

	if p.DateOfBirth != nil {
		target.DateOfBirth = TruncateToDate(*p.DateOfBirth)
	}
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "null"
	}

	return t.Format(time.DateOnly)
}

var (
	_ Entity           = (*Employee)(nil)
	_ Patch[*Employee] = EmployeePatch{}
)
