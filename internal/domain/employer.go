package domain

import "fmt"

var employerHash = typeHash("Employer")

// Employer is an organisation that issues quotes and employs people.
type Employer struct {
	// ID is assigned by storage on first save.
	ID *int64

	// Name is required.
	Name string

	employees EntitySet[*Employee]
}

// NewEmployer returns an empty employer ready for fluent construction.
func NewEmployer() *Employer {
	return &Employer{}
}

// WithID sets the identifier and returns the employer.
func (e *Employer) WithID(id int64) *Employer {
	e.ID = &id
	return e
}

// WithName sets the name and returns the employer.
func (e *Employer) WithName(name string) *Employer {
	e.Name = name
	return e
}

// Identifier implements Entity.
func (e *Employer) Identifier() *int64 {
	return e.ID
}

// Validate checks the required fields and the name length.
func (e *Employer) Validate() error {
	if err := validateName(e.Name); err != nil {
		return err
	}

	return nil
}

// Employees returns the employees linked to this employer.
func (e *Employer) Employees() []*Employee {
	return e.employees.Items()
}

// AddEmployee links emp to this employer on both sides of the association.
func (e *Employer) AddEmployee(emp *Employee) *Employer {
	e.employees.Add(emp)
	emp.Employer = e

	return e
}

// RemoveEmployee unlinks emp on both sides of the association.
func (e *Employer) RemoveEmployee(emp *Employee) *Employer {
	e.employees.Remove(emp)
	emp.Employer = nil

	return e
}

// SetEmployees replaces the employee collection. Every previous member loses
// its employer reference before the new members are linked.
func (e *Employer) SetEmployees(employees []*Employee) {
	for _, old := range e.employees.Items() {
		old.Employer = nil
	}

	e.employees.Clear()

	for _, emp := range employees {
		e.AddEmployee(emp)
	}
}

// Equal reports whether e and other denote the same persisted employer.
// An employer without an id is only equal to itself.
func (e *Employer) Equal(other *Employer) bool {
	if e == other {
		return true
	}

	if e == nil || other == nil {
		return false
	}

	return sameIdentity(e.ID, other.ID)
}

// HashCode is identical for every employer so that it stays stable while the
// id is assigned.
func (e *Employer) HashCode() uint32 {
	return employerHash
}

func (e *Employer) String() string {
	return fmt.Sprintf("Employer{id=%s, name=%q}", formatID(e.ID), e.Name)
}

// EmployerPatch carries the fields of a merge-patch request for an employer.
type EmployerPatch struct {
	ID   *int64
	Name *string
}

// Identifier implements Patch.
func (p EmployerPatch) Identifier() *int64 {
	return p.ID
}

// ApplyTo copies the set fields onto target.
func (p EmployerPatch) ApplyTo(target *Employer) {
	if p.Name != nil {
		target.Name = *p.Name
	}
}

var (
	_ Entity           = (*Employer)(nil)
	_ Patch[*Employer] = EmployerPatch{}
	_ fmt.Stringer     = (*Employer)(nil)
)
