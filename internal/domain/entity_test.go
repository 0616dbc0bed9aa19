package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmployer_Equal(t *testing.T) {
	same := NewEmployer()

	tests := []struct {
		name     string
		a        *Employer
		b        *Employer
		expected bool
	}{
		{"same ids", NewEmployer().WithID(1), NewEmployer().WithID(1), true},
		{"different ids", NewEmployer().WithID(1), NewEmployer().WithID(2), false},
		{"nil id on left", NewEmployer(), NewEmployer().WithID(1), false},
		{"nil id on right", NewEmployer().WithID(1), NewEmployer(), false},
		{"both ids nil", NewEmployer(), NewEmployer(), false},
		{"same pointer without id", same, same, true},
		{"other is nil", NewEmployer().WithID(1), nil, false},
		{"same id different names", NewEmployer().WithID(3).WithName("a"), NewEmployer().WithID(3).WithName("b"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.Equal(tt.b))
		})
	}
}

func TestEntity_EqualIsSymmetric(t *testing.T) {
	q1 := NewQuote().WithID(7)
	q2 := NewQuote().WithID(7)
	assert.True(t, q1.Equal(q2))
	assert.True(t, q2.Equal(q1))

	q2.ID = Int64(8)
	assert.False(t, q1.Equal(q2))
	assert.False(t, q2.Equal(q1))

	e1 := NewEmployee()
	e2 := NewEmployee()
	assert.False(t, e1.Equal(e2))
	assert.True(t, e1.Equal(e1))
}

func TestEntity_HashCodeIsConstantPerType(t *testing.T) {
	a := NewEmployer()
	b := NewEmployer().WithID(42).WithName("Acme")
	assert.Equal(t, a.HashCode(), b.HashCode())

	before := a.HashCode()
	a.ID = Int64(99)
	assert.Equal(t, before, a.HashCode(), "hash must not change once an id is assigned")

	assert.Equal(t, NewQuote().HashCode(), NewQuote().WithID(5).HashCode())
	assert.Equal(t, NewEmployee().HashCode(), NewEmployee().WithID(5).HashCode())
	assert.NotEqual(t, NewEmployer().HashCode(), NewQuote().HashCode())
}

func TestEntity_String(t *testing.T) {
	employer := NewEmployer().WithID(1).WithName("Acme")
	employer.AddEmployee(NewEmployee().WithID(2).WithName("Ann"))
	assert.Equal(t, `Employer{id=1, name="Acme"}`, employer.String())

	assert.Equal(t, `Employer{id=null, name=""}`, NewEmployer().String())

	quote := NewQuote().WithID(3).WithName("Q").WithQuoteDate(Date(2024, time.March, 9)).WithEmployer(employer)
	assert.Equal(t, `Quote{id=3, name="Q", quoteDate=2024-03-09}`, quote.String())

	employee := NewEmployee().WithName("Bob")
	assert.Equal(t, `Employee{id=null, name="Bob", dateOfBirth=null}`, employee.String())
}

func TestEmployer_BidirectionalEmployees(t *testing.T) {
	t.Run("add sets back reference", func(t *testing.T) {
		employer := NewEmployer().WithID(1)
		emp := NewEmployee().WithID(10)

		employer.AddEmployee(emp)

		assert.Same(t, employer, emp.Employer)
		assert.Equal(t, []*Employee{emp}, employer.Employees())
	})

	t.Run("remove clears back reference", func(t *testing.T) {
		employer := NewEmployer().WithID(1)
		emp := NewEmployee().WithID(10)
		employer.AddEmployee(emp)

		employer.RemoveEmployee(emp)

		assert.Nil(t, emp.Employer)
		assert.Empty(t, employer.Employees())
	})

	t.Run("set replaces and clears old members", func(t *testing.T) {
		employer := NewEmployer().WithID(1)
		old1 := NewEmployee().WithID(10)
		old2 := NewEmployee().WithID(11)
		employer.SetEmployees([]*Employee{old1, old2})

		fresh := NewEmployee().WithID(12)
		employer.SetEmployees([]*Employee{fresh})

		assert.Nil(t, old1.Employer)
		assert.Nil(t, old2.Employer)
		assert.Same(t, employer, fresh.Employer)
		assert.Equal(t, []*Employee{fresh}, employer.Employees())
	})

	t.Run("set keeps members present in both collections", func(t *testing.T) {
		employer := NewEmployer().WithID(1)
		kept := NewEmployee().WithID(10)
		employer.SetEmployees([]*Employee{kept})

		employer.SetEmployees([]*Employee{kept})

		assert.Same(t, employer, kept.Employer)
		assert.Len(t, employer.Employees(), 1)
	})

	t.Run("unsaved employees are kept apart", func(t *testing.T) {
		employer := NewEmployer()
		employer.AddEmployee(NewEmployee().WithName("a"))
		employer.AddEmployee(NewEmployee().WithName("b"))

		assert.Len(t, employer.Employees(), 2)
	})

	t.Run("duplicate ids collapse", func(t *testing.T) {
		employer := NewEmployer()
		employer.AddEmployee(NewEmployee().WithID(5))
		employer.AddEmployee(NewEmployee().WithID(5))

		assert.Len(t, employer.Employees(), 1)
	})
}

func TestEntitySet_SurvivesIdentifierAssignment(t *testing.T) {
	var set EntitySet[*Quote]
	q := NewQuote().WithName("draft")

	require.True(t, set.Add(q))
	assert.True(t, set.Contains(q))

	q.ID = Int64(1)

	assert.True(t, set.Contains(q), "element must still be found after its id is assigned")
	assert.True(t, set.Contains(NewQuote().WithID(1)))
	assert.False(t, set.Add(NewQuote().WithID(1)))
	assert.True(t, set.Remove(NewQuote().WithID(1)))
	assert.Equal(t, 0, set.Len())
}

func TestValidate(t *testing.T) {
	employer := NewEmployer().WithID(1).WithName("Acme")

	tests := []struct {
		name  string
		e     Entity
		field string
	}{
		{"valid employer", NewEmployer().WithName("Acme"), ""},
		{"blank employer name", NewEmployer().WithName("  "), "name"},
		{"employer name at the limit", NewEmployer().WithName(strings.Repeat("é", MaxNameLength)), ""},
		{"employer name too long", NewEmployer().WithName(strings.Repeat("a", MaxNameLength+1)), "name"},
		{"quote name too long", NewQuote().WithName(strings.Repeat("a", 300)).WithQuoteDate(Date(2024, 1, 1)).WithEmployer(employer), "name"},
		{"employee name too long", NewEmployee().WithName(strings.Repeat("a", 300)).WithDateOfBirth(Date(1990, 5, 1)), "name"},
		{"valid quote", NewQuote().WithName("Q").WithQuoteDate(Date(2024, 1, 1)).WithEmployer(employer), ""},
		{"quote without name", NewQuote().WithQuoteDate(Date(2024, 1, 1)).WithEmployer(employer), "name"},
		{"quote without date", NewQuote().WithName("Q").WithEmployer(employer), "quoteDate"},
		{"quote without employer", NewQuote().WithName("Q").WithQuoteDate(Date(2024, 1, 1)), "employer"},
		{"quote with unsaved employer", NewQuote().WithName("Q").WithQuoteDate(Date(2024, 1, 1)).WithEmployer(NewEmployer()), "employer"},
		{"valid employee", NewEmployee().WithName("Ann").WithDateOfBirth(Date(1990, 5, 1)), ""},
		{"employee without birth date", NewEmployee().WithName("Ann"), "dateOfBirth"},
		{"employee with unsaved employer", NewEmployee().WithName("Ann").WithDateOfBirth(Date(1990, 5, 1)).WithEmployer(NewEmployer()), "employer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.e.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}

			var validation *ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tt.field, validation.Field)
		})
	}
}

func TestPatch_ApplyTo(t *testing.T) {
	t.Run("employer name only when set", func(t *testing.T) {
		stored := NewEmployer().WithID(1).WithName("Acme")

		EmployerPatch{ID: Int64(1)}.ApplyTo(stored)
		assert.Equal(t, "Acme", stored.Name)

		name := "NewCo"
		EmployerPatch{ID: Int64(1), Name: &name}.ApplyTo(stored)
		assert.Equal(t, "NewCo", stored.Name)
	})

	t.Run("quote fields are merged independently", func(t *testing.T) {
		employer := NewEmployer().WithID(1)
		stored := NewQuote().WithID(2).WithName("Q").WithQuoteDate(Date(2024, 1, 1)).WithEmployer(employer)

		newDate := time.Date(2025, 2, 3, 15, 4, 5, 0, time.UTC)
		QuotePatch{ID: Int64(2), QuoteDate: &newDate}.ApplyTo(stored)

		assert.Equal(t, "Q", stored.Name)
		assert.Equal(t, Date(2025, 2, 3), stored.QuoteDate)
		assert.Same(t, employer, stored.Employer)
	})

	t.Run("employee date of birth", func(t *testing.T) {
		stored := NewEmployee().WithID(3).WithName("Ann").WithDateOfBirth(Date(1990, 1, 1))
		name := "Anna"

		EmployeePatch{ID: Int64(3), Name: &name}.ApplyTo(stored)

		assert.Equal(t, "Anna", stored.Name)
		assert.Equal(t, Date(1990, 1, 1), stored.DateOfBirth)
	})
}
