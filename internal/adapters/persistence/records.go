package persistence

import (
	"time"

	"github.com/boostclient/boostclient-service/internal/domain"
)

type employerRecord struct {
	ID        int64            `gorm:"primaryKey"                   json:"id"`
	Name      string           `gorm:"size:255;not null"            json:"name"`
	Employees []employeeRecord `gorm:"foreignKey:EmployerID"        json:"employees,omitempty"`
}

func (employerRecord) TableName() string {
	return "employer"
}

type employeeRecord struct {
	ID          int64           `gorm:"primaryKey"         json:"id"`
	Name        string          `gorm:"size:255;not null"  json:"name"`
	DateOfBirth time.Time       `gorm:"type:date;not null" json:"dateOfBirth"`
	EmployerID  *int64          `gorm:"index"              json:"employerId,omitempty"`
	Employer    *employerRecord `gorm:"foreignKey:EmployerID" json:"employer,omitempty"`
}

func (employeeRecord) TableName() string {
	return "employee"
}

type quoteRecord struct {
	ID         int64           `gorm:"primaryKey"            json:"id"`
	Name       string          `gorm:"size:255;not null"     json:"name"`
	QuoteDate  time.Time       `gorm:"type:date;not null"    json:"quoteDate"`
	EmployerID int64           `gorm:"not null;index"        json:"employerId"`
	Employer   *employerRecord `gorm:"foreignKey:EmployerID" json:"employer,omitempty"`
}

func (quoteRecord) TableName() string {
	return "quote"
}

func idOf(id *int64) int64 {
	if id == nil {
		return 0
	}

	return *id
}

func employerToRecord(e *domain.Employer) *employerRecord {
	return &employerRecord{ID: idOf(e.ID), Name: e.Name}
}

func employerFromRecord(r *employerRecord) *domain.Employer {
	employer := domain.NewEmployer().WithID(r.ID).WithName(r.Name)

	if len(r.Employees) > 0 {
		employees := make([]*domain.Employee, len(r.Employees))
		for i := range r.Employees {
			employees[i] = employeeFromRecord(&r.Employees[i])
		}

		employer.SetEmployees(employees)
	}

	return employer
}

func employeeToRecord(e *domain.Employee) *employeeRecord {
	rec := &employeeRecord{
		ID:          idOf(e.ID),
		Name:        e.Name,
		DateOfBirth: domain.TruncateToDate(e.DateOfBirth),
	}

	if e.Employer != nil && e.Employer.ID != nil {
		id := *e.Employer.ID
		rec.EmployerID = &id
	}

	return rec
}

func employeeFromRecord(r *employeeRecord) *domain.Employee {
	employee := domain.NewEmployee().
		WithID(r.ID).
		WithName(r.Name).
		WithDateOfBirth(r.DateOfBirth)

	switch {
	case r.Employer != nil:
		employee.Employer = domain.NewEmployer().WithID(r.Employer.ID).WithName(r.Employer.Name)
	case r.EmployerID != nil:
		employee.Employer = domain.NewEmployer().WithID(*r.EmployerID)
	}

	return employee
}

func quoteToRecord(q *domain.Quote) *quoteRecord {
	rec := &quoteRecord{
		ID:        idOf(q.ID),
		Name:      q.Name,
		QuoteDate: domain.TruncateToDate(q.QuoteDate),
	}

	if q.Employer != nil {
		rec.EmployerID = idOf(q.Employer.ID)
	}

	return rec
}

func quoteFromRecord(r *quoteRecord) *domain.Quote {
	quote := domain.NewQuote().
		WithID(r.ID).
		WithName(r.Name).
		WithQuoteDate(r.QuoteDate)

	if r.Employer != nil {
		quote.Employer = domain.NewEmployer().WithID(r.Employer.ID).WithName(r.Employer.Name)
	} else {
		quote.Employer = domain.NewEmployer().WithID(r.EmployerID)
	}

	return quote
}
