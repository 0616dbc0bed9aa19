package dto

import "github.com/boostclient/boostclient-service/internal/domain"

// EmployerRequest is the body of employer create, update and patch requests.
type EmployerRequest struct {
	ID   *int64  `json:"id"`
	Name *string `json:"name" validate:"required,notempty,max=255"`
}

// ToEntity converts the request to a domain employer.
func (r *EmployerRequest) ToEntity() *domain.Employer {
	return &domain.Employer{
		ID:   r.ID,
		Name: deref(r.Name),
	}
}

// ToPatch converts the request to a merge patch.
func (r *EmployerRequest) ToPatch() domain.EmployerPatch {
	return domain.EmployerPatch{ID: r.ID, Name: r.Name}
}

// EmployerResponse is the representation of an employer. Its employees are
// listed without their employer.
type EmployerResponse struct {
	ID        *int64            `json:"id"`
	Name      string            `json:"name"`
	Employees []EmployeeSummary `json:"employees"`
}

// EmployeeSummary is an employee as listed under its employer.
type EmployeeSummary struct {
	ID          *int64 `json:"id"`
	Name        string `json:"name"`
	DateOfBirth *Date  `json:"dateOfBirth"`
}

// EmployerRef is an employer as embedded in a quote or an employee.
type EmployerRef struct {
	ID   *int64 `json:"id"`
	Name string `json:"name"`
}

// EntityRef references another entity by id in a request body.
type EntityRef struct {
	ID *int64 `json:"id" validate:"required"`
}

// NewEmployerResponse builds the response for e.
func NewEmployerResponse(e *domain.Employer) EmployerResponse {
	employees := e.Employees()

	resp := EmployerResponse{
		ID:        e.ID,
		Name:      e.Name,
		Employees: make([]EmployeeSummary, 0, len(employees)),
	}

	for _, emp := range employees {
		resp.Employees = append(resp.Employees, EmployeeSummary{
			ID:          emp.ID,
			Name:        emp.Name,
			DateOfBirth: NewDate(emp.DateOfBirth),
		})
	}

	return resp
}

func newEmployerRef(e *domain.Employer) *EmployerRef {
	if e == nil {
		return nil
	}

	return &EmployerRef{ID: e.ID, Name: e.Name}
}

func (r *EntityRef) employer() *domain.Employer {
	if r == nil || r.ID == nil {
		return nil
	}

	return domain.NewEmployer().WithID(*r.ID)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}

	return *p
}
