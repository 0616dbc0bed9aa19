package dto

import "github.com/boostclient/boostclient-service/internal/domain"

// EmployeeRequest is the body of employee create, update and patch requests.
// Create and full update must name an employer, although storage allows an
// employee without one.
type EmployeeRequest struct {
	ID          *int64     `json:"id"`
	Name        *string    `json:"name"        validate:"required,notempty,max=255"`
	DateOfBirth *Date      `json:"dateOfBirth" validate:"required"`
	Employer    *EntityRef `json:"employer"    validate:"required"`
}

// ToEntity converts the request to a domain employee.
func (r *EmployeeRequest) ToEntity() *domain.Employee {
	return &domain.Employee{
		ID:          r.ID,
		Name:        deref(r.Name),
		DateOfBirth: r.DateOfBirth.timeOrZero(),
		Employer:    r.Employer.employer(),
	}
}

// ToPatch converts the request to a merge patch. The employer is ignored.
func (r *EmployeeRequest) ToPatch() domain.EmployeePatch {
	return domain.EmployeePatch{
		ID:          r.ID,
		Name:        r.Name,
		DateOfBirth: r.DateOfBirth.timePtr(),
	}
}

// EmployeeResponse is the representation of an employee.
type EmployeeResponse struct {
	ID          *int64       `json:"id"`
	Name        string       `json:"name"`
	DateOfBirth *Date        `json:"dateOfBirth"`
	Employer    *EmployerRef `json:"employer"`
}

// NewEmployeeResponse builds the response for e.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		DateOfBirth: NewDate(e.DateOfBirth),
		Employer:    newEmployerRef(e.Employer),
	}
}
