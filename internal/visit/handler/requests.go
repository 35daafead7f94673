package handler

import (
	"gatehouse/internal/visit/service"
	visitormodels "gatehouse/internal/visitor/models"
	id "gatehouse/pkg/domain"
)

// RegisterVisitRequest is the HTTP request for POST /visits.
type RegisterVisitRequest struct {
	Visitor struct {
		FullName string `json:"full_name"`
		Phone    string `json:"phone"`
		Email    string `json:"email"`
		Company  string `json:"company"`
		IDType   string `json:"id_type"`
		IDNumber string `json:"id_number"`
	} `json:"visitor"`
	EmployeeID string `json:"employee_id"`
	Purpose    string `json:"purpose"`
}

// ToInput converts the wire request to the service input. The employee id is
// parsed here at the trust boundary; field validation stays in the domain.
func (r RegisterVisitRequest) ToInput() (service.RegisterVisitInput, error) {
	employeeID, err := id.ParseEmployeeID(r.EmployeeID)
	if err != nil {
		return service.RegisterVisitInput{}, err
	}
	return service.RegisterVisitInput{
		Visitor: service.VisitorInput{
			FullName: r.Visitor.FullName,
			Phone:    r.Visitor.Phone,
			Email:    r.Visitor.Email,
			Company:  r.Visitor.Company,
			IDType:   visitormodels.IDType(r.Visitor.IDType),
			IDNumber: r.Visitor.IDNumber,
		},
		EmployeeID: employeeID,
		Purpose:    r.Purpose,
	}, nil
}

// RejectVisitRequest is the HTTP request for POST /visits/{id}/reject.
type RejectVisitRequest struct {
	Reason string `json:"reason"`
}
