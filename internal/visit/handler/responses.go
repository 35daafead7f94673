package handler

import (
	"time"

	"gatehouse/internal/visit/models"
	"gatehouse/internal/visit/service"
	visitormodels "gatehouse/internal/visitor/models"
)

// VisitResponse is the wire shape of a visit.
type VisitResponse struct {
	ID              string     `json:"id"`
	VisitorID       string     `json:"visitor_id"`
	EmployeeID      string     `json:"employee_id"`
	Purpose         string     `json:"purpose"`
	Status          string     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	ApprovedBy      string     `json:"cso_approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"cso_approved_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CheckInTime     *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime    *time.Time `json:"check_out_time,omitempty"`
}

// VisitDetailResponse adds the joined display fields the desk screens show.
type VisitDetailResponse struct {
	VisitResponse
	VisitorName    string `json:"visitor_name"`
	VisitorPhone   string `json:"visitor_phone"`
	VisitorCompany string `json:"visitor_company,omitempty"`
	EmployeeName   string `json:"employee_name"`
	Duration       string `json:"duration,omitempty"`
}

// RegisterVisitResponse is the HTTP response for POST /visits.
type RegisterVisitResponse struct {
	Visit   VisitResponse         `json:"visit"`
	Visitor visitormodels.Visitor `json:"visitor"`
}

func fromVisit(visit *models.Visit) VisitResponse {
	resp := VisitResponse{
		ID:              visit.ID.String(),
		VisitorID:       visit.VisitorID.String(),
		EmployeeID:      visit.EmployeeID.String(),
		Purpose:         visit.Purpose,
		Status:          string(visit.Status),
		CreatedAt:       visit.CreatedAt,
		ApprovedAt:      visit.ApprovedAt,
		RejectionReason: visit.RejectionReason,
		CheckInTime:     visit.CheckInTime,
		CheckOutTime:    visit.CheckOutTime,
	}
	if !visit.ApprovedBy.IsZero() {
		resp.ApprovedBy = visit.ApprovedBy.String()
	}
	return resp
}

func fromDetails(details []*service.VisitDetail) []VisitDetailResponse {
	out := make([]VisitDetailResponse, 0, len(details))
	for _, detail := range details {
		out = append(out, VisitDetailResponse{
			VisitResponse:  fromVisit(detail.Visit),
			VisitorName:    detail.VisitorName,
			VisitorPhone:   detail.VisitorPhone,
			VisitorCompany: detail.VisitorCompany,
			EmployeeName:   detail.EmployeeName,
			Duration:       detail.Duration,
		})
	}
	return out
}
