package models

import (
	"strconv"
	"strings"
	"time"

	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
)

// VisitStatus is the visit lifecycle state.
type VisitStatus string

const (
	StatusPendingApproval VisitStatus = "pending_approval"
	StatusCheckedIn       VisitStatus = "checked_in"
	StatusCheckedOut      VisitStatus = "checked_out"
	StatusRejected        VisitStatus = "rejected"
)

func (s VisitStatus) Valid() bool {
	switch s {
	case StatusPendingApproval, StatusCheckedIn, StatusCheckedOut, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s VisitStatus) Terminal() bool {
	return s == StatusCheckedOut || s == StatusRejected
}

// Visit is the aggregate root for one pass through the facility.
//
// Invariants:
//   - Status is exactly one of pending_approval, checked_in, checked_out,
//     rejected
//   - CheckInTime is set iff status is checked_in or checked_out
//   - CheckOutTime is set only for checked_out, only after CheckInTime,
//     and CheckOutTime >= CheckInTime
//   - RejectionReason is set iff status is rejected, and is non-empty
//   - ApprovedBy/ApprovedAt are set iff the visit passed an approval
//     decision (approve or reject), never while pending
//   - VisitorID and EmployeeID are immutable after creation
//
// Lifecycle: created in pending_approval; exactly one transition to
// checked_in (approve) or rejected (reject), both CSO decisions; from
// checked_in exactly one transition to checked_out. Rejected and
// checked_out are terminal.
//
// Transitions follow the Can*/Apply* split: Can* validates against the
// current state, Apply* mutates. The store's Transition method holds its
// lock (mutex or conditional UPDATE) across both so concurrent actors
// cannot double-apply a decision.
type Visit struct {
	ID         id.VisitID    `json:"id"`
	VisitorID  id.VisitorID  `json:"visitor_id"`
	EmployeeID id.EmployeeID `json:"employee_id"`
	Purpose    string        `json:"purpose"`
	Status     VisitStatus   `json:"status"`
	CreatedAt  time.Time     `json:"created_at"`

	ApprovedBy      id.UserID  `json:"cso_approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"cso_approved_at,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	CheckInTime     *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime    *time.Time `json:"check_out_time,omitempty"`
}

// NewVisit constructs a visit in pending_approval. The visitor and employee
// references must already be resolved; purpose is required.
func NewVisit(visitID id.VisitID, visitorID id.VisitorID, employeeID id.EmployeeID, purpose string, now time.Time) (*Visit, error) {
	purpose = strings.TrimSpace(purpose)
	if visitorID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visit requires a visitor reference")
	}
	if employeeID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "visit requires an employee reference")
	}
	if purpose == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "purpose of visit is required")
	}
	return &Visit{
		ID:         visitID,
		VisitorID:  visitorID,
		EmployeeID: employeeID,
		Purpose:    purpose,
		Status:     StatusPendingApproval,
		CreatedAt:  now,
	}, nil
}

// CanApprove checks the approve transition against the current state.
func (v *Visit) CanApprove() error {
	if v.Status != StatusPendingApproval {
		return dErrors.Newf(dErrors.CodeInvalidState, "cannot approve a visit in state %s", v.Status)
	}
	return nil
}

// ApplyApproval transitions pending_approval → checked_in, stamping the
// decision and the check-in in one step. Call CanApprove first; the store
// holds its lock across both.
func (v *Visit) ApplyApproval(actor id.UserID, now time.Time) {
	v.Status = StatusCheckedIn
	v.ApprovedBy = actor
	v.ApprovedAt = &now
	v.CheckInTime = &now
}

// CanReject checks the reject transition against the current state.
func (v *Visit) CanReject() error {
	if v.Status != StatusPendingApproval {
		return dErrors.Newf(dErrors.CodeInvalidState, "cannot reject a visit in state %s", v.Status)
	}
	return nil
}

// ApplyRejection transitions pending_approval → rejected. The reason is
// required non-blank upstream; it is user-visible to the requesting party.
func (v *Visit) ApplyRejection(actor id.UserID, reason string, now time.Time) {
	v.Status = StatusRejected
	v.ApprovedBy = actor
	v.ApprovedAt = &now
	v.RejectionReason = reason
}

// CanCheckOut checks the checkout transition against the current state.
func (v *Visit) CanCheckOut() error {
	if v.Status != StatusCheckedIn {
		return dErrors.Newf(dErrors.CodeInvalidState, "cannot check out a visit in state %s", v.Status)
	}
	return nil
}

// ApplyCheckOut transitions checked_in → checked_out. CheckOutTime never
// precedes CheckInTime even if the wall clock stepped backwards between
// requests.
func (v *Visit) ApplyCheckOut(now time.Time) {
	if v.CheckInTime != nil && now.Before(*v.CheckInTime) {
		now = *v.CheckInTime
	}
	v.Status = StatusCheckedOut
	v.CheckOutTime = &now
}

// Duration reports time on site, derived rather than stored: now minus
// check-in while checked in, check-out minus check-in after checkout.
func (v *Visit) Duration(now time.Time) (time.Duration, bool) {
	switch v.Status {
	case StatusCheckedIn:
		if v.CheckInTime == nil {
			return 0, false
		}
		return now.Sub(*v.CheckInTime), true
	case StatusCheckedOut:
		if v.CheckInTime == nil || v.CheckOutTime == nil {
			return 0, false
		}
		return v.CheckOutTime.Sub(*v.CheckInTime), true
	}
	return 0, false
}

// FormatDuration renders a duration as whole hours plus remainder minutes,
// floored ("2h 35m").
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int(d / time.Hour)
	minutes := int(d % time.Hour / time.Minute)
	return strconv.Itoa(hours) + "h " + strconv.Itoa(minutes) + "m"
}
