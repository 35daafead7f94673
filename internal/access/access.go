// Package access is the role-gated access controller. It maps an actor's
// resolved role onto the closed capability set and is consulted by every
// service operation before any store is touched.
package access

import (
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
)

// Capability names one gated operation group. Listing a queue and acting on
// it share a capability (the CSO who can see pending visits is the CSO who
// decides them).
type Capability string

const (
	// CapRegisterVisit covers visitor registration and the employee picker.
	CapRegisterVisit Capability = "register_visit"
	// CapDecideVisit covers the pending queue plus approve/reject.
	CapDecideVisit Capability = "decide_visit"
	// CapCheckOutVisit covers the active-visit list plus checkout.
	CapCheckOutVisit Capability = "check_out_visit"
	// CapViewDashboard covers dashboard stats and recent activity.
	CapViewDashboard Capability = "view_dashboard"
)

// Actor is the authenticated caller as resolved by the auth collaborator.
// Services take it as an explicit parameter rather than reading ambient
// session state, so authorization is deterministic in tests.
type Actor struct {
	ID   id.UserID
	Role id.Role
}

// policy maps role → capabilities. Admin holds every capability; reception
// and cso stay disjoint so the registrar never approves their own
// registration and the approver never registers.
var policy = map[id.Role]map[Capability]bool{
	id.RoleReception: {
		CapRegisterVisit: true,
		CapCheckOutVisit: true,
	},
	id.RoleCSO: {
		CapDecideVisit: true,
	},
	id.RoleAdmin: {
		CapRegisterVisit: true,
		CapDecideVisit:   true,
		CapCheckOutVisit: true,
		CapViewDashboard: true,
	},
}

// Authorize checks the actor against the capability matrix. An actor with
// no resolvable role is unauthenticated (unauthorized), which is distinct
// from an authenticated actor whose role lacks the capability (forbidden).
func Authorize(actor Actor, capability Capability) error {
	if actor.ID.IsZero() || !actor.Role.Valid() {
		return dErrors.New(dErrors.CodeUnauthorized, "no resolvable actor or role")
	}
	if !policy[actor.Role][capability] {
		return dErrors.Newf(dErrors.CodeForbidden, "role %s may not %s", actor.Role, capability)
	}
	return nil
}
