package domain

// Role is the resolved authorization role of an authenticated actor. The
// capability matrix over roles lives in internal/access; this type only
// names the closed set.
type Role string

const (
	// RoleReception registers visitors and checks them out.
	RoleReception Role = "reception"
	// RoleCSO reviews pending visits and approves or rejects them.
	RoleCSO Role = "cso"
	// RoleAdmin holds every capability, including the dashboard views.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the closed set. An empty or
// unknown role means the actor is unauthenticated as far as the access
// controller is concerned.
func (r Role) Valid() bool {
	switch r {
	case RoleReception, RoleCSO, RoleAdmin:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }
