package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
)

func actorWith(role id.Role) Actor {
	return Actor{ID: id.NewUserID(), Role: role}
}

// TestCapabilityMatrix pins the full role/capability table.
func TestCapabilityMatrix(t *testing.T) {
	cases := []struct {
		role       id.Role
		capability Capability
		allowed    bool
	}{
		{id.RoleReception, CapRegisterVisit, true},
		{id.RoleReception, CapDecideVisit, false},
		{id.RoleReception, CapCheckOutVisit, true},
		{id.RoleReception, CapViewDashboard, false},

		{id.RoleCSO, CapRegisterVisit, false},
		{id.RoleCSO, CapDecideVisit, true},
		{id.RoleCSO, CapCheckOutVisit, false},
		{id.RoleCSO, CapViewDashboard, false},

		{id.RoleAdmin, CapRegisterVisit, true},
		{id.RoleAdmin, CapDecideVisit, true},
		{id.RoleAdmin, CapCheckOutVisit, true},
		{id.RoleAdmin, CapViewDashboard, true},
	}

	for _, tc := range cases {
		err := Authorize(actorWith(tc.role), tc.capability)
		if tc.allowed {
			assert.NoError(t, err, "%s should hold %s", tc.role, tc.capability)
		} else {
			assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden),
				"%s should be forbidden %s, got %v", tc.role, tc.capability, err)
		}
	}
}

func TestUnauthenticatedIsDistinctFromForbidden(t *testing.T) {
	t.Run("missing role", func(t *testing.T) {
		err := Authorize(Actor{ID: id.NewUserID()}, CapRegisterVisit)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
		assert.False(t, dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	t.Run("unknown role", func(t *testing.T) {
		err := Authorize(Actor{ID: id.NewUserID(), Role: "janitor"}, CapRegisterVisit)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	t.Run("missing actor id", func(t *testing.T) {
		err := Authorize(Actor{Role: id.RoleAdmin}, CapViewDashboard)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
}
