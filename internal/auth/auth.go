// Package auth carries the per-request caller identity and the single
// role guard every mutating operation runs first.
package auth

import (
	"slices"

	"paisawise/internal/apperr"
	"paisawise/internal/model"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of one request. It is built by the
// middleware from the verified token and the membership store, never from
// client-supplied fields.
type Actor struct {
	UserID         uuid.UUID
	UserName       string
	Email          string
	OrganizationID uuid.UUID
	MembershipID   uuid.UUID
	Roles          []string
}

// HasOrganization reports whether the actor belongs to an organization at all.
func (a Actor) HasOrganization() bool {
	return a.OrganizationID != uuid.Nil && a.MembershipID != uuid.Nil
}

func (a Actor) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

// Require fails with Unauthorized unless the actor belongs to an
// organization and holds at least one of roles.
func Require(actor Actor, roles ...string) error {
	if !actor.HasOrganization() {
		return apperr.Unauthorized("you are not a member of any organization")
	}
	for _, r := range roles {
		if actor.HasRole(r) {
			return nil
		}
	}
	return apperr.Unauthorized("you are not authorized to perform this action")
}

// RequireOwner is the guard for ledger and budget writes.
func RequireOwner(actor Actor) error {
	return Require(actor, model.RoleOwner)
}

// RequireMember admits confirmed members and owners, not pending applicants.
func RequireMember(actor Actor) error {
	return Require(actor, model.RoleOwner, model.RoleAdmin, model.RoleMember)
}

// FromMembership builds an actor for user from its membership, which may be nil.
func FromMembership(user model.User, m *model.Membership) Actor {
	a := Actor{UserID: user.ID, UserName: user.Name, Email: user.Email}
	if m != nil {
		a.OrganizationID = m.OrganizationID
		a.MembershipID = m.ID
		a.Roles = append([]string(nil), m.Roles...)
	}
	return a
}
