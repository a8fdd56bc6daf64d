// Package policy gates every mutating operation with a pure rule table.
// Each action maps to one rule describing the required role, whether the
// caller must own the target, and whether an admin may override. The table
// is evaluated before the operation body runs; a denial is always
// ErrForbidden, never a silent no-op or a different error shape.
package policy

import (
	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"

	"github.com/google/uuid"
)

// Action identifies a gated operation.
type Action string

const (
	ActionOfferCreate Action = "offer.create"
	ActionOfferUpdate Action = "offer.update"
	ActionOfferDelete Action = "offer.delete"

	ActionOrderCreate       Action = "order.create"
	ActionOrderUpdateStatus Action = "order.update_status"
	ActionOrderDelete       Action = "order.delete"

	ActionReviewCreate Action = "review.create"
	ActionReviewUpdate Action = "review.update"
	ActionReviewDelete Action = "review.delete"

	ActionProfileUpdate Action = "profile.update"
)

// rule describes who may perform an action. Zero fields mean "not required":
// a rule with only requireOwner set admits any role that owns the target.
type rule struct {
	requireRole  entity.Role // Caller must hold this role, if non-empty.
	requireOwner bool        // Caller must be the target's owner.
	adminBypass  bool        // An admin passes regardless of role/ownership.
	adminOnly    bool        // Only admins may perform the action at all.
}

// rules is the complete authorization table. Adding an operation means adding
// a row here, not a new predicate hierarchy.
var rules = map[Action]rule{
	ActionOfferCreate: {requireRole: entity.RoleBusiness},
	ActionOfferUpdate: {requireRole: entity.RoleBusiness, requireOwner: true},
	ActionOfferDelete: {requireOwner: true, adminBypass: true},

	ActionOrderCreate:       {requireRole: entity.RoleCustomer},
	ActionOrderUpdateStatus: {requireRole: entity.RoleBusiness, requireOwner: true},
	ActionOrderDelete:       {adminOnly: true},

	ActionReviewCreate: {requireRole: entity.RoleCustomer},
	ActionReviewUpdate: {requireOwner: true},
	ActionReviewDelete: {requireOwner: true},

	ActionProfileUpdate: {requireOwner: true},
}

// Authorize evaluates the rule table for the given caller, action and target
// owner. ownerID is ignored for actions without an ownership requirement;
// pass uuid.Nil there. The returned error is nil or ErrForbidden.
func Authorize(p entity.Principal, action Action, ownerID uuid.UUID) error {
	r, ok := rules[action]
	if !ok {
		// Unknown actions are denied rather than silently allowed.
		return domainerrors.ErrForbidden.WithDetails("unknown action: " + string(action))
	}

	// Every gated action requires an authenticated caller.
	if p.IsAnonymous() {
		return domainerrors.ErrForbidden.WithDetails("authentication required")
	}

	if (r.adminBypass || r.adminOnly) && p.IsAdmin {
		return nil
	}
	if r.adminOnly {
		return domainerrors.ErrForbidden.WithDetails("requires administrator privileges")
	}

	if r.requireRole != "" && p.Role != r.requireRole {
		return domainerrors.ErrForbidden.WithDetails("requires '" + r.requireRole.String() + "' role")
	}

	if r.requireOwner && !p.Is(ownerID) {
		return domainerrors.ErrForbidden.WithDetails("caller does not own the target resource")
	}

	return nil
}
