// Package policy holds the single access-control decision table for orders.
// Decisions are pure and recomputed on every call.
package policy

import (
	"fmt"

	"github.com/sirpyerre/pizza-delivery-api/internal/core/domain"
)

// Action is the kind of access requested on an order.
type Action string

const (
	ReadOwn         Action = "read_own"
	ReadAny         Action = "read_any"
	WriteAny        Action = "write_any"
	WriteStatusOnly Action = "write_status_only"
	Delete          Action = "delete"
)

// rule decides whether an authenticated principal may perform an action on a
// resource owned by ownerID. ownerID is empty for actions not scoped to a resource.
type rule func(p domain.Principal, ownerID string) bool

func authenticated(domain.Principal, string) bool { return true }

func staffOnly(p domain.Principal, _ string) bool { return p.IsStaff }

func ownerOrStaff(p domain.Principal, ownerID string) bool {
	return p.IsStaff || (ownerID != "" && ownerID == p.UserID)
}

// Policy evaluates the decision table.
//
// RestrictMutations narrows WriteAny and Delete to the owner or staff. It is
// off by default, which keeps both open to any authenticated principal.
type Policy struct {
	RestrictMutations bool
}

// New returns a Policy.
func New(restrictMutations bool) Policy {
	return Policy{RestrictMutations: restrictMutations}
}

func (pol Policy) rules() map[Action]rule {
	mutate := rule(authenticated)
	if pol.RestrictMutations {
		mutate = ownerOrStaff
	}
	return map[Action]rule{
		ReadOwn:         authenticated,
		ReadAny:         staffOnly,
		WriteAny:        mutate,
		WriteStatusOnly: staffOnly,
		Delete:          mutate,
	}
}

// Authorize returns nil when the action is allowed. An anonymous principal
// gets domain.ErrUnauthenticated, a denied one domain.ErrForbidden.
func (pol Policy) Authorize(p domain.Principal, ownerID string, action Action) error {
	if !p.Authenticated() {
		return domain.ErrUnauthenticated
	}
	allow, ok := pol.rules()[action]
	if !ok {
		return fmt.Errorf("%w: unknown action %q", domain.ErrForbidden, action)
	}
	if !allow(p, ownerID) {
		return fmt.Errorf("%w: %s not permitted", domain.ErrForbidden, action)
	}
	return nil
}

// NeedsOwner reports whether the decision for action depends on the resource
// owner, so callers know to load the resource before authorizing.
func (pol Policy) NeedsOwner(action Action) bool {
	return pol.RestrictMutations && (action == WriteAny || action == Delete)
}
