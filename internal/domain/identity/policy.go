package identity

import (
	"github.com/estate/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Action is an operation a subject wants to perform on a resource
type Action string

const (
	ActionView    Action = "view"
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionPay     Action = "pay"
	ActionInvoice Action = "invoice"
)

// ResourceKind identifies the type of resource under access control
type ResourceKind string

const (
	KindProperty ResourceKind = "property"
	KindPurchase ResourceKind = "purchase"
	KindPayment  ResourceKind = "payment"
	KindPost     ResourceKind = "post"
	KindUser     ResourceKind = "user"
)

// Subject is the requesting identity as seen by the policy
type Subject struct {
	UserID        uuid.UUID
	Role          Role
	Authenticated bool
}

// AnonymousSubject returns an unauthenticated subject
func AnonymousSubject() Subject {
	return Subject{}
}

// Resource describes the target of an access check. OwnerID is the
// buyer for purchases and payments, the owner for properties, and the
// author for posts. AgentID is set for properties with an assigned
// agent. Public marks resources readable without authentication.
type Resource struct {
	Kind    ResourceKind
	ID      uuid.UUID
	OwnerID uuid.UUID
	AgentID *uuid.UUID
	Public  bool
}

// Authorize is the single policy evaluation point for every handler
// and service. Existence of the resource must be established by the
// caller before this check so absent entities surface as not-found to
// authorized and unauthorized callers alike.
//
// Rules: admins may do anything; public resources may be viewed by
// anyone; owners may operate on their own resources; assigned agents
// may operate on their properties; agents may create listings and
// posts; any authenticated user may initiate purchases and payments.
func Authorize(subject Subject, action Action, resource Resource) error {
	if !subject.Authenticated {
		if action == ActionView && resource.Public {
			return nil
		}
		return shared.ErrUnauthorized
	}

	if subject.Role == RoleAdmin {
		return nil
	}

	if action == ActionView && resource.Public {
		return nil
	}

	if action == ActionCreate {
		switch resource.Kind {
		case KindProperty, KindPost:
			if subject.Role == RoleAgent {
				return nil
			}
			return shared.ErrForbidden
		case KindPurchase, KindPayment:
			return nil
		}
		return shared.ErrForbidden
	}

	if resource.OwnerID != uuid.Nil && subject.UserID == resource.OwnerID {
		return nil
	}

	if resource.AgentID != nil && subject.UserID == *resource.AgentID {
		return nil
	}

	return shared.ErrForbidden
}
