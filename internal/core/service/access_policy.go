package service

import (
	"github.com/leadline/telecrm-api/internal/core/domain"
	"github.com/leadline/telecrm-api/internal/core/ports"
)

// AccessPolicy is the single place role-scoped visibility and write
// authorization are decided. Every read path narrows its query through a
// scope method; every write path goes through an authorization method.
// Denials are domain.ErrForbidden, never a silently empty result.
type AccessPolicy struct{}

// LeadScope returns the created_by filter for lead queries: empty for admins
// (sees everything), the caller's own id for telecallers.
func (AccessPolicy) LeadScope(id ports.Identity) string {
	if id.Role == domain.RoleAdmin {
		return ""
	}
	return id.UserID
}

// CallScope returns the user_id filter for call queries.
func (AccessPolicy) CallScope(id ports.Identity) string {
	if id.Role == domain.RoleAdmin {
		return ""
	}
	return id.UserID
}

// CanModify authorizes a write against a resource owned by ownerID:
// admins always, telecallers only against their own resources.
func (AccessPolicy) CanModify(id ports.Identity, ownerID string) error {
	if id.Role == domain.RoleAdmin {
		return nil
	}
	if ownerID != "" && ownerID == id.UserID {
		return nil
	}
	return domain.ErrForbidden
}

// CanManageUser authorizes access to a user record: everyone may touch their
// own record (self-service), only admins may touch anyone else's.
func (AccessPolicy) CanManageUser(id ports.Identity, targetID string) error {
	if targetID != "" && targetID == id.UserID {
		return nil
	}
	if id.Role == domain.RoleAdmin {
		return nil
	}
	return domain.ErrForbidden
}

// RequireAdmin gates admin-only operations.
func (AccessPolicy) RequireAdmin(id ports.Identity) error {
	if id.Role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return nil
}
