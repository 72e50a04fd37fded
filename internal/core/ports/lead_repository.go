package ports

import (
	"context"
	"time"

	"github.com/leadline/telecrm-api/internal/core/domain"
)

// ListLeadsFilter carries all query parameters for listing leads.
// OwnerID is always enforced by the service layer (access policy).
type ListLeadsFilter struct {
	OwnerID  string    // empty = no filter (admin); non-empty = scoped to creator
	Status   string    // optional: filter by lead status
	Source   string    // optional: filter by lead source
	Search   string    // optional: partial match on name, company or phone
	DateFrom time.Time // optional: created_at >= DateFrom
	DateTo   time.Time // optional: created_at <= DateTo
	Page     int       // 1-based
	Limit    int       // max rows per page (capped at 100 by service)
}

// ValueCount is one row of a grouped count, e.g. ("website", 12).
type ValueCount struct {
	Value string
	Count int64
}

// LeadRepository defines persistence operations for leads.
type LeadRepository interface {
	Create(ctx context.Context, l *domain.Lead) (*domain.Lead, error)
	// FindByID retrieves a lead by id. When ownerID is non-empty, the query is
	// additionally filtered by created_by (for role scoping).
	FindByID(ctx context.Context, id string, ownerID string) (*domain.Lead, error)
	// List returns a page of leads matching filter and the total count.
	List(ctx context.Context, filter ListLeadsFilter) ([]*domain.Lead, int64, error)
	// Update persists the mutable fields of an existing lead.
	Update(ctx context.Context, l *domain.Lead) error
	// UpdateStatus sets only status and last_modified_by, used by the call recorder.
	UpdateStatus(ctx context.Context, id string, status domain.LeadStatus, modifiedBy string) error
	Delete(ctx context.Context, id string) error
	// Count returns the number of leads in scope.
	Count(ctx context.Context, ownerID string) (int64, error)
	// CountsBy groups leads in scope by a dimension field ("source", "status"
	// or "created_by") and returns the counts sorted descending.
	CountsBy(ctx context.Context, field string, ownerID string) ([]ValueCount, error)
}
