package ports

import (
	"context"
	"time"

	"github.com/leadline/telecrm-api/internal/core/domain"
)

// ListCallsFilter carries query parameters for listing calls.
type ListCallsFilter struct {
	LeadID        string // optional: calls against one lead
	UserID        string // empty = no filter (admin); non-empty = scoped to placing user
	ConnectedOnly bool
	Page          int
	Limit         int
}

// DailyCallCount is one day's worth of call activity as grouped by the store.
// Days with no activity do not appear; the aggregation engine zero-fills them.
type DailyCallCount struct {
	Day       string // "2006-01-02", UTC calendar day
	Total     int64
	Connected int64
}

// UserCallCount is one user's call activity within a window.
type UserCallCount struct {
	UserID    string
	Total     int64
	Connected int64
}

// CallRepository defines persistence operations for calls.
type CallRepository interface {
	Create(ctx context.Context, c *domain.Call) (*domain.Call, error)
	List(ctx context.Context, filter ListCallsFilter) ([]*domain.Call, int64, error)
	// DeleteByLead removes every call referencing the lead (cascade on lead
	// deletion) and returns the number removed.
	DeleteByLead(ctx context.Context, leadID string) (int64, error)
	// Count returns total and connected call counts in scope.
	Count(ctx context.Context, userID string) (total int64, connected int64, err error)
	// CountsPerDay groups calls created at or after from by UTC calendar day.
	CountsPerDay(ctx context.Context, from time.Time, userID string) ([]DailyCallCount, error)
	// CountsPerUser groups calls created at or after from by placing user,
	// sorted descending by total.
	CountsPerUser(ctx context.Context, from time.Time) ([]UserCallCount, error)
}
