package ports

import "context"

// DashboardStats is the headline dashboard payload.
type DashboardStats struct {
	TotalLeads     int64
	TotalCalls     int64
	ConnectedCalls int64
	// ConnectionRate is connected/total rendered as a percentage with two
	// decimals, e.g. "66.67%". "0%" when no calls are in scope.
	ConnectionRate   string
	TotalTelecallers int64
	LeadsBySource    []ValueCount
	LeadsByStatus    []ValueCount
}

// TrendBucket is one day of the fixed-window call trend. Days without
// activity still appear with zero counts.
type TrendBucket struct {
	Date           string // "2006-01-02", UTC calendar day
	TotalCalls     int64
	ConnectedCalls int64
}

// TelecallerStat is one row of the per-user call leaderboard.
type TelecallerStat struct {
	UserID     string
	Name       string
	Username   string
	TotalCalls int64
	Connected  int64
}

// ReportService computes dashboard and trend aggregates.
type ReportService interface {
	Dashboard(ctx context.Context, id Identity) (*DashboardStats, error)
	// CallTrends returns exactly days buckets covering [today-days+1, today].
	CallTrends(ctx context.Context, id Identity, days int) ([]TrendBucket, error)
	// TelecallerStats is admin-only; users with zero calls in the window are omitted.
	TelecallerStats(ctx context.Context, id Identity, days int) ([]TelecallerStat, error)
}
