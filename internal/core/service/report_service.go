package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadline/telecrm-api/internal/core/domain"
	"github.com/leadline/telecrm-api/internal/core/ports"
)

const (
	defaultTrendDays = 7
	maxTrendDays     = 90

	defaultStatsWindowDays = 30
	maxStatsWindowDays     = 365

	dayFormat = "2006-01-02"
)

// StatsCache caches the dashboard payload per scope. A nil cache disables
// caching; cache failures never fail the request.
type StatsCache interface {
	Get(ctx context.Context, scope string) (*ports.DashboardStats, error)
	Set(ctx context.Context, scope string, stats *ports.DashboardStats) error
}

// ReportService implements the aggregation engine: grouped counts, the
// gap-filled daily trend and the dashboard headline numbers.
type ReportService struct {
	leads  ports.LeadRepository
	calls  ports.CallRepository
	users  ports.UserRepository
	cache  StatsCache
	policy AccessPolicy
	logger zerolog.Logger

	now func() time.Time
}

func NewReportService(leads ports.LeadRepository, calls ports.CallRepository, users ports.UserRepository, cache StatsCache, logger zerolog.Logger) *ReportService {
	return &ReportService{
		leads:  leads,
		calls:  calls,
		users:  users,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// Dashboard computes the headline stats and lead breakdowns in the caller's
// scope. Admin dashboards additionally carry a per-owner lead breakdown.
func (s *ReportService) Dashboard(ctx context.Context, id ports.Identity) (*ports.DashboardStats, error) {
	scope := s.policy.LeadScope(id)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, scope); err != nil {
			s.logger.Warn().Err(err).Msg("stats cache read failed, recomputing")
		} else if cached != nil {
			return cached, nil
		}
	}

	totalLeads, err := s.leads.Count(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard: count leads: %w", err)
	}
	totalCalls, connectedCalls, err := s.calls.Count(ctx, s.policy.CallScope(id))
	if err != nil {
		return nil, fmt.Errorf("dashboard: count calls: %w", err)
	}
	totalTelecallers, err := s.users.CountByRole(ctx, domain.RoleTelecaller)
	if err != nil {
		return nil, fmt.Errorf("dashboard: count telecallers: %w", err)
	}
	bySource, err := s.leads.CountsBy(ctx, "source", scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard: leads by source: %w", err)
	}
	byStatus, err := s.leads.CountsBy(ctx, "status", scope)
	if err != nil {
		return nil, fmt.Errorf("dashboard: leads by status: %w", err)
	}

	stats := &ports.DashboardStats{
		TotalLeads:       totalLeads,
		TotalCalls:       totalCalls,
		ConnectedCalls:   connectedCalls,
		ConnectionRate:   connectionRate(connectedCalls, totalCalls),
		TotalTelecallers: totalTelecallers,
		LeadsBySource:    bySource,
		LeadsByStatus:    byStatus,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, scope, stats); err != nil {
			s.logger.Warn().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}

// CallTrends returns exactly days buckets covering [today-days+1, today],
// zero-filling days the store reports nothing for. Bucketing is by UTC
// calendar day of the call's creation timestamp.
func (s *ReportService) CallTrends(ctx context.Context, id ports.Identity, days int) ([]ports.TrendBucket, error) {
	if days <= 0 {
		days = defaultTrendDays
	}
	if days > maxTrendDays {
		days = maxTrendDays
	}

	today := dayStart(s.now().UTC())
	from := today.AddDate(0, 0, -(days - 1))

	rows, err := s.calls.CountsPerDay(ctx, from, s.policy.CallScope(id))
	if err != nil {
		return nil, fmt.Errorf("call trends: %w", err)
	}

	byDay := make(map[string]ports.DailyCallCount, len(rows))
	for _, r := range rows {
		byDay[r.Day] = r
	}

	buckets := make([]ports.TrendBucket, days)
	for i := 0; i < days; i++ {
		day := from.AddDate(0, 0, i).Format(dayFormat)
		b := ports.TrendBucket{Date: day}
		if r, ok := byDay[day]; ok {
			b.TotalCalls = r.Total
			b.ConnectedCalls = r.Connected
		}
		buckets[i] = b
	}
	return buckets, nil
}

// TelecallerStats is the admin-only per-user leaderboard over the trailing
// window. Users with zero calls in the window are omitted; unlike the daily
// trend there is no zero-fill here.
func (s *ReportService) TelecallerStats(ctx context.Context, id ports.Identity, days int) ([]ports.TelecallerStat, error) {
	if err := s.policy.RequireAdmin(id); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = defaultStatsWindowDays
	}
	if days > maxStatsWindowDays {
		days = maxStatsWindowDays
	}

	from := dayStart(s.now().UTC()).AddDate(0, 0, -(days - 1))
	rows, err := s.calls.CountsPerUser(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("telecaller stats: %w", err)
	}

	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.UserID
	}
	usersByID, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to resolve telecaller names")
		usersByID = map[string]*domain.User{}
	}

	stats := make([]ports.TelecallerStat, len(rows))
	for i, r := range rows {
		stat := ports.TelecallerStat{
			UserID:     r.UserID,
			TotalCalls: r.Total,
			Connected:  r.Connected,
		}
		if u, ok := usersByID[r.UserID]; ok {
			stat.Name = u.Name
			stat.Username = u.Username
		}
		stats[i] = stat
	}

	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalCalls > stats[j].TotalCalls
	})
	return stats, nil
}

// connectionRate renders connected/total as a percentage with two decimals,
// or "0%" when there are no calls.
func connectionRate(connected, total int64) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", float64(connected)/float64(total)*100)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
