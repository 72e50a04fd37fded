package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/leadline/telecrm-api/internal/core/ports"
)

// ReportHandler serves the dashboard and trend aggregates.
type ReportHandler struct {
	service ports.ReportService
}

func NewReportHandler(service ports.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

type valueCountResponse struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type dashboardResponse struct {
	TotalLeads       int64                `json:"total_leads"`
	TotalCalls       int64                `json:"total_calls"`
	ConnectedCalls   int64                `json:"connected_calls"`
	ConnectionRate   string               `json:"connection_rate"`
	TotalTelecallers int64                `json:"total_telecallers"`
	LeadsBySource    []valueCountResponse `json:"leads_by_source"`
	LeadsByStatus    []valueCountResponse `json:"leads_by_status"`
}

type trendBucketResponse struct {
	Date           string `json:"date"`
	TotalCalls     int64  `json:"total_calls"`
	ConnectedCalls int64  `json:"connected_calls"`
}

type telecallerStatResponse struct {
	UserID     string `json:"user_id"`
	Name       string `json:"name"`
	Username   string `json:"username"`
	TotalCalls int64  `json:"total_calls"`
	Connected  int64  `json:"connected_calls"`
}

// Dashboard handles GET /v1/reports/dashboard.
//
// @Summary      Headline stats for the caller's scope
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dashboardResponse
// @Router       /v1/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Dashboard(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dashboardResponse{
		TotalLeads:       stats.TotalLeads,
		TotalCalls:       stats.TotalCalls,
		ConnectedCalls:   stats.ConnectedCalls,
		ConnectionRate:   stats.ConnectionRate,
		TotalTelecallers: stats.TotalTelecallers,
		LeadsBySource:    toValueCounts(stats.LeadsBySource),
		LeadsByStatus:    toValueCounts(stats.LeadsByStatus),
	})
}

// Trends handles GET /v1/reports/trends?days=N.
//
// @Summary      Daily call volume for the trailing window
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Window size in days (default 7, max 90)"
// @Success      200   {array}   trendBucketResponse
// @Router       /v1/reports/trends [get]
func (h *ReportHandler) Trends(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	buckets, err := h.service.CallTrends(c.Request().Context(), id, queryInt(c, "days"))
	if err != nil {
		return err
	}

	out := make([]trendBucketResponse, len(buckets))
	for i, b := range buckets {
		out[i] = trendBucketResponse{
			Date:           b.Date,
			TotalCalls:     b.TotalCalls,
			ConnectedCalls: b.ConnectedCalls,
		}
	}
	return c.JSON(http.StatusOK, out)
}

// Telecallers handles GET /v1/reports/telecallers?days=N (admin only).
//
// @Summary      Per-telecaller call leaderboard
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        days  query     int  false  "Window size in days (default 30, max 365)"
// @Success      200   {array}   telecallerStatResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/reports/telecallers [get]
func (h *ReportHandler) Telecallers(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.service.TelecallerStats(c.Request().Context(), id, queryInt(c, "days"))
	if err != nil {
		return err
	}

	out := make([]telecallerStatResponse, len(stats))
	for i, s := range stats {
		out[i] = telecallerStatResponse{
			UserID:     s.UserID,
			Name:       s.Name,
			Username:   s.Username,
			TotalCalls: s.TotalCalls,
			Connected:  s.Connected,
		}
	}
	return c.JSON(http.StatusOK, out)
}

func toValueCounts(in []ports.ValueCount) []valueCountResponse {
	out := make([]valueCountResponse, len(in))
	for i, vc := range in {
		out[i] = valueCountResponse{Value: vc.Value, Count: vc.Count}
	}
	return out
}
