package ports

import (
	"context"

	"github.com/leadline/telecrm-api/internal/core/domain"
)

// RecordCallInput is the DTO passed from the transport layer to the call recorder.
type RecordCallInput struct {
	Identity
	LeadID             string
	Status             string
	ConnectedResponse  string
	NotConnectedReason string
	DurationSeconds    int
	Notes              string
}

// LeadSummary is the lead view embedded in call responses.
type LeadSummary struct {
	ID      string
	Name    string
	Company string
	Phone   string
	Status  string
}

// UserSummary is the user view embedded in call responses.
type UserSummary struct {
	ID       string
	Name     string
	Username string
}

// CallDetail is a call together with its resolved lead and user associations.
type CallDetail struct {
	Call *domain.Call
	Lead LeadSummary
	User UserSummary
	// LeadStatusChanged is true when recording this call advanced the lead.
	LeadStatusChanged bool
}

// ListLeadCallsInput carries the parameters for listing a lead's calls.
type ListLeadCallsInput struct {
	Identity
	LeadID string
	Page   int
	Limit  int
}

// ListConnectedCallsInput carries the parameters for the connected-calls list.
type ListConnectedCallsInput struct {
	Identity
	Page  int
	Limit int
}

// CallItem is a call with its placing user resolved for display.
type CallItem struct {
	Call *domain.Call
	User UserSummary
}

// ListCallsResult is returned by the call list operations.
type ListCallsResult struct {
	Items      []CallItem
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// CallService defines use-case operations for calls.
type CallService interface {
	RecordCall(ctx context.Context, input RecordCallInput) (*CallDetail, error)
	ListLeadCalls(ctx context.Context, input ListLeadCallsInput) (*ListCallsResult, error)
	ListConnectedCalls(ctx context.Context, input ListConnectedCallsInput) (*ListCallsResult, error)
}
