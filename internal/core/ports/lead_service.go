package ports

import (
	"context"
	"time"

	"github.com/leadline/telecrm-api/internal/core/domain"
)

// CreateLeadInput carries all data needed to create a new lead.
// The caller becomes the lead's creator.
type CreateLeadInput struct {
	Identity
	Name    string
	Company string
	Phone   string
	Email   string
	Address string
	Source  string
	Notes   string
}

// UpdateLeadInput carries a lead edit. Empty fields are left unchanged.
// Status, when set, is an explicit authorized override of the state machine.
type UpdateLeadInput struct {
	Identity
	LeadID  string
	Name    string
	Company string
	Phone   string
	Email   string
	Address string
	Source  string
	Notes   string
	Status  string
}

// ListLeadsInput carries all parameters for the lead list endpoint.
type ListLeadsInput struct {
	Identity
	Status   string
	Source   string
	Search   string
	DateFrom time.Time
	DateTo   time.Time
	Page     int
	Limit    int
}

// ListLeadsResult is returned by ListLeads.
type ListLeadsResult struct {
	Items      []*domain.Lead
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// LeadService defines use-case operations for leads.
type LeadService interface {
	CreateLead(ctx context.Context, input CreateLeadInput) (*domain.Lead, error)
	GetLead(ctx context.Context, id Identity, leadID string) (*domain.Lead, error)
	ListLeads(ctx context.Context, input ListLeadsInput) (*ListLeadsResult, error)
	UpdateLead(ctx context.Context, input UpdateLeadInput) (*domain.Lead, error)
	// DeleteLead removes the lead and cascades deletion of its calls.
	DeleteLead(ctx context.Context, id Identity, leadID string) error
}
