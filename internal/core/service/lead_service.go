package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadline/telecrm-api/internal/api/metrics"
	"github.com/leadline/telecrm-api/internal/core/domain"
	"github.com/leadline/telecrm-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type LeadService struct {
	leads  ports.LeadRepository
	calls  ports.CallRepository
	policy AccessPolicy
	logger zerolog.Logger
}

func NewLeadService(leads ports.LeadRepository, calls ports.CallRepository, logger zerolog.Logger) *LeadService {
	return &LeadService{leads: leads, calls: calls, logger: logger}
}

// CreateLead creates a new lead owned by the caller. Status always starts at
// "new"; an omitted source defaults to "other".
func (s *LeadService) CreateLead(ctx context.Context, input ports.CreateLeadInput) (*domain.Lead, error) {
	if input.Name == "" || input.Phone == "" {
		return nil, fmt.Errorf("%w: name and phone are required", domain.ErrValidation)
	}
	source := domain.LeadSource(input.Source)
	if source == "" {
		source = domain.SourceOther
	}
	if !source.IsValid() {
		return nil, fmt.Errorf("%w: unknown source %q", domain.ErrValidation, input.Source)
	}

	now := time.Now().UTC()
	lead := &domain.Lead{
		Name:           input.Name,
		Company:        input.Company,
		Phone:          input.Phone,
		Email:          input.Email,
		Address:        input.Address,
		Source:         source,
		Status:         domain.StatusNew,
		Notes:          input.Notes,
		CreatedBy:      input.UserID,
		LastModifiedBy: input.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.leads.Create(ctx, lead)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to create lead")
		return nil, err
	}

	metrics.LeadsCreatedTotal.WithLabelValues(string(source)).Inc()
	s.logger.Info().Str("lead_id", created.ID).Str("created_by", input.UserID).Msg("lead created")
	return created, nil
}

// GetLead retrieves one lead, narrowed by the caller's visibility scope.
func (s *LeadService) GetLead(ctx context.Context, id ports.Identity, leadID string) (*domain.Lead, error) {
	return s.leads.FindByID(ctx, leadID, s.policy.LeadScope(id))
}

// ListLeads returns a page of leads visible to the caller.
func (s *LeadService) ListLeads(ctx context.Context, input ports.ListLeadsInput) (*ports.ListLeadsResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)

	items, total, err := s.leads.List(ctx, ports.ListLeadsFilter{
		OwnerID:  s.policy.LeadScope(input.Identity),
		Status:   input.Status,
		Source:   input.Source,
		Search:   input.Search,
		DateFrom: input.DateFrom,
		DateTo:   input.DateTo,
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListLeadsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// UpdateLead applies an authorized edit. A non-empty Status is an explicit
// override of the state machine and must still be a known status value.
func (s *LeadService) UpdateLead(ctx context.Context, input ports.UpdateLeadInput) (*domain.Lead, error) {
	lead, err := s.leads.FindByID(ctx, input.LeadID, "")
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanModify(input.Identity, lead.CreatedBy); err != nil {
		return nil, err
	}

	if input.Name != "" {
		lead.Name = input.Name
	}
	if input.Company != "" {
		lead.Company = input.Company
	}
	if input.Phone != "" {
		lead.Phone = input.Phone
	}
	if input.Email != "" {
		lead.Email = input.Email
	}
	if input.Address != "" {
		lead.Address = input.Address
	}
	if input.Notes != "" {
		lead.Notes = input.Notes
	}
	if input.Source != "" {
		source := domain.LeadSource(input.Source)
		if !source.IsValid() {
			return nil, fmt.Errorf("%w: unknown source %q", domain.ErrValidation, input.Source)
		}
		lead.Source = source
	}
	if input.Status != "" {
		status := domain.LeadStatus(input.Status)
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, input.Status)
		}
		lead.Status = status
	}

	lead.LastModifiedBy = input.UserID
	lead.UpdatedAt = time.Now().UTC()

	if err := s.leads.Update(ctx, lead); err != nil {
		s.logger.Error().Err(err).Str("lead_id", lead.ID).Msg("failed to update lead")
		return nil, err
	}
	return lead, nil
}

// DeleteLead removes a lead and cascades deletion of every call recorded
// against it. Only the creator (if telecaller) or an admin may delete.
func (s *LeadService) DeleteLead(ctx context.Context, id ports.Identity, leadID string) error {
	lead, err := s.leads.FindByID(ctx, leadID, "")
	if err != nil {
		return err
	}
	if err := s.policy.CanModify(id, lead.CreatedBy); err != nil {
		return err
	}

	if err := s.leads.Delete(ctx, leadID); err != nil {
		return err
	}

	removed, err := s.calls.DeleteByLead(ctx, leadID)
	if err != nil {
		// The lead is already gone; orphaned calls are logged, not surfaced.
		s.logger.Warn().Err(err).Str("lead_id", leadID).Msg("failed to cascade call deletion")
		return nil
	}

	s.logger.Info().
		Str("lead_id", leadID).
		Str("deleted_by", id.UserID).
		Int64("calls_removed", removed).
		Msg("lead deleted")
	return nil
}

// normalizePage applies the default and cap to pagination parameters.
func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
