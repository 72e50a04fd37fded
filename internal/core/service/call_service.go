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

type CallService struct {
	calls  ports.CallRepository
	leads  ports.LeadRepository
	users  ports.UserRepository
	policy AccessPolicy
	logger zerolog.Logger
}

func NewCallService(calls ports.CallRepository, leads ports.LeadRepository, users ports.UserRepository, logger zerolog.Logger) *CallService {
	return &CallService{calls: calls, leads: leads, users: users, logger: logger}
}

// RecordCall persists one phone-contact attempt and advances the lead through
// the status state machine.
//
// The call document is durably written before the lead mutation is attempted.
// The two writes are single-document operations with no transaction spanning
// them: when the lead update fails the call stays recorded, the failure is
// logged and counted, and the response still reports success.
func (s *CallService) RecordCall(ctx context.Context, input ports.RecordCallInput) (*ports.CallDetail, error) {
	lead, err := s.leads.FindByID(ctx, input.LeadID, "")
	if err != nil {
		return nil, err
	}
	if err := s.policy.CanModify(input.Identity, lead.CreatedBy); err != nil {
		return nil, err
	}
	if err := validateOutcome(input); err != nil {
		return nil, err
	}

	call := &domain.Call{
		LeadID:             lead.ID,
		UserID:             input.UserID,
		Status:             domain.CallStatus(input.Status),
		ConnectedResponse:  domain.ConnectedResponse(input.ConnectedResponse),
		NotConnectedReason: domain.NotConnectedReason(input.NotConnectedReason),
		DurationSeconds:    input.DurationSeconds,
		Notes:              input.Notes,
		CreatedAt:          time.Now().UTC(),
	}

	created, err := s.calls.Create(ctx, call)
	if err != nil {
		s.logger.Error().Err(err).Str("lead_id", lead.ID).Msg("failed to record call")
		return nil, err
	}
	metrics.CallsRecordedTotal.WithLabelValues(input.Status).Inc()

	changed := false
	next := domain.NextStatus(lead.Status, created.Outcome())
	if next != lead.Status {
		if err := s.leads.UpdateStatus(ctx, lead.ID, next, input.UserID); err != nil {
			// Call already persisted; status update is best-effort.
			metrics.LeadStatusUpdateErrorsTotal.Inc()
			s.logger.Warn().Err(err).
				Str("lead_id", lead.ID).
				Str("from", string(lead.Status)).
				Str("to", string(next)).
				Msg("call recorded but lead status update failed")
		} else {
			metrics.LeadTransitionsTotal.WithLabelValues(string(lead.Status), string(next)).Inc()
			lead.Status = next
			changed = true
		}
	}

	s.logger.Info().
		Str("call_id", created.ID).
		Str("lead_id", lead.ID).
		Str("user_id", input.UserID).
		Str("outcome", input.Status).
		Bool("lead_advanced", changed).
		Msg("call recorded")

	return &ports.CallDetail{
		Call:              created,
		Lead:              leadSummary(lead),
		User:              s.userSummary(ctx, input.UserID),
		LeadStatusChanged: changed,
	}, nil
}

// ListLeadCalls returns a page of calls recorded against one lead. The lead
// itself must be visible to the caller; the call rows are additionally
// narrowed to the caller's own calls for telecallers.
func (s *CallService) ListLeadCalls(ctx context.Context, input ports.ListLeadCallsInput) (*ports.ListCallsResult, error) {
	if _, err := s.leads.FindByID(ctx, input.LeadID, s.policy.LeadScope(input.Identity)); err != nil {
		return nil, err
	}

	page, limit := normalizePage(input.Page, input.Limit)
	items, total, err := s.calls.List(ctx, ports.ListCallsFilter{
		LeadID: input.LeadID,
		UserID: s.policy.CallScope(input.Identity),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	return s.buildListResult(ctx, items, total, page, limit)
}

// ListConnectedCalls returns a page of connected calls in the caller's scope.
func (s *CallService) ListConnectedCalls(ctx context.Context, input ports.ListConnectedCallsInput) (*ports.ListCallsResult, error) {
	page, limit := normalizePage(input.Page, input.Limit)
	items, total, err := s.calls.List(ctx, ports.ListCallsFilter{
		UserID:        s.policy.CallScope(input.Identity),
		ConnectedOnly: true,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		return nil, err
	}
	return s.buildListResult(ctx, items, total, page, limit)
}

func (s *CallService) buildListResult(ctx context.Context, items []*domain.Call, total int64, page, limit int) (*ports.ListCallsResult, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, c := range items {
		if _, ok := seen[c.UserID]; !ok {
			seen[c.UserID] = struct{}{}
			ids = append(ids, c.UserID)
		}
	}

	usersByID, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to resolve call users")
		usersByID = map[string]*domain.User{}
	}

	out := make([]ports.CallItem, len(items))
	for i, c := range items {
		item := ports.CallItem{Call: c, User: ports.UserSummary{ID: c.UserID}}
		if u, ok := usersByID[c.UserID]; ok {
			item.User = ports.UserSummary{ID: u.ID, Name: u.Name, Username: u.Username}
		}
		out[i] = item
	}

	return &ports.ListCallsResult{
		Items:      out,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// validateOutcome enforces the enum values of the call payload. The qualifier
// fields are validated when present but not required: a connected call without
// a connected_response is accepted. A qualifier that contradicts the status is
// rejected.
func validateOutcome(input ports.RecordCallInput) error {
	status := domain.CallStatus(input.Status)
	if !status.IsValid() {
		return fmt.Errorf("%w: status must be connected or not_connected", domain.ErrValidation)
	}
	if input.DurationSeconds < 0 {
		return fmt.Errorf("%w: duration must not be negative", domain.ErrValidation)
	}
	if input.ConnectedResponse != "" {
		if status != domain.CallConnected {
			return fmt.Errorf("%w: connected_response is only valid for connected calls", domain.ErrValidation)
		}
		if !domain.ConnectedResponse(input.ConnectedResponse).IsValid() {
			return fmt.Errorf("%w: unknown connected_response %q", domain.ErrValidation, input.ConnectedResponse)
		}
	}
	if input.NotConnectedReason != "" {
		if status != domain.CallNotConnected {
			return fmt.Errorf("%w: not_connected_reason is only valid for not_connected calls", domain.ErrValidation)
		}
		if !domain.NotConnectedReason(input.NotConnectedReason).IsValid() {
			return fmt.Errorf("%w: unknown not_connected_reason %q", domain.ErrValidation, input.NotConnectedReason)
		}
	}
	return nil
}

func leadSummary(l *domain.Lead) ports.LeadSummary {
	return ports.LeadSummary{
		ID:      l.ID,
		Name:    l.Name,
		Company: l.Company,
		Phone:   l.Phone,
		Status:  string(l.Status),
	}
}

func (s *CallService) userSummary(ctx context.Context, userID string) ports.UserSummary {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to resolve call user")
		return ports.UserSummary{ID: userID}
	}
	return ports.UserSummary{ID: u.ID, Name: u.Name, Username: u.Username}
}
