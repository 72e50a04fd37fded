package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadline/telecrm-api/internal/core/domain"
	"github.com/leadline/telecrm-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories (shared across the service tests)
// ---------------------------------------------------------------------------

type stubLeadRepo struct {
	leads         map[string]*domain.Lead
	seq           int
	lastFindScope string // ownerID passed to the last FindByID call
	createErr     error
	updateStatErr error // if set, UpdateStatus returns this error
}

func newStubLeadRepo() *stubLeadRepo {
	return &stubLeadRepo{leads: make(map[string]*domain.Lead)}
}

func (r *stubLeadRepo) Create(_ context.Context, l *domain.Lead) (*domain.Lead, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *l
	clone.ID = fmt.Sprintf("lead_%d", r.seq)
	r.leads[clone.ID] = &clone
	out := clone
	return &out, nil
}

func (r *stubLeadRepo) FindByID(_ context.Context, id, ownerID string) (*domain.Lead, error) {
	r.lastFindScope = ownerID
	l, ok := r.leads[id]
	if !ok {
		return nil, domain.ErrLeadNotFound
	}
	// Enforce the scope filter (mirrors the real Mongo query)
	if ownerID != "" && l.CreatedBy != ownerID {
		return nil, domain.ErrLeadNotFound
	}
	clone := *l
	return &clone, nil
}

func (r *stubLeadRepo) List(_ context.Context, f ports.ListLeadsFilter) ([]*domain.Lead, int64, error) {
	var matched []*domain.Lead
	for _, l := range r.leads {
		if f.OwnerID != "" && l.CreatedBy != f.OwnerID {
			continue
		}
		if f.Status != "" && string(l.Status) != f.Status {
			continue
		}
		if f.Source != "" && string(l.Source) != f.Source {
			continue
		}
		if !f.DateFrom.IsZero() && l.CreatedAt.Before(f.DateFrom) {
			continue
		}
		if !f.DateTo.IsZero() && l.CreatedAt.After(f.DateTo) {
			continue
		}
		if f.Search != "" {
			q := strings.ToLower(f.Search)
			if !strings.Contains(strings.ToLower(l.Name), q) &&
				!strings.Contains(strings.ToLower(l.Company), q) &&
				!strings.Contains(l.Phone, q) {
				continue
			}
		}
		clone := *l
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return nil, total, nil
	}
	end := skip + f.Limit
	if f.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubLeadRepo) Update(_ context.Context, l *domain.Lead) error {
	if _, ok := r.leads[l.ID]; !ok {
		return domain.ErrLeadNotFound
	}
	clone := *l
	r.leads[l.ID] = &clone
	return nil
}

func (r *stubLeadRepo) UpdateStatus(_ context.Context, id string, status domain.LeadStatus, modifiedBy string) error {
	if r.updateStatErr != nil {
		return r.updateStatErr
	}
	l, ok := r.leads[id]
	if !ok {
		return domain.ErrLeadNotFound
	}
	l.Status = status
	l.LastModifiedBy = modifiedBy
	l.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *stubLeadRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.leads[id]; !ok {
		return domain.ErrLeadNotFound
	}
	delete(r.leads, id)
	return nil
}

func (r *stubLeadRepo) Count(_ context.Context, ownerID string) (int64, error) {
	var n int64
	for _, l := range r.leads {
		if ownerID == "" || l.CreatedBy == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *stubLeadRepo) CountsBy(_ context.Context, field, ownerID string) ([]ports.ValueCount, error) {
	counts := make(map[string]int64)
	for _, l := range r.leads {
		if ownerID != "" && l.CreatedBy != ownerID {
			continue
		}
		switch field {
		case "source":
			counts[string(l.Source)]++
		case "status":
			counts[string(l.Status)]++
		case "created_by":
			counts[l.CreatedBy]++
		}
	}
	out := make([]ports.ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ports.ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})
	return out, nil
}

type stubCallRepo struct {
	calls        []*domain.Call
	seq          int
	createErr    error
	deleteErr    error
	deletedLeads []string
}

func (r *stubCallRepo) Create(_ context.Context, c *domain.Call) (*domain.Call, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.seq++
	clone := *c
	clone.ID = fmt.Sprintf("call_%d", r.seq)
	r.calls = append(r.calls, &clone)
	out := clone
	return &out, nil
}

func (r *stubCallRepo) List(_ context.Context, f ports.ListCallsFilter) ([]*domain.Call, int64, error) {
	var matched []*domain.Call
	for _, c := range r.calls {
		if f.LeadID != "" && c.LeadID != f.LeadID {
			continue
		}
		if f.UserID != "" && c.UserID != f.UserID {
			continue
		}
		if f.ConnectedOnly && c.Status != domain.CallConnected {
			continue
		}
		clone := *c
		matched = append(matched, &clone)
	}
	total := int64(len(matched))
	skip := (f.Page - 1) * f.Limit
	if skip < 0 {
		skip = 0
	}
	if skip > len(matched) {
		return nil, total, nil
	}
	end := skip + f.Limit
	if f.Limit <= 0 || end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func (r *stubCallRepo) DeleteByLead(_ context.Context, leadID string) (int64, error) {
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	r.deletedLeads = append(r.deletedLeads, leadID)
	var kept []*domain.Call
	var removed int64
	for _, c := range r.calls {
		if c.LeadID == leadID {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	r.calls = kept
	return removed, nil
}

func (r *stubCallRepo) Count(_ context.Context, userID string) (int64, int64, error) {
	var total, connected int64
	for _, c := range r.calls {
		if userID != "" && c.UserID != userID {
			continue
		}
		total++
		if c.Status == domain.CallConnected {
			connected++
		}
	}
	return total, connected, nil
}

func (r *stubCallRepo) CountsPerDay(_ context.Context, from time.Time, userID string) ([]ports.DailyCallCount, error) {
	byDay := make(map[string]*ports.DailyCallCount)
	for _, c := range r.calls {
		if c.CreatedAt.Before(from) {
			continue
		}
		if userID != "" && c.UserID != userID {
			continue
		}
		day := c.CreatedAt.UTC().Format("2006-01-02")
		row, ok := byDay[day]
		if !ok {
			row = &ports.DailyCallCount{Day: day}
			byDay[day] = row
		}
		row.Total++
		if c.Status == domain.CallConnected {
			row.Connected++
		}
	}
	out := make([]ports.DailyCallCount, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	return out, nil
}

func (r *stubCallRepo) CountsPerUser(_ context.Context, from time.Time) ([]ports.UserCallCount, error) {
	byUser := make(map[string]*ports.UserCallCount)
	for _, c := range r.calls {
		if c.CreatedAt.Before(from) {
			continue
		}
		row, ok := byUser[c.UserID]
		if !ok {
			row = &ports.UserCallCount{UserID: c.UserID}
			byUser[c.UserID] = row
		}
		row.Total++
		if c.Status == domain.CallConnected {
			row.Connected++
		}
	}
	out := make([]ports.UserCallCount, 0, len(byUser))
	for _, row := range byUser {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func admin() ports.Identity {
	return ports.Identity{UserID: "admin_1", Role: domain.RoleAdmin}
}

func telecaller(userID string) ports.Identity {
	return ports.Identity{UserID: userID, Role: domain.RoleTelecaller}
}

func seedLead(repo *stubLeadRepo, id, createdBy string, status domain.LeadStatus) *domain.Lead {
	now := time.Now().UTC()
	l := &domain.Lead{
		ID:        id,
		Name:      "Acme Contact",
		Phone:     "+911234567890",
		Source:    domain.SourceWebsite,
		Status:    status,
		CreatedBy: createdBy,
		CreatedAt: now,
		UpdatedAt: now,
	}
	repo.leads[id] = l
	return l
}

// ---------------------------------------------------------------------------
// CreateLead tests
// ---------------------------------------------------------------------------

func TestLeadService_Create_Success(t *testing.T) {
	repo := newStubLeadRepo()
	svc := NewLeadService(repo, &stubCallRepo{}, discardLogger)

	lead, err := svc.CreateLead(context.Background(), ports.CreateLeadInput{
		Identity: telecaller("tc_1"),
		Name:     "Ravi Kumar",
		Phone:    "+911112223334",
		Source:   "referral",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Status != domain.StatusNew {
		t.Errorf("new lead must start at %q, got %q", domain.StatusNew, lead.Status)
	}
	if lead.CreatedBy != "tc_1" {
		t.Errorf("created_by: want tc_1, got %q", lead.CreatedBy)
	}
	if lead.ID == "" {
		t.Error("expected an assigned id")
	}
}

func TestLeadService_Create_DefaultsSourceToOther(t *testing.T) {
	repo := newStubLeadRepo()
	svc := NewLeadService(repo, &stubCallRepo{}, discardLogger)

	lead, err := svc.CreateLead(context.Background(), ports.CreateLeadInput{
		Identity: telecaller("tc_1"),
		Name:     "No Source",
		Phone:    "+911112223334",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Source != domain.SourceOther {
		t.Errorf("expected default source %q, got %q", domain.SourceOther, lead.Source)
	}
}

func TestLeadService_Create_Validation(t *testing.T) {
	repo := newStubLeadRepo()
	svc := NewLeadService(repo, &stubCallRepo{}, discardLogger)

	cases := []ports.CreateLeadInput{
		{Identity: telecaller("tc_1"), Phone: "+91111"},                          // missing name
		{Identity: telecaller("tc_1"), Name: "X"},                                // missing phone
		{Identity: telecaller("tc_1"), Name: "X", Phone: "+91", Source: "radio"}, // bad source
	}
	for i, in := range cases {
		if _, err := svc.CreateLead(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("case %d: expected ErrValidation, got %v", i, err)
		}
	}
	if len(repo.leads) != 0 {
		t.Errorf("no lead must be persisted on validation failure, got %d", len(repo.leads))
	}
}

// ---------------------------------------------------------------------------
// GetLead / ListLeads scoping tests
// ---------------------------------------------------------------------------

func TestLeadService_Get_AdminUnscoped(t *testing.T) {
	repo := newStubLeadRepo()
	svc := NewLeadService(repo, &stubCallRepo{}, discardLogger)
	seedLead(repo, "lead_a", "tc_1", domain.StatusNew)

	if _, err := svc.GetLead(context.Background(), admin(), "lead_a"); err != nil {
		t.Fatalf("admin should see any lead, got: %v", err)
	}
	if repo.lastFindScope != "" {
		t.Errorf("admin query must not pass an owner filter, got %q", repo.lastFindScope)
	}
}

func TestLeadService_Get_TelecallerScoped(t *testing.T) {
	repo := newStubLeadRepo()
	svc := NewLeadService(repo, &stubCallRepo{}, discardLogger)
	seedLead(repo, "lead_a", "tc_1", domain.StatusNew)

	if _, err := svc.GetLead(context.Background(), telecaller("tc_1"), "lead_a"); err != nil {
		t.Fatalf("telecaller should see own lead, got: %v", err)
	}
	if repo.lastFindScope != "tc_1" {
		t.Errorf("expected owner filter tc_1, got %q", repo.lastFindScope)
	}

	if _, err := svc.GetLead(context.Background(), telecaller("tc_2"), "lead_a"); !errors.Is(err, domain.ErrLeadNotFound) {
		t.Errorf("another telecaller must get ErrLeadNotFound, got %v", err)
	}
}

func TestLeadService_List_Scoping(t *testing.T) {
	repo := newStubLeadRepo()
	svc := NewLeadService(repo, &stubCallRepo{}, discardLogger)
	seedLead(repo, "lead_a", "tc_1", domain.StatusNew)
	seedLead(repo, "lead_b", "tc_2", domain.StatusNew)

	res, err := svc.ListLeads(context.Background(), ports.ListLeadsInput{Identity: admin(), Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 2 {
		t.Errorf("admin: expected 2 leads, got %d", res.Total)
	}

	res, err = svc.ListLeads(context.Background(), ports.ListLeadsInput{Identity: telecaller("tc_1"), Page: 1, Limit: 10})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 1 {
		t.Errorf("telecaller: expected 1 lead, got %d", res.Total)
	}
	for _, l := range res.Items {
		if l.CreatedBy != "tc_1" {
			t.Errorf("telecaller list leaked a lead created by %q", l.CreatedBy)
		}
	}
}

func TestLeadService_List_LimitDefaultsAndCap(t *testing.T) {
	repo := newStubLeadRepo()
	svc := NewLeadService(repo, &stubCallRepo{}, discardLogger)

	res, err := svc.ListLeads(context.Background(), ports.ListLeadsInput{Identity: admin()})
	if err != nil {
		t.Fatal(err)
	}
	if res.Limit != 20 {
		t.Errorf("expected default limit 20, got %d", res.Limit)
	}

	res, err = svc.ListLeads(context.Background(), ports.ListLeadsInput{Identity: admin(), Limit: 999, Page: 1})
	if err != nil {
		t.Fatal(err)
	}
	if res.Limit != 100 {
		t.Errorf("expected limit capped at 100, got %d", res.Limit)
	}
}

func TestLeadService_List_PaginationMath(t *testing.T) {
	repo := newStubLeadRepo()
	svc := NewLeadService(repo, &stubCallRepo{}, discardLogger)
	for i := 0; i < 5; i++ {
		seedLead(repo, fmt.Sprintf("lead_%d", i), "tc_1", domain.StatusNew)
	}

	res, err := svc.ListLeads(context.Background(), ports.ListLeadsInput{Identity: admin(), Page: 1, Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	if res.Total != 5 || res.TotalPages != 3 || len(res.Items) != 2 {
		t.Errorf("pagination: total=%d pages=%d items=%d, want 5/3/2", res.Total, res.TotalPages, len(res.Items))
	}
}

// ---------------------------------------------------------------------------
// UpdateLead tests
// ---------------------------------------------------------------------------

func TestLeadService_Update_OwnerEdits(t *testing.T) {
	repo := newStubLeadRepo()
	svc := NewLeadService(repo, &stubCallRepo{}, discardLogger)
	seedLead(repo, "lead_a", "tc_1", domain.StatusContacted)

	lead, err := svc.UpdateLead(context.Background(), ports.UpdateLeadInput{
		Identity: telecaller("tc_1"),
		LeadID:   "lead_a",
		Company:  "Initech",
		Notes:    "asked for pricing",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Company != "Initech" {
		t.Errorf("company not updated: %q", lead.Company)
	}
	if lead.LastModifiedBy != "tc_1" {
		t.Errorf("last_modified_by: want tc_1, got %q", lead.LastModifiedBy)
	}
	if lead.Status != domain.StatusContacted {
		t.Errorf("status must be untouched, got %q", lead.Status)
	}
}

func TestLeadService_Update_NonOwnerForbidden(t *testing.T) {
	repo := newStubLeadRepo()
	svc := NewLeadService(repo, &stubCallRepo{}, discardLogger)
	seedLead(repo, "lead_a", "tc_1", domain.StatusNew)

	_, err := svc.UpdateLead(context.Background(), ports.UpdateLeadInput{
		Identity: telecaller("tc_2"),
		LeadID:   "lead_a",
		Name:     "hijack",
	})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if repo.leads["lead_a"].Name == "hijack" {
		t.Error("forbidden update must not be persisted")
	}
}

func TestLeadService_Update_StatusOverride(t *testing.T) {
	repo := newStubLeadRepo()
	svc := NewLeadService(repo, &stubCallRepo{}, discardLogger)
	seedLead(repo, "lead_a", "tc_1", domain.StatusQualified)

	lead, err := svc.UpdateLead(context.Background(), ports.UpdateLeadInput{
		Identity: admin(),
		LeadID:   "lead_a",
		Status:   "proposal",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lead.Status != domain.StatusProposal {
		t.Errorf("explicit override: want proposal, got %q", lead.Status)
	}

	_, err = svc.UpdateLead(context.Background(), ports.UpdateLeadInput{
		Identity: admin(),
		LeadID:   "lead_a",
		Status:   "wishful_thinking",
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("unknown status override must fail validation, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// DeleteLead tests
// ---------------------------------------------------------------------------

func TestLeadService_Delete_CascadesCalls(t *testing.T) {
	leadRepo := newStubLeadRepo()
	callRepo := &stubCallRepo{}
	svc := NewLeadService(leadRepo, callRepo, discardLogger)
	seedLead(leadRepo, "lead_a", "tc_1", domain.StatusNew)
	callRepo.calls = []*domain.Call{
		{ID: "call_1", LeadID: "lead_a", UserID: "tc_1", Status: domain.CallConnected},
		{ID: "call_2", LeadID: "lead_b", UserID: "tc_1", Status: domain.CallConnected},
	}

	if err := svc.DeleteLead(context.Background(), telecaller("tc_1"), "lead_a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := leadRepo.leads["lead_a"]; ok {
		t.Error("lead must be deleted")
	}
	if len(callRepo.calls) != 1 || callRepo.calls[0].LeadID != "lead_b" {
		t.Errorf("calls of the deleted lead must be removed, remaining: %v", callRepo.calls)
	}
}

func TestLeadService_Delete_NonOwnerForbidden(t *testing.T) {
	leadRepo := newStubLeadRepo()
	svc := NewLeadService(leadRepo, &stubCallRepo{}, discardLogger)
	seedLead(leadRepo, "lead_a", "tc_1", domain.StatusNew)

	if err := svc.DeleteLead(context.Background(), telecaller("tc_2"), "lead_a"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if _, ok := leadRepo.leads["lead_a"]; !ok {
		t.Error("lead must survive a forbidden delete")
	}
}

func TestLeadService_Delete_NotFound(t *testing.T) {
	svc := NewLeadService(newStubLeadRepo(), &stubCallRepo{}, discardLogger)
	if err := svc.DeleteLead(context.Background(), admin(), "nope"); !errors.Is(err, domain.ErrLeadNotFound) {
		t.Errorf("expected ErrLeadNotFound, got %v", err)
	}
}
