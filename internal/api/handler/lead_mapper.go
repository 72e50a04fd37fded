package handler

import (
	"github.com/leadline/telecrm-api/internal/core/domain"
	"github.com/leadline/telecrm-api/internal/core/ports"
)

// --- Request → Service input ---

func toCreateLeadInput(req createLeadRequest, id ports.Identity) ports.CreateLeadInput {
	return ports.CreateLeadInput{
		Identity: id,
		Name:     req.Name,
		Company:  req.Company,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Source:   req.Source,
		Notes:    req.Notes,
	}
}

func toUpdateLeadInput(req updateLeadRequest, id ports.Identity, leadID string) ports.UpdateLeadInput {
	return ports.UpdateLeadInput{
		Identity: id,
		LeadID:   leadID,
		Name:     req.Name,
		Company:  req.Company,
		Phone:    req.Phone,
		Email:    req.Email,
		Address:  req.Address,
		Source:   req.Source,
		Status:   req.Status,
		Notes:    req.Notes,
	}
}

// --- Domain → HTTP response ---

func toLeadResponse(l *domain.Lead) leadResponse {
	return leadResponse{
		ID:             l.ID,
		Name:           l.Name,
		Company:        l.Company,
		Phone:          l.Phone,
		Email:          l.Email,
		Address:        l.Address,
		Source:         string(l.Source),
		Status:         string(l.Status),
		Notes:          l.Notes,
		CreatedBy:      l.CreatedBy,
		LastModifiedBy: l.LastModifiedBy,
		CreatedAt:      l.CreatedAt.UTC(),
		UpdatedAt:      l.UpdatedAt.UTC(),
	}
}

func toListLeadsResponse(r *ports.ListLeadsResult) listLeadsResponse {
	items := make([]leadResponse, len(r.Items))
	for i, l := range r.Items {
		items[i] = toLeadResponse(l)
	}
	return listLeadsResponse{
		Data: items,
		Pagination: paginationResponse{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}
