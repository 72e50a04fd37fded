package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type createLeadRequest struct {
	Name    string `json:"name"    validate:"required"`
	Company string `json:"company"`
	Phone   string `json:"phone"   validate:"required"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Address string `json:"address"`
	Source  string `json:"source"  validate:"omitempty,oneof=website referral social direct other"`
	Notes   string `json:"notes"`
}

// updateLeadRequest carries a partial edit; absent fields are left unchanged.
// status is an explicit pipeline override, distinct from call-driven movement.
type updateLeadRequest struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Phone   string `json:"phone"`
	Email   string `json:"email"   validate:"omitempty,email"`
	Address string `json:"address"`
	Source  string `json:"source"  validate:"omitempty,oneof=website referral social direct other"`
	Status  string `json:"status"  validate:"omitempty,oneof=new contacted qualified proposal converted lost"`
	Notes   string `json:"notes"`
}

// --- Response types ---

type leadResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Company        string    `json:"company,omitempty"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email,omitempty"`
	Address        string    `json:"address,omitempty"`
	Source         string    `json:"source"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	CreatedBy      string    `json:"created_by"`
	LastModifiedBy string    `json:"last_modified_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listLeadsResponse struct {
	Data       []leadResponse     `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}

// leadMetaResponse backs the form-building endpoint: the fixed vocabularies
// a client needs to render lead filters and create/edit forms.
type leadMetaResponse struct {
	Sources  []string `json:"sources"`
	Statuses []string `json:"statuses"`
}
