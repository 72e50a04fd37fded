package handler

import "time"

// --- Request types ---

type recordCallRequest struct {
	Status             string `json:"status"               validate:"required,oneof=connected not_connected"`
	ConnectedResponse  string `json:"connected_response"   validate:"omitempty,oneof=discussed callback interested"`
	NotConnectedReason string `json:"not_connected_reason" validate:"omitempty,oneof=busy rnr switched_off"`
	DurationSeconds    int    `json:"duration_seconds"     validate:"gte=0"`
	Notes              string `json:"notes"`
}

// --- Response types ---

type callResponse struct {
	ID                 string    `json:"id"`
	LeadID             string    `json:"lead_id"`
	UserID             string    `json:"user_id"`
	Status             string    `json:"status"`
	ConnectedResponse  string    `json:"connected_response,omitempty"`
	NotConnectedReason string    `json:"not_connected_reason,omitempty"`
	DurationSeconds    int       `json:"duration_seconds"`
	Notes              string    `json:"notes,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

type leadSummaryResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Company string `json:"company,omitempty"`
	Phone   string `json:"phone"`
	Status  string `json:"status"`
}

type userSummaryResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// recordCallResponse reports the persisted call plus whether recording it
// moved the lead. The call is the durable fact; lead movement is best-effort
// and may be false even for an outcome that normally advances the lead.
type recordCallResponse struct {
	Call              callResponse        `json:"call"`
	Lead              leadSummaryResponse `json:"lead"`
	User              userSummaryResponse `json:"user"`
	LeadStatusChanged bool                `json:"lead_status_changed"`
}

type callItemResponse struct {
	Call callResponse        `json:"call"`
	User userSummaryResponse `json:"user"`
}

type listCallsResponse struct {
	Data       []callItemResponse `json:"data"`
	Pagination paginationResponse `json:"pagination"`
}
