package domain

import (
	"errors"
	"time"
)

// CallStatus is the top-level outcome of a phone-contact attempt.
type CallStatus string

const (
	CallConnected    CallStatus = "connected"
	CallNotConnected CallStatus = "not_connected"
)

// ConnectedResponse qualifies a connected call.
type ConnectedResponse string

const (
	ResponseDiscussed  ConnectedResponse = "discussed"
	ResponseCallback   ConnectedResponse = "callback"
	ResponseInterested ConnectedResponse = "interested"
)

// NotConnectedReason qualifies a failed contact attempt.
type NotConnectedReason string

const (
	ReasonBusy        NotConnectedReason = "busy"
	ReasonRNR         NotConnectedReason = "rnr" // ring no response
	ReasonSwitchedOff NotConnectedReason = "switched_off"
)

var ErrCallNotFound = errors.New("call not found")

func (s CallStatus) IsValid() bool {
	return s == CallConnected || s == CallNotConnected
}

func (r ConnectedResponse) IsValid() bool {
	return r == ResponseDiscussed || r == ResponseCallback || r == ResponseInterested
}

func (r NotConnectedReason) IsValid() bool {
	return r == ReasonBusy || r == ReasonRNR || r == ReasonSwitchedOff
}

// CallOutcome is the tagged variant fed to the lead state machine. Exactly
// one of Response/Reason is meaningful, selected by Status; the zero value
// of the other is ignored.
type CallOutcome struct {
	Status   CallStatus
	Response ConnectedResponse  // set when Status == connected
	Reason   NotConnectedReason // set when Status == not_connected
}

// IsInterested reports whether the call connected and the prospect expressed
// interest, the only outcome that promotes a lead past "contacted".
func (o CallOutcome) IsInterested() bool {
	return o.Status == CallConnected && o.Response == ResponseInterested
}

// Call is an immutable record of one phone-contact attempt against a Lead.
// There is no update or delete path for an individual call; calls are removed
// only in bulk when their lead is deleted.
type Call struct {
	ID                 string             `json:"id" bson:"_id,omitempty"`
	LeadID             string             `json:"lead_id" bson:"lead_id"`
	UserID             string             `json:"user_id" bson:"user_id"`
	Status             CallStatus         `json:"status" bson:"status"`
	ConnectedResponse  ConnectedResponse  `json:"connected_response,omitempty" bson:"connected_response,omitempty"`
	NotConnectedReason NotConnectedReason `json:"not_connected_reason,omitempty" bson:"not_connected_reason,omitempty"`
	DurationSeconds    int                `json:"duration_seconds" bson:"duration_seconds"`
	Notes              string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt          time.Time          `json:"created_at" bson:"created_at"`
}

// Outcome projects the call into the state-machine input.
func (c *Call) Outcome() CallOutcome {
	return CallOutcome{
		Status:   c.Status,
		Response: c.ConnectedResponse,
		Reason:   c.NotConnectedReason,
	}
}
