package domain

import (
	"errors"
	"time"
)

// LeadStatus represents the lifecycle stage of a lead.
type LeadStatus string

const (
	StatusNew       LeadStatus = "new"
	StatusContacted LeadStatus = "contacted"
	StatusQualified LeadStatus = "qualified"
	StatusProposal  LeadStatus = "proposal"
	StatusConverted LeadStatus = "converted"
	StatusLost      LeadStatus = "lost"
)

// LeadSource represents where a lead originated.
type LeadSource string

const (
	SourceWebsite  LeadSource = "website"
	SourceReferral LeadSource = "referral"
	SourceSocial   LeadSource = "social"
	SourceDirect   LeadSource = "direct"
	SourceOther    LeadSource = "other"
)

// LeadStatuses lists every valid status in pipeline order.
var LeadStatuses = []LeadStatus{
	StatusNew, StatusContacted, StatusQualified,
	StatusProposal, StatusConverted, StatusLost,
}

// LeadSources lists every valid source.
var LeadSources = []LeadSource{
	SourceWebsite, SourceReferral, SourceSocial, SourceDirect, SourceOther,
}

var ErrLeadNotFound = errors.New("lead not found")
var ErrForbidden = errors.New("access forbidden")
var ErrValidation = errors.New("invalid input")

// IsValid reports whether s is one of the six known statuses.
func (s LeadStatus) IsValid() bool {
	for _, v := range LeadStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no call outcome can move the lead further.
func (s LeadStatus) IsTerminal() bool {
	return s == StatusConverted || s == StatusLost
}

func (s LeadSource) IsValid() bool {
	for _, v := range LeadSources {
		if v == s {
			return true
		}
	}
	return false
}

// NextStatus computes the status a lead moves to after a call outcome is
// recorded against it. The function is total: every (current, outcome) pair
// yields a defined status, and the result is always one of the six known
// statuses (an unknown current is returned unchanged). It never regresses a
// lead to an earlier stage.
//
// Rules, highest value first:
//   - connected + interested while the lead is new or contacted → qualified
//   - any recorded call against a new lead → contacted
//   - everything else leaves the status untouched
func NextStatus(current LeadStatus, outcome CallOutcome) LeadStatus {
	if outcome.IsInterested() && (current == StatusNew || current == StatusContacted) {
		return StatusQualified
	}
	if current == StatusNew {
		return StatusContacted
	}
	return current
}

// Lead is the core aggregate root: a prospective customer worked by telecallers.
type Lead struct {
	ID             string     `json:"id" bson:"_id,omitempty"`
	Name           string     `json:"name" bson:"name"`
	Company        string     `json:"company,omitempty" bson:"company,omitempty"`
	Phone          string     `json:"phone" bson:"phone"`
	Email          string     `json:"email,omitempty" bson:"email,omitempty"`
	Address        string     `json:"address,omitempty" bson:"address,omitempty"`
	Source         LeadSource `json:"source" bson:"source"`
	Status         LeadStatus `json:"status" bson:"status"`
	Notes          string     `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedBy      string     `json:"created_by" bson:"created_by"`
	LastModifiedBy string     `json:"last_modified_by,omitempty" bson:"last_modified_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" bson:"updated_at"`
}
