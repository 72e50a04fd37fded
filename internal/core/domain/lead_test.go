package domain

import "testing"

func connected(resp ConnectedResponse) CallOutcome {
	return CallOutcome{Status: CallConnected, Response: resp}
}

func notConnected(reason NotConnectedReason) CallOutcome {
	return CallOutcome{Status: CallNotConnected, Reason: reason}
}

func TestNextStatus_NewLeadAnyCallAdvancesToContacted(t *testing.T) {
	outcomes := []CallOutcome{
		notConnected(ReasonBusy),
		notConnected(ReasonRNR),
		notConnected(ReasonSwitchedOff),
		connected(ResponseDiscussed),
		connected(ResponseCallback),
		{Status: CallNotConnected}, // reason omitted (permissive payload)
	}
	for _, o := range outcomes {
		if got := NextStatus(StatusNew, o); got != StatusContacted {
			t.Errorf("NextStatus(new, %+v) = %q, want %q", o, got, StatusContacted)
		}
	}
}

func TestNextStatus_InterestedQualifies(t *testing.T) {
	if got := NextStatus(StatusNew, connected(ResponseInterested)); got != StatusQualified {
		t.Errorf("NextStatus(new, interested) = %q, want %q", got, StatusQualified)
	}
	if got := NextStatus(StatusContacted, connected(ResponseInterested)); got != StatusQualified {
		t.Errorf("NextStatus(contacted, interested) = %q, want %q", got, StatusQualified)
	}
}

func TestNextStatus_InterestedIsIdempotentAtQualified(t *testing.T) {
	if got := NextStatus(StatusQualified, connected(ResponseInterested)); got != StatusQualified {
		t.Errorf("NextStatus(qualified, interested) = %q, want %q", got, StatusQualified)
	}
}

func TestNextStatus_TerminalStatesAreFixedPoints(t *testing.T) {
	allOutcomes := []CallOutcome{
		connected(ResponseDiscussed),
		connected(ResponseCallback),
		connected(ResponseInterested),
		notConnected(ReasonBusy),
		notConnected(ReasonRNR),
		notConnected(ReasonSwitchedOff),
	}
	for _, terminal := range []LeadStatus{StatusConverted, StatusLost} {
		for _, o := range allOutcomes {
			if got := NextStatus(terminal, o); got != terminal {
				t.Errorf("NextStatus(%s, %+v) = %q, want %q", terminal, o, got, terminal)
			}
		}
	}
}

// Every (current, outcome) pair must produce one of the six known statuses
// and never move a lead to an earlier pipeline stage.
func TestNextStatus_TotalAndNeverRegresses(t *testing.T) {
	stageIndex := map[LeadStatus]int{
		StatusNew: 0, StatusContacted: 1, StatusQualified: 2,
		StatusProposal: 3, StatusConverted: 4, StatusLost: 4,
	}

	var allOutcomes []CallOutcome
	for _, r := range []ConnectedResponse{ResponseDiscussed, ResponseCallback, ResponseInterested, ""} {
		allOutcomes = append(allOutcomes, CallOutcome{Status: CallConnected, Response: r})
	}
	for _, r := range []NotConnectedReason{ReasonBusy, ReasonRNR, ReasonSwitchedOff, ""} {
		allOutcomes = append(allOutcomes, CallOutcome{Status: CallNotConnected, Reason: r})
	}

	for _, current := range LeadStatuses {
		for _, o := range allOutcomes {
			next := NextStatus(current, o)
			if !next.IsValid() {
				t.Fatalf("NextStatus(%s, %+v) = %q, outside the status enumeration", current, o, next)
			}
			if stageIndex[next] < stageIndex[current] {
				t.Errorf("NextStatus(%s, %+v) = %q regresses the lead", current, o, next)
			}
		}
	}
}

func TestNextStatus_UnknownCurrentUnchanged(t *testing.T) {
	if got := NextStatus("bogus", connected(ResponseInterested)); got != "bogus" {
		t.Errorf("unknown current must pass through unchanged, got %q", got)
	}
}

func TestNextStatus_ProposalUnaffectedByCalls(t *testing.T) {
	if got := NextStatus(StatusProposal, connected(ResponseInterested)); got != StatusProposal {
		t.Errorf("NextStatus(proposal, interested) = %q, want %q", got, StatusProposal)
	}
	if got := NextStatus(StatusProposal, notConnected(ReasonBusy)); got != StatusProposal {
		t.Errorf("NextStatus(proposal, busy) = %q, want %q", got, StatusProposal)
	}
}

func TestLeadStatus_IsTerminal(t *testing.T) {
	for _, s := range []LeadStatus{StatusNew, StatusContacted, StatusQualified, StatusProposal} {
		if s.IsTerminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
	if !StatusConverted.IsTerminal() || !StatusLost.IsTerminal() {
		t.Error("converted and lost must be terminal")
	}
}

func TestCallOutcome_IsInterested(t *testing.T) {
	if !connected(ResponseInterested).IsInterested() {
		t.Error("connected+interested must report interested")
	}
	if connected(ResponseCallback).IsInterested() {
		t.Error("connected+callback must not report interested")
	}
	// A not_connected outcome can never be interested, whatever the response field says.
	if (CallOutcome{Status: CallNotConnected, Response: ResponseInterested}).IsInterested() {
		t.Error("not_connected outcome must not report interested")
	}
}
