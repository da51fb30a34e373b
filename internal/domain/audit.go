package domain

type ResolutionState string

const (
	StatePending   ResolutionState = "PENDING"
	StateSearched  ResolutionState = "SEARCHED"
	StateScored    ResolutionState = "SCORED"
	StateMatched   ResolutionState = "MATCHED"
	StateUnmatched ResolutionState = "UNMATCHED"
	StateEnriched  ResolutionState = "ENRICHED"
	StateAssembled ResolutionState = "ASSEMBLED"
	StateDropped   ResolutionState = "DROPPED"
)

// Terminal reports whether no further transition is possible.
func (s ResolutionState) Terminal() bool {
	switch s {
	case StateUnmatched, StateAssembled, StateDropped:
		return true
	}
	return false
}

// AuditEntry records one candidate's resolution. Search, Chosen and
// Details are nil when that step produced nothing.
type AuditEntry struct {
	Candidate  PlaceCandidate   `json:"candidate"`
	Search     *SearchResult    `json:"search"`
	Chosen     *RawPlaceRecord  `json:"chosen"`
	Confidence Confidence       `json:"confidence"`
	Details    *RawPlaceDetails `json:"details"`
	State      ResolutionState  `json:"state"`
	Error      string           `json:"error,omitempty"`
}

// Miss is one candidate of a run that did not end ASSEMBLED. Position is
// its index in the extraction, so repeated names stay distinct.
type Miss struct {
	Position  int
	Candidate string
	State     ResolutionState
	Reason    string
}
