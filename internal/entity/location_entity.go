package entity

// LocationCandidate is a scored site produced by a completed analysis.
type LocationCandidate struct {
	Id               string  `json:"id"`
	Address          string  `json:"address"`
	AreaAcres        float64 `json:"area_acres"`
	SuitabilityScore int     `json:"suitability_score"`
	Rationale        string  `json:"rationale"`
}

// AnalysisState is the analysis half of a conversation's observable state.
type AnalysisState struct {
	Running        bool                `json:"running"`
	LastNarrative  *string             `json:"last_narrative,omitempty"`
	LastCandidates []LocationCandidate `json:"last_candidates"`

	// LastError holds the message of the most recent failed analysis.
	// A successful analysis clears it.
	LastError string `json:"last_error,omitempty"`
}

// Clone returns a copy that shares no memory with s.
func (s AnalysisState) Clone() AnalysisState {
	out := AnalysisState{
		Running:        s.Running,
		LastError:      s.LastError,
		LastCandidates: make([]LocationCandidate, len(s.LastCandidates)),
	}
	copy(out.LastCandidates, s.LastCandidates)
	if s.LastNarrative != nil {
		n := *s.LastNarrative
		out.LastNarrative = &n
	}
	return out
}

// SiteConstraints are the planning constraints of the site-selection task.
type SiteConstraints struct {
	MinimumParcelSize   string   `json:"minimum_parcel_size"`
	ZoningRequirements  []string `json:"zoning_requirements"`
	MaxDistanceTransit  string   `json:"max_distance_transit"`
	MaxDistanceArterial string   `json:"max_distance_arterial"`
	Exclusions          []string `json:"exclusions"`
}

type DataSource struct {
	Category string `json:"category"`
	Name     string `json:"name"`
	URL      string `json:"url"`
}

// RegionProfile is static reference data describing the planning region.
type RegionProfile struct {
	Region      string          `json:"region"`
	Task        string          `json:"task"`
	Constraints SiteConstraints `json:"constraints"`
	DataSources []DataSource    `json:"data_sources"`
}
