package analysis

import (
	"context"
	"fmt"
	"time"

	"urbanmind-be/internal/entity"
)

// DefaultSimulatedDelay is how long the simulated analysis takes.
const DefaultSimulatedDelay = 3000 * time.Millisecond

const replyTemplate = "I'm analyzing your request using %s. Based on the criteria you've provided, " +
	"I've identified several potential locations for the new high school."

const narrativePhases = `
1. **Population Density Analysis**: Examining current and projected student populations in different areas of Waterloo region.

2. **Transportation Accessibility**: Evaluating proximity to public transit, major roads, and walkability scores.

3. **Infrastructure Assessment**: Analyzing existing utilities, internet connectivity, and expansion capabilities.

4. **Environmental Factors**: Considering noise levels, air quality, and green space availability.

5. **Zoning Compliance**: Verifying educational zoning requirements and potential rezoning needs.

6. **Community Impact**: Assessing effects on local traffic, property values, and community resources.
`

var sampleCandidates = []entity.LocationCandidate{
	{
		Id:               "P001",
		Address:          "123 University Ave W, Waterloo",
		AreaAcres:        15.2,
		SuitabilityScore: 92,
		Rationale:        "High accessibility, excellent transit connections, suitable zoning",
	},
	{
		Id:               "P002",
		Address:          "456 King St N, Waterloo",
		AreaAcres:        18.7,
		SuitabilityScore: 88,
		Rationale:        "Large area, good infrastructure, moderate traffic impact",
	},
	{
		Id:               "P003",
		Address:          "789 Weber St E, Kitchener",
		AreaAcres:        12.4,
		SuitabilityScore: 85,
		Rationale:        "Central location, existing utilities, community support",
	},
}

// SimulatedAnalyzer stands in for a reasoning backend. After a fixed delay
// it returns the same sample narrative and candidates for every request;
// only the reply text and narrative heading mention the reasoning method.
type SimulatedAnalyzer struct {
	delay time.Duration
}

var _ Analyzer = (*SimulatedAnalyzer)(nil)

// NewSimulatedAnalyzer creates the canned analyzer. A negative delay is
// treated as zero.
func NewSimulatedAnalyzer(delay time.Duration) *SimulatedAnalyzer {
	if delay < 0 {
		delay = 0
	}
	return &SimulatedAnalyzer{delay: delay}
}

func (a *SimulatedAnalyzer) Delay() time.Duration {
	return a.delay
}

func (a *SimulatedAnalyzer) Analyze(ctx context.Context, req Request) (*Result, error) {
	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	label := req.Method.Label()
	return &Result{
		Reply:      fmt.Sprintf(replyTemplate, label),
		Narrative:  BuildNarrative(label),
		Candidates: SampleCandidates(),
	}, nil
}

// BuildNarrative renders the six-phase sample narrative under a heading
// naming the reasoning method.
func BuildNarrative(label string) string {
	return fmt.Sprintf("**%s Analysis:**\n%s", label, narrativePhases)
}

// SampleCandidates returns a fresh copy of the three sample parcels.
func SampleCandidates() []entity.LocationCandidate {
	out := make([]entity.LocationCandidate, len(sampleCandidates))
	copy(out, sampleCandidates)
	return out
}
