package analysis

import (
	"context"
	"strings"
	"testing"
	"time"

	"urbanmind-be/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedAnalyzerResult(t *testing.T) {
	tests := []struct {
		method    entity.ReasoningMethod
		wantLabel string
	}{
		{entity.ReasoningChainOfThought, "Chain-of-Thought"},
		{entity.ReasoningTreeOfThought, "Tree-of-Thought"},
		{entity.ReasoningHyperTree, "HyperTree Reasoning"},
	}

	a := NewSimulatedAnalyzer(0)
	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			res, err := a.Analyze(context.Background(), Request{Method: tt.method, Prompt: "Find a site near transit"})
			require.NoError(t, err)

			assert.Contains(t, res.Reply, "using "+tt.wantLabel+".")
			assert.True(t, strings.HasPrefix(res.Narrative, "**"+tt.wantLabel+" Analysis:**"))
			require.Len(t, res.Candidates, 3)
		})
	}
}

func TestSimulatedAnalyzerNarrativeIsStatic(t *testing.T) {
	a := NewSimulatedAnalyzer(0)

	first, err := a.Analyze(context.Background(), Request{Method: entity.ReasoningChainOfThought, Prompt: "a"})
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), Request{Method: entity.ReasoningHyperTree, Prompt: "something else"})
	require.NoError(t, err)

	body := func(n string) string { return n[strings.Index(n, "\n"):] }
	assert.Equal(t, body(first.Narrative), body(second.Narrative))

	for _, phase := range []string{
		"Population Density Analysis",
		"Transportation Accessibility",
		"Infrastructure Assessment",
		"Environmental Factors",
		"Zoning Compliance",
		"Community Impact",
	} {
		assert.Contains(t, first.Narrative, phase)
	}
	assert.Equal(t, first.Candidates, second.Candidates)
}

func TestSampleCandidates(t *testing.T) {
	got := SampleCandidates()
	require.Len(t, got, 3)

	assert.Equal(t, entity.LocationCandidate{
		Id:               "P001",
		Address:          "123 University Ave W, Waterloo",
		AreaAcres:        15.2,
		SuitabilityScore: 92,
		Rationale:        "High accessibility, excellent transit connections, suitable zoning",
	}, got[0])

	for _, c := range got {
		assert.Greater(t, c.AreaAcres, 0.0)
		assert.GreaterOrEqual(t, c.SuitabilityScore, 0)
		assert.LessOrEqual(t, c.SuitabilityScore, 100)
	}

	// Callers get their own copy.
	got[0].Address = "changed"
	assert.Equal(t, "123 University Ave W, Waterloo", SampleCandidates()[0].Address)
}

func TestSimulatedAnalyzerWaitsForDelay(t *testing.T) {
	a := NewSimulatedAnalyzer(30 * time.Millisecond)

	start := time.Now()
	_, err := a.Analyze(context.Background(), Request{Method: entity.ReasoningTreeOfThought})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestSimulatedAnalyzerCancelled(t *testing.T) {
	a := NewSimulatedAnalyzer(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	res, err := a.Analyze(ctx, Request{Method: entity.ReasoningChainOfThought})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
