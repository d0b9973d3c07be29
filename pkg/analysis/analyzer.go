package analysis

import (
	"context"

	"urbanmind-be/internal/entity"
)

// Request is everything an analysis may look at. Method is captured when the
// user submits, so later selector changes do not affect a running analysis.
type Request struct {
	Method    entity.ReasoningMethod
	Prompt    string
	Documents []entity.UploadedDocumentRef
}

// Result is applied to the conversation as a whole: one assistant reply,
// a narrative, and a candidate set that replaces the previous one.
type Result struct {
	Reply      string
	Narrative  string
	Candidates []entity.LocationCandidate
}

// Analyzer produces a site-selection result for a user request.
type Analyzer interface {
	Analyze(ctx context.Context, req Request) (*Result, error)
}

// AnalyzerFunc adapts a plain function to Analyzer.
type AnalyzerFunc func(ctx context.Context, req Request) (*Result, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}
