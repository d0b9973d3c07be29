package conversation

import (
	"errors"
	"fmt"

	"urbanmind-be/internal/entity"
)

var (
	ErrEmptyInput         = errors.New("message text is empty")
	ErrAnalysisInProgress = errors.New("an analysis is already running")
	ErrAnalysisFailed     = errors.New("analysis failed")

	errNoResult = errors.New("analyzer returned no result")
)

// AnalysisFailedError is recorded when the analyzer returns an error.
// It matches ErrAnalysisFailed with errors.Is.
type AnalysisFailedError struct {
	Method entity.ReasoningMethod
	Err    error
}

func (e *AnalysisFailedError) Error() string {
	return fmt.Sprintf("analysis using %s failed: %v", e.Method.Label(), e.Err)
}

func (e *AnalysisFailedError) Unwrap() error {
	return e.Err
}

func (e *AnalysisFailedError) Is(target error) bool {
	return target == ErrAnalysisFailed
}
