package entity

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownReasoningMethod = errors.New("unknown reasoning method")

type ReasoningMethod string

const (
	ReasoningChainOfThought ReasoningMethod = "chain-of-thought"
	ReasoningTreeOfThought  ReasoningMethod = "tree-of-thought"
	ReasoningHyperTree      ReasoningMethod = "hypertree-reasoning"

	DefaultReasoningMethod = ReasoningChainOfThought
)

// ReasoningMethodInfo is the read-only catalog entry shown by the selector.
type ReasoningMethodInfo struct {
	Method      ReasoningMethod
	Label       string
	Description string
}

var reasoningMethods = []ReasoningMethodInfo{
	{Method: ReasoningChainOfThought, Label: "Chain-of-Thought", Description: "Sequential logical reasoning"},
	{Method: ReasoningTreeOfThought, Label: "Tree-of-Thought", Description: "Branching decision exploration"},
	{Method: ReasoningHyperTree, Label: "HyperTree Reasoning", Description: "Multi-dimensional analysis"},
}

// ReasoningMethods returns the catalog in display order.
func ReasoningMethods() []ReasoningMethodInfo {
	out := make([]ReasoningMethodInfo, len(reasoningMethods))
	copy(out, reasoningMethods)
	return out
}

func (m ReasoningMethod) Info() (ReasoningMethodInfo, bool) {
	for _, info := range reasoningMethods {
		if info.Method == m {
			return info, true
		}
	}
	return ReasoningMethodInfo{}, false
}

// Label returns the human-readable name, or the raw value for unknown methods.
func (m ReasoningMethod) Label() string {
	if info, ok := m.Info(); ok {
		return info.Label
	}
	return string(m)
}

func (m ReasoningMethod) Valid() bool {
	_, ok := m.Info()
	return ok
}

// ParseReasoningMethod accepts the canonical value, case-insensitively.
func ParseReasoningMethod(s string) (ReasoningMethod, error) {
	m := ReasoningMethod(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownReasoningMethod, s)
	}
	return m, nil
}
