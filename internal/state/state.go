// Package state implements the agent's Processing -> BeastMode ->
// {Completed, Failed} state machine.
package state

import "go-deepresearch/internal/types"

// Kind is the closed set of machine states.
type Kind string

const (
	KindProcessing Kind = "processing"
	KindBeastMode  Kind = "beast_mode"
	KindCompleted  Kind = "completed"
	KindFailed     Kind = "failed"
)

// State is a sum type over the four state payloads. Every variant
// implements it.
type State interface {
	Kind() Kind
}

// Processing is the live state: one research step in flight.
type Processing struct {
	Step            int
	TotalStep       int
	CurrentQuestion string
	BudgetUsed      float64
}

func (Processing) Kind() Kind { return KindProcessing }

// BeastMode is the forced-answer state.
type BeastMode struct {
	Attempts    int
	LastFailure string
}

func (BeastMode) Kind() Kind { return KindBeastMode }

// Completed is a terminal success state.
type Completed struct {
	Answer     string
	References []types.Reference
	Trivial    bool
}

func (Completed) Kind() Kind { return KindCompleted }

// Failed is a terminal failure state.
type Failed struct {
	Reason          string
	PartialKnowledge []string
}

func (Failed) Kind() Kind { return KindFailed }

// Initial returns the starting state for a run.
func Initial(question string) Processing {
	return Processing{Step: 0, TotalStep: 0, CurrentQuestion: question, BudgetUsed: 0.0}
}

// IsTerminal reports whether s is Completed or Failed.
func IsTerminal(s State) bool {
	k := s.Kind()
	return k == KindCompleted || k == KindFailed
}

// IsProcessing reports whether s is the Processing state.
func IsProcessing(s State) bool {
	return s.Kind() == KindProcessing
}

// IsBeastMode reports whether s is the BeastMode state.
func IsBeastMode(s State) bool {
	return s.Kind() == KindBeastMode
}

// CanTransitionTo reports whether a transition from `from` to `to` is one
// of the edges enumerated in spec.md §4.7:
//
//	Processing -> {BeastMode, Completed, Failed}
//	BeastMode  -> {Completed, Failed}
//
// Terminal states never transition; every other pair returns false.
func CanTransitionTo(from, to Kind) bool {
	switch from {
	case KindProcessing:
		return to == KindBeastMode || to == KindCompleted || to == KindFailed
	case KindBeastMode:
		return to == KindCompleted || to == KindFailed
	default:
		return false
	}
}
