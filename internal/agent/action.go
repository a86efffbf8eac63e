package agent

import "go-deepresearch/internal/types"

// ActionKind is the closed set of actions the loop can dispatch.
type ActionKind string

const (
	ActionSearch  ActionKind = "search"
	ActionRead    ActionKind = "read"
	ActionReflect ActionKind = "reflect"
	ActionAnswer  ActionKind = "answer"
	ActionCoding  ActionKind = "coding"
)

// Action is a sum type over the five action payloads the LLM can decide
// on for one step.
type Action interface {
	Kind() ActionKind
}

// SearchAction issues one or more search queries.
type SearchAction struct {
	Queries   []string
	Reasoning string
}

func (SearchAction) Kind() ActionKind { return ActionSearch }

// ReadAction fetches one or more already-collected URLs.
type ReadAction struct {
	URLs      []string
	Reasoning string
}

func (ReadAction) Kind() ActionKind { return ActionRead }

// ReflectAction appends gap questions to narrow in on.
type ReflectAction struct {
	Questions []string
	Reasoning string
}

func (ReflectAction) Kind() ActionKind { return ActionReflect }

// AnswerAction proposes a final answer for evaluation.
type AnswerAction struct {
	Answer     string
	References []types.Reference
	Reasoning  string
}

func (AnswerAction) Kind() ActionKind { return ActionAnswer }

// CodingAction runs code in the sandbox to derive a fact (e.g. a
// computation the model should not attempt by itself).
type CodingAction struct {
	Code      string
	Reasoning string
}

func (CodingAction) Kind() ActionKind { return ActionCoding }
