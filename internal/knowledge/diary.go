package knowledge

import "time"

// DiaryEntryKind is the closed set of diary-entry variants.
type DiaryEntryKind string

const (
	DiaryKindSearch       DiaryEntryKind = "search"
	DiaryKindRead         DiaryEntryKind = "read"
	DiaryKindReflect      DiaryEntryKind = "reflect"
	DiaryKindFailedAnswer DiaryEntryKind = "failed_answer"
	DiaryKindCoding       DiaryEntryKind = "coding"
	DiaryKindIntegration  DiaryEntryKind = "integration"
)

// DiaryEntry is a sum type over the per-action diary variants. Every
// variant below implements it; a type switch on Kind() is exhaustive over
// the closed set, so the compiler (via a missing-case lint or the switch's
// default) flags a forgotten case.
type DiaryEntry interface {
	Kind() DiaryEntryKind
	Step() int
}

type base struct {
	step int
	at   time.Time
}

func (b base) Step() int { return b.step }

// SearchEntry records a Search action: the queries issued, the reasoning
// that produced them, and how many new URLs it surfaced.
type SearchEntry struct {
	base
	Queries   []string
	Reasoning string
	URLsFound int
}

func NewSearchEntry(step int, at time.Time, queries []string, reasoning string, urlsFound int) SearchEntry {
	return SearchEntry{base: base{step, at}, Queries: queries, Reasoning: reasoning, URLsFound: urlsFound}
}
func (SearchEntry) Kind() DiaryEntryKind { return DiaryKindSearch }

// ReadEntry records a Read action: which URLs were fetched and why.
type ReadEntry struct {
	base
	URLs      []string
	Reasoning string
}

func NewReadEntry(step int, at time.Time, urls []string, reasoning string) ReadEntry {
	return ReadEntry{base: base{step, at}, URLs: urls, Reasoning: reasoning}
}
func (ReadEntry) Kind() DiaryEntryKind { return DiaryKindRead }

// ReflectEntry records a Reflect action: the gap questions it appended.
type ReflectEntry struct {
	base
	Questions []string
	Reasoning string
}

func NewReflectEntry(step int, at time.Time, questions []string, reasoning string) ReflectEntry {
	return ReflectEntry{base: base{step, at}, Questions: questions, Reasoning: reasoning}
}
func (ReflectEntry) Kind() DiaryEntryKind { return DiaryKindReflect }

// FailedAnswerEntry records an ANSWER action that failed evaluation.
type FailedAnswerEntry struct {
	base
	Answer   string
	EvalType string
	Reason   string
}

func NewFailedAnswerEntry(step int, at time.Time, answer, evalType, reason string) FailedAnswerEntry {
	return FailedAnswerEntry{base: base{step, at}, Answer: answer, EvalType: evalType, Reason: reason}
}
func (FailedAnswerEntry) Kind() DiaryEntryKind { return DiaryKindFailedAnswer }

// CodingEntry records a Coding action.
type CodingEntry struct {
	base
	Code      string
	Reasoning string
}

func NewCodingEntry(step int, at time.Time, code, reasoning string) CodingEntry {
	return CodingEntry{base: base{step, at}, Code: code, Reasoning: reasoning}
}
func (CodingEntry) Kind() DiaryEntryKind { return DiaryKindCoding }

// IntegrationEntry is a catch-all variant for the out-of-scope integration
// actions (chatbot adapters, third-party API calls) mentioned in spec.md
// §3; the core only needs to carry and render them, never interpret them.
type IntegrationEntry struct {
	base
	Name    string
	Summary string
}

func NewIntegrationEntry(step int, at time.Time, name, summary string) IntegrationEntry {
	return IntegrationEntry{base: base{step, at}, Name: name, Summary: summary}
}
func (IntegrationEntry) Kind() DiaryEntryKind { return DiaryKindIntegration }
