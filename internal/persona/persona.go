// Package persona implements the cognitive-persona query expansion: fanning
// one question into diverse, weighted search queries.
package persona

import "go-deepresearch/internal/types"

// QueryContext carries the signals personas steer on: the question's
// detected topic and language.
type QueryContext struct {
	Topic    types.TopicCategory
	Language types.Language
}

// ExpandFunc transforms the original query into a SerpQuery for this
// persona. Pure function: no I/O, may be nondeterministic only in the ways
// the spec calls out (Expert Skeptic's random failure-mode term).
type ExpandFunc func(originalQuery string, ctx QueryContext) types.SerpQuery

// ApplicableFunc reports whether a persona applies to this query/context.
// Defaults to "always applicable" when nil.
type ApplicableFunc func(originalQuery string, ctx QueryContext) bool

// Persona is a named, weighted query transformer.
type Persona struct {
	Name        string
	Weight      float64
	Applicable  ApplicableFunc
	Expand      ExpandFunc
}

func (p Persona) isApplicable(query string, ctx QueryContext) bool {
	if p.Applicable == nil {
		return true
	}
	return p.Applicable(query, ctx)
}

// safeExpand calls p.Expand, recovering from a panic so one failing
// persona never aborts the orchestrator — it is simply treated as "not
// applicable" for this call.
func (p Persona) safeExpand(query string, ctx QueryContext) (q types.SerpQuery, ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	if !p.isApplicable(query, ctx) {
		return types.SerpQuery{}, false
	}
	return p.Expand(query, ctx), true
}
