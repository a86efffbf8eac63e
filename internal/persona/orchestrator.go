package persona

import (
	"sync"

	"go-deepresearch/internal/types"
)

// Orchestrator fans a query through a set of named personas.
type Orchestrator struct {
	mu       sync.RWMutex
	order    []string
	byName   map[string]Persona
}

func newOrchestrator(personas []Persona) *Orchestrator {
	o := &Orchestrator{byName: make(map[string]Persona, len(personas))}
	for _, p := range personas {
		o.addLocked(p)
	}
	return o
}

func (o *Orchestrator) addLocked(p Persona) {
	if _, exists := o.byName[p.Name]; !exists {
		o.order = append(o.order, p.Name)
	}
	o.byName[p.Name] = p
}

// Default returns an orchestrator with all 7 default personas.
func Default() *Orchestrator {
	return newOrchestrator(DefaultPersonas())
}

// Technical returns an orchestrator tuned for specification-heavy queries.
func Technical() *Orchestrator {
	return newOrchestrator([]Persona{NewDetailAnalyst(), NewComparativeThinker(), NewTemporalContext()})
}

// Investigative returns an orchestrator tuned for skeptical fact-checking.
func Investigative() *Orchestrator {
	return newOrchestrator([]Persona{NewExpertSkeptic(), NewRealitySkepticalist(), NewHistoricalResearcher()})
}

// Add registers or replaces a persona by name.
func (o *Orchestrator) Add(p Persona) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.addLocked(p)
}

// Remove drops a persona by name. No-op if not present.
func (o *Orchestrator) Remove(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.byName[name]; !ok {
		return
	}
	delete(o.byName, name)
	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
}

// Personas returns a snapshot of the currently registered personas, in
// registration order.
func (o *Orchestrator) Personas() []Persona {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]Persona, 0, len(o.order))
	for _, n := range o.order {
		out = append(out, o.byName[n])
	}
	return out
}

// ExpandQuery fans query through every registered persona in parallel.
// Applicable personas each contribute one WeightedQuery; a persona whose
// Expand panics is treated as not applicable and the others continue.
// Result order is unspecified.
func (o *Orchestrator) ExpandQuery(query string, ctx QueryContext) []types.WeightedQuery {
	personas := o.Personas()
	if len(personas) == 0 {
		return nil
	}

	out := make([]*types.WeightedQuery, len(personas))
	var wg sync.WaitGroup
	for i, p := range personas {
		wg.Add(1)
		go func(i int, p Persona) {
			defer wg.Done()
			if q, ok := p.safeExpand(query, ctx); ok {
				out[i] = &types.WeightedQuery{Query: q, Weight: p.Weight, SourceName: p.Name}
			}
		}(i, p)
	}
	wg.Wait()

	result := make([]types.WeightedQuery, 0, len(personas))
	for _, wq := range out {
		if wq != nil {
			result = append(result, *wq)
		}
	}
	return result
}

// ExpandBatch is the cross product: each input query expanded by each
// applicable persona.
func (o *Orchestrator) ExpandBatch(queries []string, ctx QueryContext) []types.WeightedQuery {
	var result []types.WeightedQuery
	for _, q := range queries {
		result = append(result, o.ExpandQuery(q, ctx)...)
	}
	return result
}
