// Package tracker implements the token-budget accounting the agent loop
// consults to decide whether to enter Beast Mode.
package tracker

import "sync"

// DefaultBudget is the default token budget for a run.
const DefaultBudget = 1_000_000

// DefaultBeastModeThreshold is the fraction of the budget used that
// triggers Beast Mode.
const DefaultBeastModeThreshold = 0.85

// Row is one accumulated step's usage, kept in the history.
type Row struct {
	Step             int
	Operation        string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Tracker is the single source of truth for token usage and Beast-Mode
// transitions. It performs no side effects itself; callers observe it.
type Tracker struct {
	mu sync.Mutex

	budget         int
	beastThreshold float64

	promptTotal     int
	completionTotal int
	history         []Row
}

// New constructs a Tracker with the given budget. A non-positive budget
// falls back to DefaultBudget.
func New(budget int) *Tracker {
	if budget <= 0 {
		budget = DefaultBudget
	}
	return &Tracker{budget: budget, beastThreshold: DefaultBeastModeThreshold}
}

// WithBeastModeThreshold overrides the default 0.85 trigger fraction.
func (t *Tracker) WithBeastModeThreshold(frac float64) *Tracker {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.beastThreshold = frac
	return t
}

// Track accumulates prompt/completion tokens for a step and appends a
// history row.
func (t *Tracker) Track(step int, operation string, promptTokens, completionTokens int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.promptTotal += promptTokens
	t.completionTotal += completionTokens
	t.history = append(t.history, Row{
		Step:             step,
		Operation:        operation,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
	})
}

// TotalTokens returns prompt+completion tokens accumulated so far.
func (t *Tracker) TotalTokens() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.promptTotal + t.completionTotal
}

// PromptTokens and CompletionTokens return the respective running totals.
func (t *Tracker) PromptTokens() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.promptTotal
}

func (t *Tracker) CompletionTokens() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.completionTotal
}

// Budget returns the configured budget.
func (t *Tracker) Budget() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.budget
}

// BudgetUsedPercentage returns total/budget as a float.
func (t *Tracker) BudgetUsedPercentage() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return float64(t.promptTotal+t.completionTotal) / float64(t.budget)
}

// ShouldEnterBeastMode reports whether budget_used_percentage has reached
// the Beast-Mode threshold.
func (t *Tracker) ShouldEnterBeastMode() bool {
	return t.BudgetUsedPercentage() >= t.beastThreshold
}

// HasBudget reports whether total tokens used is still under budget.
func (t *Tracker) HasBudget() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.promptTotal+t.completionTotal < t.budget
}

// Remaining returns budget-total, saturating at zero.
func (t *Tracker) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	used := t.promptTotal + t.completionTotal
	if used >= t.budget {
		return 0
	}
	return t.budget - used
}

// History returns a copy of the per-step usage rows.
func (t *Tracker) History() []Row {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Row, len(t.history))
	copy(out, t.history)
	return out
}

// Stats summarizes aggregate usage.
type Stats struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Budget           int
	BudgetUsedPct    float64
	Steps            int
}

// Statistics returns an aggregate usage snapshot.
func (t *Tracker) Statistics() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()
	total := t.promptTotal + t.completionTotal
	return Stats{
		PromptTokens:     t.promptTotal,
		CompletionTokens: t.completionTotal,
		TotalTokens:      total,
		Budget:           t.budget,
		BudgetUsedPct:    float64(total) / float64(t.budget),
		Steps:            len(t.history),
	}
}

// Reset clears counters and history but preserves the configured budget.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.promptTotal = 0
	t.completionTotal = 0
	t.history = nil
}
