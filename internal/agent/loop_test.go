package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"go-deepresearch/internal/config"
	"go-deepresearch/internal/evaluation"
	"go-deepresearch/internal/permissions"
	"go-deepresearch/internal/persona"
	"go-deepresearch/internal/state"
	"go-deepresearch/internal/types"
)

// scriptedLLM replays a fixed sequence of actions, then falls back to a
// trivial answer once exhausted. A non-nil err makes every DecideAction
// call fail instead.
type scriptedLLM struct {
	actions []Action
	idx     int
	err     error
}

func (f *scriptedLLM) DecideAction(ctx context.Context, prompt string, perms permissions.ActionPermissions) (Action, int, int, error) {
	if f.err != nil {
		return nil, 0, 0, f.err
	}
	if f.idx >= len(f.actions) {
		return AnswerAction{Answer: "fallback"}, 10, 10, nil
	}
	a := f.actions[f.idx]
	f.idx++
	return a, 10, 10, nil
}

func (f *scriptedLLM) GenerateAnswer(ctx context.Context, prompt string) (string, []types.Reference, int, int, error) {
	return "", nil, 0, 0, errors.New("not used in these tests")
}

func (f *scriptedLLM) Embed(ctx context.Context, text string) ([]float32, int, error) {
	return []float32{1, 0, 0}, 0, nil
}

func (f *scriptedLLM) EmbedBatch(ctx context.Context, texts []string) ([][]float32, int, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i + 1), 0, 0}
	}
	return out, 0, nil
}

// reflectForeverLLM always asks to reflect, with a fresh gap question
// each time so the action never fails for being a duplicate.
type reflectForeverLLM struct {
	calls int
}

func (f *reflectForeverLLM) DecideAction(ctx context.Context, prompt string, perms permissions.ActionPermissions) (Action, int, int, error) {
	f.calls++
	return ReflectAction{Questions: []string{fmt.Sprintf("gap question %d", f.calls)}}, 1, 1, nil
}

func (f *reflectForeverLLM) GenerateAnswer(ctx context.Context, prompt string) (string, []types.Reference, int, int, error) {
	return "", nil, 0, 0, errors.New("not used")
}
func (f *reflectForeverLLM) Embed(ctx context.Context, text string) ([]float32, int, error) {
	return nil, 0, nil
}
func (f *reflectForeverLLM) EmbedBatch(ctx context.Context, texts []string) ([][]float32, int, error) {
	return nil, 0, nil
}

type fakeSearch struct {
	readErr error
}

func (f *fakeSearch) Search(ctx context.Context, q types.SerpQuery) ([]types.BoostedSearchSnippet, error) {
	return []types.BoostedSearchSnippet{{URL: "https://example.com/" + q.Q, Title: "t", Description: "d"}}, nil
}

func (f *fakeSearch) ReadURL(ctx context.Context, url string) (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return "content of " + url, nil
}

func (f *fakeSearch) ExtractHostname(url string) string   { return "example.com" }
func (f *fakeSearch) HostnameBoost(host string) float64   { return 1 }
func (f *fakeSearch) PathBoost(path string) float64       { return 1 }

type fakeEvaluator struct{ pass bool }

func (f fakeEvaluator) Evaluate(ctx context.Context, question, answer string, dim evaluation.DimensionType) (evaluation.Outcome, error) {
	return evaluation.Outcome{Passed: f.pass, Confidence: 1, Reasoning: "stub evaluator"}, nil
}

func defaultTestConfig() config.AgentConfig {
	return config.AgentConfig{
		TokenBudget:          1_000_000,
		MinStepsBeforeAnswer: 1,
		AllowDirectAnswer:    true,
		MaxURLsPerStep:       10,
		MaxQueriesPerStep:    5,
		MaxFailures:          3,
		DedupThreshold:       0.86,
		BeastModeThreshold:   0.85,
		MaxSteps:             20,
	}
}

// identityOrchestrator returns a single-persona orchestrator that passes
// the query straight through, so tests can predict exact search URLs.
func identityOrchestrator() *persona.Orchestrator {
	o := persona.Technical()
	for _, p := range o.Personas() {
		o.Remove(p.Name)
	}
	o.Add(persona.Persona{
		Name:   "identity",
		Weight: 1.0,
		Expand: func(q string, _ persona.QueryContext) types.SerpQuery { return types.SerpQuery{Q: q} },
	})
	return o
}

func TestRun_DirectAnswerAccepted(t *testing.T) {
	llm := &scriptedLLM{actions: []Action{AnswerAction{Answer: "42"}}}
	a := &Agent{
		LLM:       llm,
		Search:    &fakeSearch{},
		Evaluator: fakeEvaluator{pass: true},
		Personas:  identityOrchestrator(),
		Config:    defaultTestConfig(),
	}
	result := a.Run(context.Background(), "what is 6*7?", true)

	if result.Final.Kind() != state.KindCompleted {
		t.Fatalf("expected Completed, got %v", result.Final.Kind())
	}
	if result.Answer != "42" {
		t.Errorf("Answer = %q, want 42", result.Answer)
	}
	comp := result.Final.(state.Completed)
	if !comp.Trivial {
		t.Error("expected a first-step answer to be marked Trivial")
	}
}

func TestRun_SearchReadAnswerFlow(t *testing.T) {
	llm := &scriptedLLM{actions: []Action{
		SearchAction{Queries: []string{"golang concurrency"}, Reasoning: "need background"},
		ReadAction{URLs: []string{"https://example.com/golang concurrency"}, Reasoning: "read top hit"},
		AnswerAction{Answer: "goroutines are cheap", Reasoning: "synthesized"},
	}}
	a := &Agent{
		LLM:       llm,
		Search:    &fakeSearch{},
		Evaluator: fakeEvaluator{pass: true},
		Personas:  identityOrchestrator(),
		Config:    defaultTestConfig(),
	}
	result := a.Run(context.Background(), "how does goroutine scheduling work?", false)

	if result.Final.Kind() != state.KindCompleted {
		t.Fatalf("expected Completed, got %v (steps=%d)", result.Final.Kind(), result.Steps)
	}
	if result.Answer != "goroutines are cheap" {
		t.Errorf("Answer = %q", result.Answer)
	}
	if result.Steps != 3 {
		t.Errorf("Steps = %d, want 3", result.Steps)
	}
}

func TestRun_TooManyDecisionErrorsFails(t *testing.T) {
	llm := &scriptedLLM{err: errors.New("llm unavailable")}
	cfg := defaultTestConfig()
	cfg.MaxFailures = 2
	a := &Agent{
		LLM:       llm,
		Search:    &fakeSearch{},
		Evaluator: fakeEvaluator{pass: true},
		Personas:  identityOrchestrator(),
		Config:    cfg,
	}
	result := a.Run(context.Background(), "some question", false)

	if result.Final.Kind() != state.KindFailed {
		t.Fatalf("expected Failed, got %v", result.Final.Kind())
	}
}

func TestRun_BeastModeAnswerFailureTerminates(t *testing.T) {
	// A single Search action, then the fallback Answer("fallback") on every
	// subsequent step. Every decide call costs a fixed 20 tokens: the
	// budget and threshold below are sized so Beast Mode is entered partway
	// through (once 50% of 150 is spent) well before the 150-token budget
	// itself is exhausted, isolating the beast-mode-attempts path from
	// budget exhaustion.
	llm := &scriptedLLM{actions: []Action{
		SearchAction{Queries: []string{"x"}},
	}}
	cfg := defaultTestConfig()
	cfg.TokenBudget = 150
	cfg.BeastModeThreshold = 0.5
	cfg.MaxFailures = 2
	a := &Agent{
		LLM:       llm,
		Search:    &fakeSearch{},
		Evaluator: fakeEvaluator{pass: false},
		Personas:  identityOrchestrator(),
		Config:    cfg,
	}
	result := a.Run(context.Background(), "some question", false)

	if result.Final.Kind() != state.KindFailed {
		t.Fatalf("expected Failed, got %v", result.Final.Kind())
	}
	failed := result.Final.(state.Failed)
	if !strings.Contains(failed.Reason, "beast mode") {
		t.Errorf("Reason = %q, want it to mention beast mode (not budget exhaustion)", failed.Reason)
	}
}

func TestRun_BudgetExhaustionFails(t *testing.T) {
	llm := &reflectForeverLLM{}
	cfg := defaultTestConfig()
	cfg.TokenBudget = 5 // three decide calls (2 tokens each) bring the total to 6, past this
	cfg.MaxFailures = 100
	cfg.MaxSteps = 100
	a := &Agent{
		LLM:       llm,
		Search:    &fakeSearch{},
		Evaluator: fakeEvaluator{pass: true},
		Personas:  identityOrchestrator(),
		Config:    cfg,
	}
	result := a.Run(context.Background(), "some question", false)

	if result.Final.Kind() != state.KindFailed {
		t.Fatalf("expected Failed, got %v", result.Final.Kind())
	}
	failed := result.Final.(state.Failed)
	if failed.Reason != "budget exhausted" {
		t.Errorf("Reason = %q, want %q", failed.Reason, "budget exhausted")
	}
}

func TestRun_MaxStepsExceededFails(t *testing.T) {
	llm := &reflectForeverLLM{}
	cfg := defaultTestConfig()
	cfg.MaxSteps = 3
	cfg.MaxFailures = 100
	a := &Agent{
		LLM:       llm,
		Search:    &fakeSearch{},
		Evaluator: fakeEvaluator{pass: true},
		Personas:  identityOrchestrator(),
		Config:    cfg,
	}
	result := a.Run(context.Background(), "an open-ended question", false)

	if result.Final.Kind() != state.KindFailed {
		t.Fatalf("expected Failed, got %v", result.Final.Kind())
	}
	if result.Steps != cfg.MaxSteps {
		t.Errorf("Steps = %d, want %d", result.Steps, cfg.MaxSteps)
	}
}
