package evaluation

import (
	"context"
	"errors"
	"testing"
)

type stubEvaluator struct {
	outcomes map[DimensionType][]Outcome // successive outcomes per dimension, last one repeats
	errs     map[DimensionType]error
	calls    map[DimensionType]int
}

func newStubEvaluator() *stubEvaluator {
	return &stubEvaluator{
		outcomes: map[DimensionType][]Outcome{},
		errs:     map[DimensionType]error{},
		calls:    map[DimensionType]int{},
	}
}

func (s *stubEvaluator) Evaluate(ctx context.Context, question, answer string, dim DimensionType) (Outcome, error) {
	s.calls[dim]++
	if err, ok := s.errs[dim]; ok {
		return Outcome{}, err
	}
	seq := s.outcomes[dim]
	if len(seq) == 0 {
		return Outcome{Passed: true, Confidence: 1}, nil
	}
	idx := s.calls[dim] - 1
	if idx >= len(seq) {
		idx = len(seq) - 1
	}
	return seq[idx], nil
}

func TestRunPipeline_AllPass(t *testing.T) {
	ev := newStubEvaluator()
	required := []DimensionType{Definitive, Freshness}
	result := RunPipeline(context.Background(), ev, "q", "a", required)

	if !result.OverallPassed {
		t.Fatalf("expected OverallPassed, got %+v", result)
	}
	if result.FailedAt != nil {
		t.Errorf("expected nil FailedAt, got %v", *result.FailedAt)
	}
	if len(result.Results) != 2 {
		t.Errorf("expected 2 results, got %d", len(result.Results))
	}
	for _, r := range result.Results {
		if !r.Passed {
			t.Errorf("OverallPassed implies every result passed, got failing %v", r.EvalType)
		}
	}
}

func TestRunPipeline_FailFastShortCircuits(t *testing.T) {
	ev := newStubEvaluator()
	ev.outcomes[Freshness] = []Outcome{{Passed: false, Confidence: 0.2, Reasoning: "stale"}}
	required := []DimensionType{Definitive, Freshness, Plurality, Completeness}

	result := RunPipeline(context.Background(), ev, "q", "a", required)

	if result.OverallPassed {
		t.Fatal("expected pipeline to fail")
	}
	if result.FailedAt == nil || *result.FailedAt != Freshness {
		t.Fatalf("expected FailedAt = Freshness, got %v", result.FailedAt)
	}
	if len(result.Results) != 2 {
		t.Fatalf("expected exactly 2 recorded results (Definitive, Freshness), got %d: %+v", len(result.Results), result.Results)
	}
	if ev.calls[Plurality] != 0 || ev.calls[Completeness] != 0 {
		t.Error("dimensions after the failing one must never be invoked")
	}
}

func TestRunPipeline_EvaluatorErrorIsHardFailure(t *testing.T) {
	ev := newStubEvaluator()
	ev.errs[Definitive] = errors.New("llm unavailable")
	required := []DimensionType{Definitive, Freshness}

	result := RunPipeline(context.Background(), ev, "q", "a", required)

	if result.OverallPassed {
		t.Fatal("expected failure on evaluator error")
	}
	if result.FailedAt == nil || *result.FailedAt != Definitive {
		t.Fatalf("expected FailedAt = Definitive, got %v", result.FailedAt)
	}
	if len(result.Results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(result.Results))
	}
	if result.Results[0].Confidence != 0 {
		t.Errorf("expected confidence 0 on evaluator error, got %v", result.Results[0].Confidence)
	}
	if ev.calls[Definitive] != 1 {
		t.Errorf("evaluator error must not be retried, got %d calls", ev.calls[Definitive])
	}
}

func TestRunPipeline_RetriesWithinDimension(t *testing.T) {
	ev := newStubEvaluator()
	ev.outcomes[Freshness] = []Outcome{
		{Passed: false, Confidence: 0.1},
		{Passed: true, Confidence: 0.9},
	}
	required := []DimensionType{Freshness}

	result := RunPipeline(context.Background(), ev, "q", "a", required)

	if !result.OverallPassed {
		t.Fatalf("expected pass after retry, got %+v", result)
	}
	if ev.calls[Freshness] != 2 {
		t.Errorf("expected 2 calls (1 retry), got %d", ev.calls[Freshness])
	}
}

func TestRunPipeline_ExhaustsRetriesAndFails(t *testing.T) {
	ev := newStubEvaluator()
	ev.outcomes[Plurality] = []Outcome{{Passed: false, Confidence: 0.3}}
	required := []DimensionType{Plurality}

	result := RunPipeline(context.Background(), ev, "q", "a", required)

	if result.OverallPassed {
		t.Fatal("expected failure after exhausting retries")
	}
	wantCalls := ConfigFor(Plurality).MaxRetries + 1
	if ev.calls[Plurality] != wantCalls {
		t.Errorf("expected %d calls, got %d", wantCalls, ev.calls[Plurality])
	}
}

func TestRunPipeline_EmptyRequiredAlwaysPasses(t *testing.T) {
	ev := newStubEvaluator()
	result := RunPipeline(context.Background(), ev, "q", "a", nil)
	if !result.OverallPassed {
		t.Error("expected vacuous pass for empty required dimension list")
	}
	if len(result.Results) != 0 {
		t.Errorf("expected no results, got %d", len(result.Results))
	}
}
