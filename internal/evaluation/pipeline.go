package evaluation

import (
	"context"
	"time"
)

// RunPipeline runs every dimension in required, in order, against
// (question, answer), via evaluator. Execution is sequential with
// fail-fast semantics: the first failing dimension short-circuits the
// pipeline and the remaining dimensions are skipped (spec.md §4.4). An
// evaluator error is recorded as a failure with confidence 0 and also
// short-circuits.
func RunPipeline(ctx context.Context, evaluator Evaluator, question, answer string, required []DimensionType) PipelineResult {
	results := make([]Result, 0, len(required))

	for _, dim := range required {
		cfg := ConfigFor(dim)
		outcome, duration := evaluateWithRetry(ctx, evaluator, question, answer, dim, cfg)

		res := Result{
			EvalType:    dim,
			Passed:      outcome.Passed,
			Confidence:  outcome.Confidence,
			Reasoning:   outcome.Reasoning,
			Suggestions: outcome.Suggestions,
			Duration:    duration,
		}
		results = append(results, res)

		if !res.Passed {
			failed := dim
			return PipelineResult{OverallPassed: false, Results: results, FailedAt: &failed}
		}
	}

	return PipelineResult{OverallPassed: true, Results: results}
}

// evaluateWithRetry calls evaluator.Evaluate up to cfg.MaxRetries+1 times,
// bounded per-attempt by cfg.Timeout, stopping at the first passing
// outcome or the first error (an error is never retried — spec.md §4.4
// treats evaluator errors as a hard failure, not a transient one).
func evaluateWithRetry(ctx context.Context, evaluator Evaluator, question, answer string, dim DimensionType, cfg DimensionConfig) (Outcome, time.Duration) {
	start := time.Now()
	var last Outcome

	attempts := cfg.MaxRetries + 1
	for i := 0; i < attempts; i++ {
		attemptCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		outcome, err := evaluator.Evaluate(attemptCtx, question, answer, dim)
		cancel()

		if err != nil {
			return Outcome{Passed: false, Reasoning: err.Error(), Confidence: 0}, time.Since(start)
		}
		last = outcome
		if outcome.Passed {
			return outcome, time.Since(start)
		}
	}
	return last, time.Since(start)
}
