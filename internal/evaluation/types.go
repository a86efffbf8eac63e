// Package evaluation implements the multi-dimensional answer-evaluation
// pipeline: which dimensions a question requires, and the fail-fast
// sequential run of those dimensions against a candidate answer.
package evaluation

import (
	"context"
	"time"
)

// DimensionType is the closed set of evaluation dimensions.
type DimensionType string

const (
	Definitive   DimensionType = "definitive"
	Freshness    DimensionType = "freshness"
	Plurality    DimensionType = "plurality"
	Completeness DimensionType = "completeness"
	Strict       DimensionType = "strict"
)

// DimensionConfig carries the per-dimension retry/timeout/weight policy
// from spec.md §4.4.
type DimensionConfig struct {
	MaxRetries int
	Timeout    time.Duration
	Weight     float64
}

var dimensionConfigs = map[DimensionType]DimensionConfig{
	Definitive:   {MaxRetries: 2, Timeout: 30 * time.Second, Weight: 1.0},
	Freshness:    {MaxRetries: 1, Timeout: 20 * time.Second, Weight: 0.8},
	Plurality:    {MaxRetries: 1, Timeout: 15 * time.Second, Weight: 0.6},
	Completeness: {MaxRetries: 2, Timeout: 25 * time.Second, Weight: 0.9},
	Strict:       {MaxRetries: 3, Timeout: 45 * time.Second, Weight: 1.5},
}

// ConfigFor returns the configuration for a dimension.
func ConfigFor(d DimensionType) DimensionConfig {
	return dimensionConfigs[d]
}

// Outcome is what an external evaluator call returns for one dimension.
type Outcome struct {
	Passed      bool
	Reasoning   string
	Confidence  float64 // [0,1]
	Suggestions []string
}

// Evaluator is the external LLM-backed evaluate() capability (spec.md §6),
// consumed by the pipeline as an interface.
type Evaluator interface {
	Evaluate(ctx context.Context, question, answer string, dim DimensionType) (Outcome, error)
}

// Result is one dimension's recorded outcome within a pipeline run.
type Result struct {
	EvalType    DimensionType
	Passed      bool
	Confidence  float64
	Reasoning   string
	Suggestions []string
	Duration    time.Duration
}

// PipelineResult is the output of a full evaluation run.
type PipelineResult struct {
	OverallPassed bool
	Results       []Result
	FailedAt      *DimensionType
}
