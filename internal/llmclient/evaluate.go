package llmclient

import (
	"context"
	"encoding/json"
	"fmt"

	"go-deepresearch/internal/evaluation"
)

var _ evaluation.Evaluator = (*LLMClient)(nil)

var dimensionInstruction = map[evaluation.DimensionType]string{
	evaluation.Definitive: "Judge whether the answer is a definitive, committed statement rather than a hedge, refusal, or request for more information.",
	evaluation.Freshness:  "Judge whether the answer reflects information current enough for the question asked, rather than stale or outdated facts.",
	evaluation.Plurality:  "Judge whether the answer enumerates all the distinct items the question asks for, not just one of several.",
	evaluation.Completeness: "Judge whether the answer addresses every named entity or aspect the question raises.",
	evaluation.Strict:     "Judge the answer against the question with no leniency: every claim must be directly supported by the reasoning given.",
}

type evaluateEnvelope struct {
	Passed      bool     `json:"passed"`
	Reasoning   string   `json:"reasoning"`
	Confidence  float64  `json:"confidence"`
	Suggestions []string `json:"suggestions,omitempty"`
}

// Evaluate asks the model to judge a question/answer pair along one
// dimension, per the JSON envelope evaluation.Outcome expects.
func (c *LLMClient) Evaluate(ctx context.Context, question, answer string, dim evaluation.DimensionType) (evaluation.Outcome, error) {
	instruction, ok := dimensionInstruction[dim]
	if !ok {
		return evaluation.Outcome{}, fmt.Errorf("llmclient: unknown evaluation dimension %q", dim)
	}

	req := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: instruction + ` Respond with JSON only: {"passed": bool, "reasoning": "...", "confidence": 0.0-1.0, "suggestions": ["..."]}`},
			{Role: "user", Content: fmt.Sprintf("Question: %s\n\nAnswer: %s", question, answer)},
		},
	}
	body, err := c.chat.call(ctx, req)
	if err != nil {
		return evaluation.Outcome{}, fmt.Errorf("llmclient: evaluate %s: %w", dim, err)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return evaluation.Outcome{}, fmt.Errorf("llmclient: unmarshal evaluate response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return evaluation.Outcome{}, fmt.Errorf("llmclient: empty choices in evaluate response")
	}

	var env evaluateEnvelope
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &env); err != nil {
		return evaluation.Outcome{}, fmt.Errorf("llmclient: decode evaluate envelope: %w", err)
	}

	return evaluation.Outcome{
		Passed:      env.Passed,
		Reasoning:   env.Reasoning,
		Confidence:  env.Confidence,
		Suggestions: env.Suggestions,
	}, nil
}
