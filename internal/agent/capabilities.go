// Package agent implements the research step loop: deciding an action,
// dispatching it against the external capabilities, and folding the
// result back into the run's accumulated context.
package agent

import (
	"context"

	"go-deepresearch/internal/permissions"
	"go-deepresearch/internal/types"
)

// LLMClient is the reasoning capability the loop consumes to decide and
// answer. Implementations own prompting, parsing, and retries against the
// underlying model; the loop only sees Action values and token counts.
type LLMClient interface {
	// DecideAction picks the next action given the rendered prompt and the
	// permissions currently in force. Returns the decoded action and the
	// prompt/completion token counts spent producing it.
	DecideAction(ctx context.Context, prompt string, perms permissions.ActionPermissions) (Action, int, int, error)

	// GenerateAnswer produces a final answer and its supporting references
	// from the rendered prompt.
	GenerateAnswer(ctx context.Context, prompt string) (answer string, refs []types.Reference, promptTokens, completionTokens int, err error)

	// Embed and EmbedBatch produce dedup-ready embeddings for queries,
	// alongside the tokens_used the backend reported for the call
	// (spec.md §6), so the loop can fold embedding spend into the budget.
	Embed(ctx context.Context, text string) (vector []float32, tokensUsed int, err error)
	EmbedBatch(ctx context.Context, texts []string) (vectors [][]float32, tokensUsed int, err error)
}

// SearchClient is the web-search and page-retrieval capability.
type SearchClient interface {
	Search(ctx context.Context, q types.SerpQuery) ([]types.BoostedSearchSnippet, error)
	ReadURL(ctx context.Context, url string) (content string, err error)
	ExtractHostname(url string) string
	HostnameBoost(hostname string) float64
	PathBoost(path string) float64
}

// SandboxClient is the optional code-execution capability backing the
// Coding action.
type SandboxClient interface {
	RunCode(ctx context.Context, code string) (output string, err error)
}
