package llmclient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go-deepresearch/internal/agent"
	"go-deepresearch/internal/permissions"
	"go-deepresearch/internal/types"
)

// LLMClient implements agent.LLMClient against an OpenAI-compatible chat
// completions endpoint (decide/answer, Critical priority) and embeddings
// endpoint (Embed/EmbedBatch, Background priority).
type LLMClient struct {
	chat       *Client
	embed      *Client
	chatModel  string
	embedModel string
}

// New constructs an LLMClient. chatEndpoint and embedEndpoint are full
// URLs (e.g. "http://localhost:8080/v1/chat/completions").
func New(manager *Manager, chatEndpoint, embedEndpoint, chatModel, embedModel string, timeoutSeconds int) *LLMClient {
	timeout := secondsOrDefault(timeoutSeconds, 60)
	return &LLMClient{
		chat:       NewClient(manager, chatEndpoint, PriorityCritical, timeout),
		embed:      NewClient(manager, embedEndpoint, PriorityBackground, timeout),
		chatModel:  chatModel,
		embedModel: embedModel,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// actionEnvelope is the JSON shape the model is instructed to respond
// with: one action name plus whichever fields it applies to.
type actionEnvelope struct {
	Action     string        `json:"action"`
	Queries    []string      `json:"queries,omitempty"`
	URLs       []string      `json:"urls,omitempty"`
	Questions  []string      `json:"questions,omitempty"`
	Answer     string        `json:"answer,omitempty"`
	References []referenceJSON `json:"references,omitempty"`
	Code       string        `json:"code,omitempty"`
	Reasoning  string        `json:"reasoning,omitempty"`
}

type referenceJSON struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	ExactQuote string `json:"exact_quote"`
}

const actionResponseInstruction = `Respond with a single JSON object only, no markdown fences, matching:
{"action": "search"|"read"|"reflect"|"answer"|"coding", "reasoning": "...", ...action-specific fields}
search: {"queries": ["..."]}
read: {"urls": ["..."]}
reflect: {"questions": ["..."]}
answer: {"answer": "...", "references": [{"url": "...", "title": "...", "exact_quote": "..."}]}
coding: {"code": "..."}`

func (c *LLMClient) DecideAction(ctx context.Context, prompt string, perms permissions.ActionPermissions) (agent.Action, int, int, error) {
	req := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: actionResponseInstruction},
			{Role: "user", Content: prompt},
		},
	}
	body, err := c.chat.call(ctx, req)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("llmclient: decide action: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, 0, fmt.Errorf("llmclient: unmarshal chat response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, fmt.Errorf("llmclient: empty choices in chat response")
	}

	var env actionEnvelope
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &env); err != nil {
		return nil, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, fmt.Errorf("llmclient: decode action envelope: %w", err)
	}

	action, err := decodeAction(env)
	return action, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, err
}

func decodeAction(env actionEnvelope) (agent.Action, error) {
	switch env.Action {
	case string(agent.ActionSearch):
		return agent.SearchAction{Queries: env.Queries, Reasoning: env.Reasoning}, nil
	case string(agent.ActionRead):
		return agent.ReadAction{URLs: env.URLs, Reasoning: env.Reasoning}, nil
	case string(agent.ActionReflect):
		return agent.ReflectAction{Questions: env.Questions, Reasoning: env.Reasoning}, nil
	case string(agent.ActionAnswer):
		return agent.AnswerAction{Answer: env.Answer, References: decodeReferences(env.References), Reasoning: env.Reasoning}, nil
	case string(agent.ActionCoding):
		return agent.CodingAction{Code: env.Code, Reasoning: env.Reasoning}, nil
	default:
		return nil, fmt.Errorf("llmclient: unrecognized action %q", env.Action)
	}
}

func decodeReferences(in []referenceJSON) []types.Reference {
	if len(in) == 0 {
		return nil
	}
	out := make([]types.Reference, len(in))
	for i, r := range in {
		out[i] = types.Reference{URL: r.URL, Title: r.Title, ExactQuote: r.ExactQuote}
	}
	return out
}

// GenerateAnswer asks the model for a final answer directly, bypassing
// the action envelope. The agent loop does not call it: its answers,
// Beast Mode included, come from DecideAction's answer action.
func (c *LLMClient) GenerateAnswer(ctx context.Context, prompt string) (string, []types.Reference, int, int, error) {
	req := chatRequest{
		Model: c.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: `Respond with JSON: {"answer": "...", "references": [{"url":"...","title":"...","exact_quote":"..."}]}`},
			{Role: "user", Content: prompt},
		},
	}
	body, err := c.chat.call(ctx, req)
	if err != nil {
		return "", nil, 0, 0, fmt.Errorf("llmclient: generate answer: %w", err)
	}

	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", nil, 0, 0, fmt.Errorf("llmclient: unmarshal chat response: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", nil, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, fmt.Errorf("llmclient: empty choices in chat response")
	}

	var env struct {
		Answer     string          `json:"answer"`
		References []referenceJSON `json:"references"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &env); err != nil {
		return "", nil, resp.Usage.PromptTokens, resp.Usage.CompletionTokens, fmt.Errorf("llmclient: decode answer envelope: %w", err)
	}
	return env.Answer, decodeReferences(env.References), resp.Usage.PromptTokens, resp.Usage.CompletionTokens, nil
}

type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// Embed returns the embedding vector for a single text and the
// tokens_used the backend reported for it.
func (c *LLMClient) Embed(ctx context.Context, text string) ([]float32, int, error) {
	out, tokensUsed, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, 0, err
	}
	if len(out) == 0 {
		return nil, 0, fmt.Errorf("llmclient: embedding endpoint returned no vectors")
	}
	return out[0], tokensUsed, nil
}

// EmbedBatch returns one embedding vector per input text, in order, plus
// the total tokens_used the backend reported for the whole batch call.
func (c *LLMClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, int, error) {
	if len(texts) == 0 {
		return nil, 0, nil
	}
	body, err := c.embed.call(ctx, embedRequest{Model: c.embedModel, Input: texts})
	if err != nil {
		return nil, 0, fmt.Errorf("llmclient: embed batch: %w", err)
	}
	var resp embedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, 0, fmt.Errorf("llmclient: unmarshal embed response: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, 0, fmt.Errorf("llmclient: embedding endpoint returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}
	out := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		out[i] = d.Embedding
	}
	tokensUsed := resp.Usage.TotalTokens
	if tokensUsed == 0 {
		tokensUsed = resp.Usage.PromptTokens
	}
	return out, tokensUsed, nil
}

func secondsOrDefault(seconds, fallback int) time.Duration {
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}
