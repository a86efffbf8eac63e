// Package agentctx holds AgentContext, the single mutable aggregate of a
// research run's accumulated state. It is owned by the agent loop; data
// parallel fan-outs receive read-only snapshots, never the live struct.
package agentctx

import (
	"fmt"
	"strings"
	"sync"

	"go-deepresearch/internal/knowledge"
	"go-deepresearch/internal/types"
)

// Context is the accumulated mutable state of one research run. All
// mutating operations are safe for concurrent use; the agent loop is
// still the only task that calls them, per the single-writer model.
type Context struct {
	mu sync.RWMutex

	originalQuestion string
	gapQuestions     []string

	knowledgeItems []knowledge.Item
	knowledgeKeys  map[[2]string]bool

	collectedURLs []types.BoostedSearchSnippet
	urlIndex      map[string]int
	visitedURLs   []string
	visitedSet    map[string]bool
	badURLs       []string
	badSet        map[string]bool

	snippets []string
	diary    []knowledge.DiaryEntry

	totalStep         int
	allowDirectAnswer bool

	executedQueries           []string
	executedQueryEmbeddings   [][]float32

	improvementHints    []string
	improvementHintsSet map[string]bool

	lastAgentAnalysis string
}

// New creates an empty Context for the given original question.
func New(originalQuestion string, allowDirectAnswer bool) *Context {
	c := &Context{}
	c.initLocked(originalQuestion, allowDirectAnswer)
	return c
}

func (c *Context) initLocked(originalQuestion string, allowDirectAnswer bool) {
	c.originalQuestion = originalQuestion
	c.gapQuestions = nil
	c.knowledgeItems = nil
	c.knowledgeKeys = make(map[[2]string]bool)
	c.collectedURLs = nil
	c.urlIndex = make(map[string]int)
	c.visitedURLs = nil
	c.visitedSet = make(map[string]bool)
	c.badURLs = nil
	c.badSet = make(map[string]bool)
	c.snippets = nil
	c.diary = nil
	c.totalStep = 0
	c.allowDirectAnswer = allowDirectAnswer
	c.executedQueries = nil
	c.executedQueryEmbeddings = nil
	c.improvementHints = nil
	c.improvementHintsSet = make(map[string]bool)
	c.lastAgentAnalysis = ""
}

// Reset clears all accumulated state, keeping only the original question
// and the allowDirectAnswer flag (a fresh context constructed with the
// same arguments is field-for-field identical).
func (c *Context) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initLocked(c.originalQuestion, c.allowDirectAnswer)
}

// OriginalQuestion returns the question the run was started with.
func (c *Context) OriginalQuestion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.originalQuestion
}

// CurrentQuestion returns originalQuestion if gapQuestions is empty,
// otherwise round-robins through gapQuestions by total_step mod N.
// Answered gap questions are never cleared (spec.md §9 Open Questions).
func (c *Context) CurrentQuestion() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.gapQuestions) == 0 {
		return c.originalQuestion
	}
	idx := c.totalStep % len(c.gapQuestions)
	return c.gapQuestions[idx]
}

// GapQuestions returns a copy of the accumulated gap questions.
func (c *Context) GapQuestions() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.gapQuestions))
	copy(out, c.gapQuestions)
	return out
}

// GapQuestionCount returns the number of accumulated gap questions.
func (c *Context) GapQuestionCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.gapQuestions)
}

// AddGapQuestion appends a gap question unless it is already present.
// Returns true if it was newly added.
func (c *Context) AddGapQuestion(q string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.gapQuestions {
		if existing == q {
			return false
		}
	}
	c.gapQuestions = append(c.gapQuestions, q)
	return true
}

// IncrementStep bumps total_step by one and returns the new value.
// total_step is monotonically non-decreasing by construction.
func (c *Context) IncrementStep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalStep++
	return c.totalStep
}

// TotalStep returns the current step counter.
func (c *Context) TotalStep() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.totalStep
}

// AllowDirectAnswer reports whether direct-answer-at-step-1 is enabled for
// this run.
func (c *Context) AllowDirectAnswer() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.allowDirectAnswer
}

// AddURLs deduplicates the given snippets by URL (preserving insertion
// order) and merges them into collected_urls. Returns the snippets that
// were newly added.
func (c *Context) AddURLs(urls []types.BoostedSearchSnippet) []types.BoostedSearchSnippet {
	c.mu.Lock()
	defer c.mu.Unlock()
	var added []types.BoostedSearchSnippet
	for _, u := range urls {
		if _, ok := c.urlIndex[u.URL]; ok {
			continue
		}
		c.urlIndex[u.URL] = len(c.collectedURLs)
		c.collectedURLs = append(c.collectedURLs, u)
		added = append(added, u)
	}
	return added
}

// CollectedURLCount returns the number of unique URLs collected so far.
func (c *Context) CollectedURLCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.collectedURLs)
}

// CollectedURLs returns a copy of the collected-URL slice.
func (c *Context) CollectedURLs() []types.BoostedSearchSnippet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]types.BoostedSearchSnippet, len(c.collectedURLs))
	copy(out, c.collectedURLs)
	return out
}

// MarkVisited records a URL as successfully read.
func (c *Context) MarkVisited(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visitedSet[url] {
		return
	}
	c.visitedSet[url] = true
	c.visitedURLs = append(c.visitedURLs, url)
}

// MarkBad records a URL as failed to read.
func (c *Context) MarkBad(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.badSet[url] {
		return
	}
	c.badSet[url] = true
	c.badURLs = append(c.badURLs, url)
}

// IsURLVisited reports whether url has been successfully read.
func (c *Context) IsURLVisited(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.visitedSet[url]
}

// IsURLBad reports whether url previously failed to read.
func (c *Context) IsURLBad(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.badSet[url]
}

// AvailableURLs returns the count of collected URLs that are neither
// visited nor bad.
func (c *Context) AvailableURLs() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, u := range c.collectedURLs {
		if !c.visitedSet[u.URL] && !c.badSet[u.URL] {
			n++
		}
	}
	return n
}

// UnvisitedURLs returns up to limit collected snippets that have not been
// visited or marked bad, in collection order. limit<=0 means unlimited.
func (c *Context) UnvisitedURLs(limit int) []types.BoostedSearchSnippet {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []types.BoostedSearchSnippet
	for _, u := range c.collectedURLs {
		if c.visitedSet[u.URL] || c.badSet[u.URL] {
			continue
		}
		out = append(out, u)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// VisitedURLs returns a copy of the visited-URL list.
func (c *Context) VisitedURLs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.visitedURLs))
	copy(out, c.visitedURLs)
	return out
}

// AddKnowledge appends item, deduplicated by (question, answer). Returns
// true if it was newly added.
func (c *Context) AddKnowledge(item knowledge.Item) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := item.Key()
	if c.knowledgeKeys[key] {
		return false
	}
	c.knowledgeKeys[key] = true
	c.knowledgeItems = append(c.knowledgeItems, item)
	return true
}

// AddQAKnowledge is a convenience wrapper constructing an ItemQa.
func (c *Context) AddQAKnowledge(question, answer string) bool {
	return c.AddKnowledge(knowledge.Item{Question: question, Answer: answer, ItemType: knowledge.ItemQa})
}

// Knowledge returns a copy of the accumulated knowledge items.
func (c *Context) Knowledge() []knowledge.Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]knowledge.Item, len(c.knowledgeItems))
	copy(out, c.knowledgeItems)
	return out
}

// AppendDiary appends a diary entry.
func (c *Context) AppendDiary(entry knowledge.DiaryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diary = append(c.diary, entry)
}

// Diary returns a copy of the diary slice.
func (c *Context) Diary() []knowledge.DiaryEntry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]knowledge.DiaryEntry, len(c.diary))
	copy(out, c.diary)
	return out
}

// AddExecutedQueries appends queries and their embeddings as parallel
// arrays. Panics if the slices differ in length (a programming error).
func (c *Context) AddExecutedQueries(queries []string, embeddings [][]float32) {
	if len(queries) != len(embeddings) {
		panic(fmt.Sprintf("agentctx: queries/embeddings length mismatch: %d != %d", len(queries), len(embeddings)))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.executedQueries = append(c.executedQueries, queries...)
	c.executedQueryEmbeddings = append(c.executedQueryEmbeddings, embeddings...)
}

// ExecutedQueries and ExecutedQueryEmbeddings return copies of the
// parallel arrays; their lengths are always equal.
func (c *Context) ExecutedQueries() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.executedQueries))
	copy(out, c.executedQueries)
	return out
}

func (c *Context) ExecutedQueryEmbeddings() [][]float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([][]float32, len(c.executedQueryEmbeddings))
	copy(out, c.executedQueryEmbeddings)
	return out
}

// AddImprovementHint adds s with set semantics (no duplicates).
func (c *Context) AddImprovementHint(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.improvementHintsSet[s] {
		return
	}
	c.improvementHintsSet[s] = true
	c.improvementHints = append(c.improvementHints, s)
}

// ImprovementHints returns a copy of the accumulated hints.
func (c *Context) ImprovementHints() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.improvementHints))
	copy(out, c.improvementHints)
	return out
}

// SetLastAgentAnalysis records the most recent analyzer summary (consumed
// for prompt injection; the analyzer itself is an external collaborator).
func (c *Context) SetLastAgentAnalysis(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAgentAnalysis = s
}

func (c *Context) LastAgentAnalysis() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastAgentAnalysis
}

// FormatKnowledge renders accumulated knowledge for inclusion in a prompt.
func (c *Context) FormatKnowledge() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.knowledgeItems) == 0 {
		return "No knowledge gathered yet."
	}
	var b strings.Builder
	for i, item := range c.knowledgeItems {
		fmt.Fprintf(&b, "%d. [%s] Q: %s\n   A: %s\n", i+1, item.ItemType, item.Question, item.Answer)
	}
	return b.String()
}

// FormatDiary renders the diary for inclusion in a prompt.
func (c *Context) FormatDiary() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.diary) == 0 {
		return "No actions taken yet."
	}
	var b strings.Builder
	for _, entry := range c.diary {
		fmt.Fprintf(&b, "Step %d [%s]: %s\n", entry.Step(), entry.Kind(), formatEntry(entry))
	}
	return b.String()
}

func formatEntry(entry knowledge.DiaryEntry) string {
	switch e := entry.(type) {
	case knowledge.SearchEntry:
		return fmt.Sprintf("searched %v (%d new urls) — %s", e.Queries, e.URLsFound, e.Reasoning)
	case knowledge.ReadEntry:
		return fmt.Sprintf("read %v — %s", e.URLs, e.Reasoning)
	case knowledge.ReflectEntry:
		return fmt.Sprintf("reflected on %v — %s", e.Questions, e.Reasoning)
	case knowledge.FailedAnswerEntry:
		return fmt.Sprintf("answer failed %s evaluation: %s", e.EvalType, e.Reason)
	case knowledge.CodingEntry:
		return fmt.Sprintf("ran code — %s", e.Reasoning)
	case knowledge.IntegrationEntry:
		return fmt.Sprintf("%s: %s", e.Name, e.Summary)
	default:
		return ""
	}
}
