package agentctx

import (
	"testing"
	"time"

	"go-deepresearch/internal/knowledge"
	"go-deepresearch/internal/types"
)

func TestCurrentQuestion_RoundRobin(t *testing.T) {
	c := New("original", false)
	if got := c.CurrentQuestion(); got != "original" {
		t.Errorf("with no gaps, CurrentQuestion = %q, want %q", got, "original")
	}

	c.AddGapQuestion("gap-a")
	c.AddGapQuestion("gap-b")

	c.IncrementStep() // total_step=1
	if got := c.CurrentQuestion(); got != "gap-b" {
		t.Errorf("step 1 mod 2 -> %q, want gap-b", got)
	}
	c.IncrementStep() // total_step=2
	if got := c.CurrentQuestion(); got != "gap-a" {
		t.Errorf("step 2 mod 2 -> %q, want gap-a", got)
	}
}

func TestAddURLs_DedupAndOrder(t *testing.T) {
	c := New("q", false)
	added := c.AddURLs([]types.BoostedSearchSnippet{
		{URL: "https://a.example"},
		{URL: "https://b.example"},
	})
	if len(added) != 2 {
		t.Fatalf("expected 2 newly added, got %d", len(added))
	}

	// idempotent
	again := c.AddURLs([]types.BoostedSearchSnippet{{URL: "https://a.example"}})
	if len(again) != 0 {
		t.Errorf("re-adding an existing URL should add nothing, got %+v", again)
	}
	if c.CollectedURLCount() != 2 {
		t.Errorf("CollectedURLCount = %d, want 2", c.CollectedURLCount())
	}

	urls := c.CollectedURLs()
	if urls[0].URL != "https://a.example" || urls[1].URL != "https://b.example" {
		t.Errorf("insertion order not preserved: %+v", urls)
	}
}

func TestVisitedBadAvailable(t *testing.T) {
	c := New("q", false)
	c.AddURLs([]types.BoostedSearchSnippet{{URL: "a"}, {URL: "b"}, {URL: "c"}})
	c.MarkVisited("a")
	c.MarkBad("b")

	if !c.IsURLVisited("a") {
		t.Errorf("a should be visited")
	}
	if !c.IsURLBad("b") {
		t.Errorf("b should be bad")
	}
	if got := c.AvailableURLs(); got != 1 {
		t.Errorf("AvailableURLs = %d, want 1 (only c)", got)
	}
}

func TestAddKnowledge_DedupByQuestionAnswer(t *testing.T) {
	c := New("q", false)
	if !c.AddQAKnowledge("Q1", "A1") {
		t.Errorf("first add should succeed")
	}
	if c.AddQAKnowledge("Q1", "A1") {
		t.Errorf("duplicate (question,answer) should not be added again")
	}
	if !c.AddQAKnowledge("Q1", "A2") {
		t.Errorf("same question, different answer should be added")
	}
	if len(c.Knowledge()) != 2 {
		t.Errorf("expected 2 distinct knowledge items, got %d", len(c.Knowledge()))
	}
}

func TestAddExecutedQueries_ParallelArraysStayAligned(t *testing.T) {
	c := New("q", false)
	c.AddExecutedQueries([]string{"q1", "q2"}, [][]float32{{1, 2}, {3, 4}})
	c.AddExecutedQueries([]string{"q3"}, [][]float32{{5, 6}})

	qs := c.ExecutedQueries()
	embs := c.ExecutedQueryEmbeddings()
	if len(qs) != len(embs) {
		t.Fatalf("length mismatch: %d queries vs %d embeddings", len(qs), len(embs))
	}
	if len(qs) != 3 {
		t.Errorf("expected 3 executed queries, got %d", len(qs))
	}
}

func TestAddExecutedQueries_PanicsOnLengthMismatch(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on length mismatch")
		}
	}()
	c := New("q", false)
	c.AddExecutedQueries([]string{"q1", "q2"}, [][]float32{{1, 2}})
}

func TestAddImprovementHint_Dedup(t *testing.T) {
	c := New("q", false)
	c.AddImprovementHint("be more specific")
	c.AddImprovementHint("be more specific")
	c.AddImprovementHint("add a date")
	if len(c.ImprovementHints()) != 2 {
		t.Errorf("expected 2 distinct hints, got %d: %v", len(c.ImprovementHints()), c.ImprovementHints())
	}
}

func TestReset_MatchesFreshContext(t *testing.T) {
	c := New("original", true)
	c.AddQAKnowledge("Q", "A")
	c.AddURLs([]types.BoostedSearchSnippet{{URL: "x"}})
	c.AppendDiary(knowledge.NewReflectEntry(1, time.Now(), []string{"g1"}, "because"))
	c.IncrementStep()

	c.Reset()
	c.Reset() // idempotent

	fresh := New("original", true)
	if c.CollectedURLCount() != fresh.CollectedURLCount() ||
		len(c.Knowledge()) != len(fresh.Knowledge()) ||
		len(c.Diary()) != len(fresh.Diary()) ||
		c.TotalStep() != fresh.TotalStep() ||
		c.CurrentQuestion() != fresh.CurrentQuestion() {
		t.Errorf("Reset() did not restore a context equivalent to a freshly constructed one")
	}
}
