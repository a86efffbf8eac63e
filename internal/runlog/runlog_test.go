package runlog

import (
	"context"
	"testing"
	"time"

	"go-deepresearch/internal/agent"
	"go-deepresearch/internal/state"
	"go-deepresearch/internal/types"
)

func TestRepository_RecordAndGet(t *testing.T) {
	repo, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}

	result := agent.ResearchResult{
		Answer:     "42",
		References: []types.Reference{{URL: "https://example.com", Title: "Example"}},
		Final:      state.Completed{Answer: "42", Trivial: true},
		Steps:      3,
		TokenUsage: agent.TokenUsage{Prompt: 1000, Completion: 234, Total: 1234},
	}

	ctx := context.Background()
	run, err := repo.Record(ctx, "what is the answer?", result, 2*time.Second)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if run.ID == 0 {
		t.Fatal("expected a non-zero ID after create")
	}

	got, err := repo.Get(ctx, run.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Answer != "42" {
		t.Errorf("Answer = %q, want %q", got.Answer, "42")
	}
	if got.FinalState != string(state.KindCompleted) {
		t.Errorf("FinalState = %q, want %q", got.FinalState, state.KindCompleted)
	}
	if got.Steps != 3 || got.TokensUsed != 1234 {
		t.Errorf("Steps/TokensUsed = %d/%d, want 3/1234", got.Steps, got.TokensUsed)
	}
}

func TestRepository_Recent(t *testing.T) {
	repo, err := OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := repo.Record(ctx, "q", agent.ResearchResult{Final: state.Completed{}}, time.Second); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	runs, err := repo.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected Recent(2) to return 2 runs, got %d", len(runs))
	}
}
