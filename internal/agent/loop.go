package agent

import (
	"context"
	"fmt"
	"time"

	"go-deepresearch/internal/agentctx"
	"go-deepresearch/internal/config"
	"go-deepresearch/internal/evaluation"
	"go-deepresearch/internal/knowledge"
	"go-deepresearch/internal/permissions"
	"go-deepresearch/internal/persona"
	"go-deepresearch/internal/state"
	"go-deepresearch/internal/tracker"
	"go-deepresearch/internal/types"
	"go-deepresearch/internal/vector"
)

// Agent wires the external capabilities together and runs the research
// step loop described in spec.md §4.8.
type Agent struct {
	LLM       LLMClient
	Search    SearchClient
	Sandbox   SandboxClient // nil disables the Coding action
	Evaluator evaluation.Evaluator
	Personas  *persona.Orchestrator
	Config    config.AgentConfig
	Progress  ProgressSink

	// ClassifyQuery optionally assigns a topic/language to the question
	// before persona expansion. Nil uses the zero QueryContext.
	ClassifyQuery func(question string) persona.QueryContext
}

// TokenUsage breaks down a run's token spend the way spec.md §4.8
// reports it: prompt, completion, and their sum.
type TokenUsage struct {
	Prompt     int
	Completion int
	Total      int
}

// ResearchResult is what Run returns once the state machine reaches a
// terminal state.
type ResearchResult struct {
	Success     bool
	Answer      string
	References  []types.Reference
	Final       state.State
	Steps       int
	Trivial     bool
	TokenUsage  TokenUsage
	VisitedURLs []string
	Error       string

	TotalTimeMs  int64
	SearchTimeMs int64
	ReadTimeMs   int64
	LLMTimeMs    int64
}

// Run drives one research question from Processing through to Completed
// or Failed.
func (a *Agent) Run(ctx context.Context, question string, allowDirectAnswer bool) ResearchResult {
	actx := agentctx.New(question, allowDirectAnswer)
	tr := tracker.New(a.Config.TokenBudget)
	tr.WithBeastModeThreshold(a.Config.BeastModeThreshold)

	runStart := time.Now()
	var searchElapsed, readElapsed, llmElapsed time.Duration

	var current state.State = state.Initial(question)
	consecutiveFailures := 0

	for !state.IsTerminal(current) {
		if !tr.HasBudget() {
			current = a.failOut(current, actx, "budget exhausted")
			break
		}

		if actx.TotalStep() >= a.Config.MaxSteps {
			current = a.failOut(current, actx, "exceeded maximum step count")
			break
		}

		step := actx.IncrementStep()

		if state.IsProcessing(current) && tr.ShouldEnterBeastMode() {
			a.emit(step, ProgressInfo, "entering beast mode: token budget threshold reached", "", "")
			current = a.transition(current, state.BeastMode{Attempts: 0})
		}

		var perms permissions.ActionPermissions
		if state.IsBeastMode(current) {
			perms = permissions.BeastMode()
		} else {
			perms = permissions.FromContext(actx, a.Config)
		}

		prompt := BuildPrompt(actx, perms)
		decideStart := time.Now()
		action, pTok, cTok, err := a.LLM.DecideAction(ctx, prompt, perms)
		llmElapsed += time.Since(decideStart)
		tr.Track(step, "decide_action", pTok, cTok)

		if err != nil {
			consecutiveFailures++
			a.emit(step, ProgressError, err.Error(), "", "")
			if consecutiveFailures >= a.Config.MaxFailures {
				current = a.failOut(current, actx, "too many consecutive decision failures")
			}
			continue
		}

		if !isActionPermitted(action.Kind(), perms) {
			consecutiveFailures++
			a.emit(step, ProgressWarning, "model chose a forbidden action: "+string(action.Kind()), "", action.Kind())
			if consecutiveFailures >= a.Config.MaxFailures {
				current = a.failOut(current, actx, "too many forbidden-action attempts")
			}
			continue
		}

		a.emit(step, ProgressAction, actionSummary(action), "", action.Kind())

		if answerAct, isAnswer := action.(AnswerAction); isAnswer {
			answerStart := time.Now()
			current, _ = a.doAnswer(ctx, actx, step, current, answerAct)
			llmElapsed += time.Since(answerStart)
			// A permitted answer ends any run of decision failures. A rejected
			// answer does not count toward MaxFailures here: Processing keeps
			// looping, and BeastMode counts its own Attempts in doAnswer.
			consecutiveFailures = 0
			continue
		}

		if a.dispatch(ctx, actx, tr, step, action, &searchElapsed, &readElapsed) {
			consecutiveFailures = 0
		} else {
			consecutiveFailures++
			if consecutiveFailures >= a.Config.MaxFailures {
				current = a.failOut(current, actx, "too many consecutive action failures")
			}
		}
	}

	result := ResearchResult{
		Final:       current,
		Steps:       actx.TotalStep(),
		VisitedURLs: actx.VisitedURLs(),
		TokenUsage: TokenUsage{
			Prompt:     tr.PromptTokens(),
			Completion: tr.CompletionTokens(),
			Total:      tr.TotalTokens(),
		},
		TotalTimeMs:  time.Since(runStart).Milliseconds(),
		SearchTimeMs: searchElapsed.Milliseconds(),
		ReadTimeMs:   readElapsed.Milliseconds(),
		LLMTimeMs:    llmElapsed.Milliseconds(),
	}
	switch st := current.(type) {
	case state.Completed:
		result.Success = true
		result.Answer = st.Answer
		result.References = st.References
		result.Trivial = st.Trivial
	case state.Failed:
		result.Error = st.Reason
	}
	return result
}

func (a *Agent) transition(from, to state.State) state.State {
	if !state.CanTransitionTo(from.Kind(), to.Kind()) {
		panic(fmt.Sprintf("agent: illegal state transition %s -> %s", from.Kind(), to.Kind()))
	}
	return to
}

func (a *Agent) failOut(current state.State, actx *agentctx.Context, reason string) state.State {
	return a.transition(current, state.Failed{Reason: reason, PartialKnowledge: knowledgeSummaries(actx)})
}

func (a *Agent) dispatch(ctx context.Context, actx *agentctx.Context, tr *tracker.Tracker, step int, action Action, searchElapsed, readElapsed *time.Duration) bool {
	switch act := action.(type) {
	case SearchAction:
		start := time.Now()
		ok := a.doSearch(ctx, actx, tr, step, act)
		*searchElapsed += time.Since(start)
		return ok
	case ReadAction:
		start := time.Now()
		ok := a.doRead(ctx, actx, step, act)
		*readElapsed += time.Since(start)
		return ok
	case ReflectAction:
		return a.doReflect(actx, step, act)
	case CodingAction:
		return a.doCoding(ctx, actx, step, act)
	default:
		return false
	}
}

func (a *Agent) doAnswer(ctx context.Context, actx *agentctx.Context, step int, current state.State, act AnswerAction) (state.State, bool) {
	question := actx.CurrentQuestion()
	required := evaluation.DetermineRequired(question)
	result := evaluation.RunPipeline(ctx, a.Evaluator, question, act.Answer, required)

	if result.OverallPassed {
		a.emit(step, ProgressSuccess, "answer accepted", "", ActionAnswer)
		return state.Completed{
			Answer:     act.Answer,
			References: act.References,
			Trivial:    actx.TotalStep() == 1 && actx.AllowDirectAnswer(),
		}, true
	}

	dim := ""
	reason := "failed evaluation"
	if result.FailedAt != nil {
		dim = string(*result.FailedAt)
	}
	if n := len(result.Results); n > 0 {
		reason = result.Results[n-1].Reasoning
	}
	actx.AppendDiary(knowledge.NewFailedAnswerEntry(step, time.Now(), act.Answer, dim, reason))
	a.emit(step, ProgressWarning, fmt.Sprintf("answer failed %s evaluation", dim), "", ActionAnswer)

	for _, res := range result.Results {
		for _, hint := range res.Suggestions {
			actx.AddImprovementHint(hint)
		}
	}
	actx.AddKnowledge(knowledge.Item{Question: question, Answer: act.Answer, ItemType: knowledge.ItemError})

	if state.IsBeastMode(current) {
		bm, _ := current.(state.BeastMode)
		bm.Attempts++
		bm.LastFailure = reason
		if bm.Attempts >= a.Config.MaxFailures {
			return state.Failed{
				Reason:           "beast mode answer failed evaluation: " + reason,
				PartialKnowledge: knowledgeSummaries(actx),
			}, false
		}
		return bm, false
	}
	return current, false
}

func (a *Agent) doSearch(ctx context.Context, actx *agentctx.Context, tr *tracker.Tracker, step int, act SearchAction) bool {
	queries := act.Queries
	if a.Config.MaxQueriesPerStep > 0 && len(queries) > a.Config.MaxQueriesPerStep {
		queries = queries[:a.Config.MaxQueriesPerStep]
	}
	if len(queries) == 0 {
		return false
	}

	expanded := a.Personas.ExpandBatch(queries, a.classify(actx.OriginalQuestion()))
	if len(expanded) == 0 {
		return false
	}

	texts := make([]string, len(expanded))
	for i, wq := range expanded {
		texts[i] = wq.Query.Q
	}
	embeds, embedTokens, err := a.LLM.EmbedBatch(ctx, texts)
	tr.Track(step, "embed", embedTokens, 0)
	if err != nil {
		a.emit(step, ProgressError, err.Error(), "", ActionSearch)
		return false
	}

	accepted := vector.DedupQueries(embeds, actx.ExecutedQueryEmbeddings(), a.Config.DedupThreshold)
	if len(accepted) == 0 {
		a.emit(step, ProgressInfo, "all expanded queries were near-duplicates of prior searches", "", ActionSearch)
		return true
	}

	var acceptedQueries []string
	var acceptedEmbeds [][]float32
	foundTotal := 0

	for _, idx := range accepted {
		wq := expanded[idx]
		a.emit(step, ProgressPersonaQuery, wq.Query.Q, "", ActionSearch)

		snippets, err := a.Search.Search(ctx, wq.Query)
		if err != nil {
			a.emit(step, ProgressWarning, err.Error(), "", ActionSearch)
			continue
		}

		for i := range snippets {
			a.scoreSnippet(&snippets[i], wq.Weight)
		}
		added := actx.AddURLs(snippets)
		foundTotal += len(added)

		acceptedQueries = append(acceptedQueries, wq.Query.Q)
		acceptedEmbeds = append(acceptedEmbeds, embeds[idx])
	}

	if len(acceptedQueries) == 0 {
		return false
	}
	actx.AddExecutedQueries(acceptedQueries, acceptedEmbeds)
	actx.AppendDiary(knowledge.NewSearchEntry(step, time.Now(), acceptedQueries, act.Reasoning, foundTotal))
	return true
}

func (a *Agent) scoreSnippet(s *types.BoostedSearchSnippet, weight float64) {
	host := a.Search.ExtractHostname(s.URL)
	s.HostnameBoost = a.Search.HostnameBoost(host)
	s.PathBoost = a.Search.PathBoost(s.URL)
	if s.Weight == 0 {
		s.Weight = weight
	}
	if s.FreqBoost == 0 {
		s.FreqBoost = 1
	}
	if s.RerankBoost == 0 {
		s.RerankBoost = 1
	}
	s.ComputeScore()
}

func (a *Agent) doRead(ctx context.Context, actx *agentctx.Context, step int, act ReadAction) bool {
	urls := act.URLs
	if a.Config.MaxURLsPerStep > 0 && len(urls) > a.Config.MaxURLsPerStep {
		urls = urls[:a.Config.MaxURLsPerStep]
	}
	if len(urls) == 0 {
		return false
	}

	var readOK []string
	for _, u := range urls {
		if actx.IsURLVisited(u) || actx.IsURLBad(u) {
			continue
		}
		content, err := a.Search.ReadURL(ctx, u)
		if err != nil {
			actx.MarkBad(u)
			a.emit(step, ProgressWarning, err.Error(), u, ActionRead)
			continue
		}
		actx.MarkVisited(u)
		actx.AddQAKnowledge(u, content)
		a.emit(step, ProgressVisitedURL, "read", u, ActionRead)
		readOK = append(readOK, u)
	}

	if len(readOK) == 0 {
		return false
	}
	actx.AppendDiary(knowledge.NewReadEntry(step, time.Now(), readOK, act.Reasoning))
	return true
}

func (a *Agent) doReflect(actx *agentctx.Context, step int, act ReflectAction) bool {
	var added []string
	for _, q := range act.Questions {
		if actx.AddGapQuestion(q) {
			added = append(added, q)
		}
	}
	if len(added) == 0 {
		return false
	}
	actx.AppendDiary(knowledge.NewReflectEntry(step, time.Now(), added, act.Reasoning))
	return true
}

func (a *Agent) doCoding(ctx context.Context, actx *agentctx.Context, step int, act CodingAction) bool {
	if a.Sandbox == nil {
		return false
	}
	output, err := a.Sandbox.RunCode(ctx, act.Code)
	if err != nil {
		a.emit(step, ProgressWarning, err.Error(), "", ActionCoding)
		return false
	}
	actx.AddKnowledge(knowledge.Item{Question: act.Reasoning, Answer: output, ItemType: knowledge.ItemCoding})
	actx.AppendDiary(knowledge.NewCodingEntry(step, time.Now(), act.Code, act.Reasoning))
	return true
}

func (a *Agent) emit(step int, kind ProgressKind, msg, url string, action ActionKind) {
	sink := a.Progress
	if sink == nil {
		sink = NoOpSink{}
	}
	sink.Emit(ProgressEvent{Kind: kind, Step: step, Message: msg, URL: url, Action: action})
}

func (a *Agent) classify(question string) persona.QueryContext {
	if a.ClassifyQuery != nil {
		return a.ClassifyQuery(question)
	}
	return persona.QueryContext{}
}

func isActionPermitted(kind ActionKind, perms permissions.ActionPermissions) bool {
	switch kind {
	case ActionSearch:
		return perms.Search
	case ActionRead:
		return perms.Read
	case ActionReflect:
		return perms.Reflect
	case ActionAnswer:
		return perms.Answer
	case ActionCoding:
		return perms.Coding
	default:
		return false
	}
}

func actionSummary(action Action) string {
	switch act := action.(type) {
	case SearchAction:
		return fmt.Sprintf("search: %v", act.Queries)
	case ReadAction:
		return fmt.Sprintf("read: %v", act.URLs)
	case ReflectAction:
		return fmt.Sprintf("reflect: %v", act.Questions)
	case AnswerAction:
		return "answer proposed"
	case CodingAction:
		return "run code"
	default:
		return string(action.Kind())
	}
}

func knowledgeSummaries(actx *agentctx.Context) []string {
	items := actx.Knowledge()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Question + ": " + it.Answer
	}
	return out
}
