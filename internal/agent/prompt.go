package agent

import (
	"fmt"
	"strings"

	"go-deepresearch/internal/agentctx"
	"go-deepresearch/internal/permissions"
)

// BuildPrompt renders the current question, accumulated knowledge and
// diary, and the legal actions for this step into the single prompt
// DecideAction consumes. Layout follows the teacher's flat, labeled
// section style (see engine_research.go's plan/assessment prompts):
// short instructions followed by clearly delimited context blocks.
func BuildPrompt(ctx *agentctx.Context, perms permissions.ActionPermissions) string {
	var b strings.Builder

	fmt.Fprintf(&b, "ORIGINAL QUESTION: %s\n", ctx.OriginalQuestion())
	if cur := ctx.CurrentQuestion(); cur != ctx.OriginalQuestion() {
		fmt.Fprintf(&b, "CURRENT FOCUS: %s\n", cur)
	}
	fmt.Fprintf(&b, "STEP: %d\n\n", ctx.TotalStep())

	b.WriteString("KNOWLEDGE:\n")
	b.WriteString(ctx.FormatKnowledge())
	b.WriteString("\n")

	b.WriteString("DIARY:\n")
	b.WriteString(ctx.FormatDiary())
	b.WriteString("\n")

	if hints := ctx.ImprovementHints(); len(hints) > 0 {
		b.WriteString("IMPROVEMENT HINTS:\n")
		for _, h := range hints {
			fmt.Fprintf(&b, "- %s\n", h)
		}
		b.WriteString("\n")
	}

	if analysis := ctx.LastAgentAnalysis(); analysis != "" {
		fmt.Fprintf(&b, "LAST ANALYSIS: %s\n\n", analysis)
	}

	b.WriteString("ALLOWED ACTIONS: ")
	b.WriteString(strings.Join(perms.AllowedActions(), ", "))
	b.WriteString("\n")

	return b.String()
}
