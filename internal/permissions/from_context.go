package permissions

import (
	"go-deepresearch/internal/agentctx"
	"go-deepresearch/internal/config"
)

// FromContext computes the legal actions for the current step, per
// spec.md §4.6:
//
//	search  <=> |collected_urls| < 50
//	read    <=> available_urls() > 0
//	reflect <=> |gap_questions| <= 2
//	answer  <=> total_step >= config.min_steps_before_answer,
//	            or (allow_direct_answer && config.allow_direct_answer)
//	coding  <=> always true
func FromContext(ctx *agentctx.Context, cfg config.AgentConfig) ActionPermissions {
	answer := ctx.TotalStep() >= cfg.MinStepsBeforeAnswer ||
		(ctx.AllowDirectAnswer() && cfg.AllowDirectAnswer)

	return ActionPermissions{
		Search:  ctx.CollectedURLCount() < 50,
		Read:    ctx.AvailableURLs() > 0,
		Reflect: ctx.GapQuestionCount() <= 2,
		Answer:  answer,
		Coding:  true,
	}
}
