package httpapi

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"go-deepresearch/internal/agent"
	"go-deepresearch/internal/runlog"
	"go-deepresearch/internal/types"
)

type researchRequest struct {
	Question          string `json:"question"`
	AllowDirectAnswer bool   `json:"allow_direct_answer"`
}

type tokenUsageResponse struct {
	Prompt     int `json:"prompt"`
	Completion int `json:"completion"`
	Total      int `json:"total"`
}

type researchResponse struct {
	Success      bool                `json:"success"`
	Answer       string              `json:"answer"`
	References   []types.Reference   `json:"references"`
	FinalState   string              `json:"final_state"`
	Steps        int                 `json:"steps"`
	Trivial      bool                `json:"trivial"`
	TokenUsage   tokenUsageResponse  `json:"token_usage"`
	VisitedURLs  []string            `json:"visited_urls"`
	Error        string              `json:"error,omitempty"`
	TotalTimeMs  int64               `json:"total_time_ms"`
	SearchTimeMs int64               `json:"search_time_ms"`
	ReadTimeMs   int64               `json:"read_time_ms"`
	LLMTimeMs    int64               `json:"llm_time_ms"`
}

func toResearchResponse(result agent.ResearchResult) researchResponse {
	return researchResponse{
		Success:    result.Success,
		Answer:     result.Answer,
		References: result.References,
		FinalState: string(result.Final.Kind()),
		Steps:      result.Steps,
		Trivial:    result.Trivial,
		TokenUsage: tokenUsageResponse{
			Prompt:     result.TokenUsage.Prompt,
			Completion: result.TokenUsage.Completion,
			Total:      result.TokenUsage.Total,
		},
		VisitedURLs:  result.VisitedURLs,
		Error:        result.Error,
		TotalTimeMs:  result.TotalTimeMs,
		SearchTimeMs: result.SearchTimeMs,
		ReadTimeMs:   result.ReadTimeMs,
		LLMTimeMs:    result.LLMTimeMs,
	}
}

// researchHandler runs a to-completion synchronous research call and
// returns the ResearchResult as JSON. If repo is non-nil, the completed
// run is persisted for audit/history.
func researchHandler(a *agent.Agent, repo *runlog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req researchRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Question == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": gin.H{"message": "missing or invalid 'question'"}})
			return
		}

		start := time.Now()
		result := a.Run(c.Request.Context(), req.Question, req.AllowDirectAnswer)
		recordRun(c, repo, req.Question, result, time.Since(start))

		c.JSON(http.StatusOK, toResearchResponse(result))
	}
}

func recordRun(c *gin.Context, repo *runlog.Repository, question string, result agent.ResearchResult, duration time.Duration) {
	if repo == nil {
		return
	}
	if _, err := repo.Record(c.Request.Context(), question, result, duration); err != nil {
		log.Printf("httpapi: failed to record run: %v", err)
	}
}
