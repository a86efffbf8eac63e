// Package httpapi exposes the research agent over HTTP: a synchronous
// POST /research endpoint and a GET /research/ws endpoint that streams
// ProgressEvents for a run over a WebSocket, grounded on the teacher's
// gin router and WebSocket handler shape.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-deepresearch/internal/agent"
	"go-deepresearch/internal/auth"
	"go-deepresearch/internal/runlog"
	"go-deepresearch/internal/user"
)

// NewRouter builds the gin engine. jwtSecret and rdb gate every route
// behind auth.Middleware except /health and /auth/login. repo and users
// are both optional: pass nil to run without persisting completed runs,
// or without a login endpoint, respectively.
func NewRouter(a *agent.Agent, jwtSecret string, rdb *redis.Client, repo *runlog.Repository, users *user.Repository) *gin.Engine {
	r := gin.Default()

	r.GET("/health", healthHandler)
	if users != nil {
		r.POST("/auth/login", loginHandler(jwtSecret, rdb, users))
	}

	group := r.Group("/")
	group.Use(auth.Middleware(jwtSecret, rdb))
	{
		group.POST("/auth/logout", logoutHandler(rdb))
		group.POST("/research", researchHandler(a, repo))
		group.GET("/research/ws", researchWSHandler(a, repo))
	}

	return r
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
