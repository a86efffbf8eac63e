package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"go-deepresearch/internal/agent"
	"go-deepresearch/internal/runlog"
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// safeWSConn serializes writes to a *websocket.Conn: gorilla/websocket
// connections are not safe for concurrent writers, and a run's progress
// events arrive from a different goroutine than the client's own
// messages are read from.
type safeWSConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (s *safeWSConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

// researchWSHandler upgrades the connection, reads one {"question": ...}
// message, then streams that run's ProgressEvents until it completes,
// finishing with the ResearchResult.
func researchWSHandler(a *agent.Agent, repo *runlog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawConn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("httpapi: websocket upgrade failed: %v", err)
			return
		}
		conn := &safeWSConn{conn: rawConn}
		defer rawConn.Close()

		_, msg, err := rawConn.ReadMessage()
		if err != nil {
			conn.WriteJSON(gin.H{"error": "failed to read initial message"})
			return
		}

		var req researchRequest
		if err := json.Unmarshal(msg, &req); err != nil || req.Question == "" {
			conn.WriteJSON(gin.H{"error": "invalid JSON or missing 'question'"})
			return
		}

		events := make(chan agent.ProgressEvent, 64)
		runAgent := *a
		runAgent.Progress = agent.ChannelSink{C: events}

		start := time.Now()
		done := make(chan agent.ResearchResult, 1)
		go func() {
			done <- runAgent.Run(c.Request.Context(), req.Question, req.AllowDirectAnswer)
			close(events)
		}()

		for ev := range events {
			if err := conn.WriteJSON(progressEventJSON(ev)); err != nil {
				return
			}
		}

		result := <-done
		recordRun(c, repo, req.Question, result, time.Since(start))
		conn.WriteJSON(gin.H{
			"event":  "done",
			"result": toResearchResponse(result),
		})
	}
}

func progressEventJSON(ev agent.ProgressEvent) gin.H {
	return gin.H{
		"event":   "progress",
		"kind":    string(ev.Kind),
		"step":    ev.Step,
		"message": ev.Message,
		"url":     ev.URL,
		"action":  string(ev.Action),
	}
}
