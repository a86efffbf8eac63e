package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"go-deepresearch/internal/agent"
	"go-deepresearch/internal/user"
)

// requireRedis skips the test unless RESEARCH_TEST_REDIS_ADDR points at a
// reachable Redis instance, mirroring internal/auth's session tests.
func requireRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("RESEARCH_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("RESEARCH_TEST_REDIS_ADDR not set, skipping redis-backed httpapi test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Skipf("could not reach redis at %s: %v", addr, err)
	}
	return rdb
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRouter(&agent.Agent{}, "secret", nil, nil, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestResearch_RequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb := requireRedis(t)
	r := NewRouter(&agent.Agent{}, "secret", rdb, nil, nil)

	w := httptest.NewRecorder()
	body, _ := json.Marshal(researchRequest{Question: "what is Go?"})
	req := httptest.NewRequest(http.MethodPost, "/research", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without a token, got %d", w.Code)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb := requireRedis(t)

	users, err := user.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if _, err := users.Create(context.Background(), "ada", "correct-password"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	r := NewRouter(&agent.Agent{}, "secret", rdb, nil, users)

	w := httptest.NewRecorder()
	body, _ := json.Marshal(loginRequest{Username: "ada", Password: "wrong-password"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for a wrong password, got %d", w.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb := requireRedis(t)

	users, err := user.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	if _, err := users.Create(context.Background(), "grace", "compiler123"); err != nil {
		t.Fatalf("Create: %v", err)
	}

	r := NewRouter(&agent.Agent{}, "secret", rdb, nil, users)

	w := httptest.NewRecorder()
	body, _ := json.Marshal(loginRequest{Username: "grace", Password: "compiler123"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp loginResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a non-empty token")
	}
	if resp.Username != "grace" {
		t.Errorf("Username = %q, want %q", resp.Username, "grace")
	}
}
