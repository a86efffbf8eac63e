// Package config loads the research agent's configuration from a JSON
// file with environment-variable overrides, following the teacher's
// config-file-plus-defaults idiom.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// AgentConfig is the recognized configuration from spec.md §6.
type AgentConfig struct {
	TokenBudget           int     `json:"token_budget"`
	MinStepsBeforeAnswer  int     `json:"min_steps_before_answer"`
	AllowDirectAnswer     bool    `json:"allow_direct_answer"`
	MaxURLsPerStep        int     `json:"max_urls_per_step"`
	MaxQueriesPerStep     int     `json:"max_queries_per_step"`
	MaxFailures           int     `json:"max_failures"`
	DedupThreshold        float64 `json:"dedup_threshold"`
	BeastModeThreshold    float64 `json:"beast_mode_threshold"`
	MaxSteps              int     `json:"max_steps"` // hard step cap (§4.8 step 2)
}

// DefaultAgentConfig returns the defaults enumerated in spec.md §6.
func DefaultAgentConfig() AgentConfig {
	return AgentConfig{
		TokenBudget:          1_000_000,
		MinStepsBeforeAnswer: 1,
		AllowDirectAnswer:    false,
		MaxURLsPerStep:       10,
		MaxQueriesPerStep:    5,
		MaxFailures:          3,
		DedupThreshold:       0.86,
		BeastModeThreshold:   0.85,
		MaxSteps:             100,
	}
}

// ServerConfig configures the HTTP/WS surface (internal/httpapi).
type ServerConfig struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Subpath   string `json:"subpath"`
	JWTSecret string `json:"jwt_secret"`
}

// PostgresConfig configures the run-audit persistence layer.
type PostgresConfig struct {
	DSN string `json:"dsn"`
}

// RedisConfig configures the session store.
type RedisConfig struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// LLMEndpointConfig describes one LLM backend.
type LLMEndpointConfig struct {
	Name        string `json:"name"`
	URL         string `json:"url"`
	ContextSize int    `json:"context_size"`
}

// SearxNGConfig configures the search client adapter.
type SearxNGConfig struct {
	URL        string `json:"url"`
	MaxResults int    `json:"max_results"`
}

// QdrantConfig configures the embedding-cache adapter.
type QdrantConfig struct {
	URL        string `json:"url"`
	Collection string `json:"collection"`
	APIKey     string `json:"api_key"`
}

// Config is the root configuration document.
type Config struct {
	Server   ServerConfig      `json:"server"`
	Postgres PostgresConfig    `json:"postgres"`
	Redis    RedisConfig       `json:"redis"`
	SearxNG  SearxNGConfig     `json:"searxng"`
	Qdrant   QdrantConfig      `json:"qdrant"`
	LLMs     []LLMEndpointConfig `json:"llms"`
	Agent    AgentConfig       `json:"agent"`
}

// Load reads path as JSON, applies AgentConfig defaults for any zero
// fields, then layers environment-variable overrides on top. The core
// itself never reads the environment directly (spec.md §9 Design notes) —
// only this loader does, at the process boundary.
func Load(path string) (*Config, error) {
	var c Config
	c.Agent = DefaultAgentConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	applyAgentDefaults(&c.Agent)
	applyEnvOverrides(&c)
	return &c, nil
}

func applyAgentDefaults(a *AgentConfig) {
	d := DefaultAgentConfig()
	if a.TokenBudget == 0 {
		a.TokenBudget = d.TokenBudget
	}
	if a.MinStepsBeforeAnswer == 0 {
		a.MinStepsBeforeAnswer = d.MinStepsBeforeAnswer
	}
	if a.MaxURLsPerStep == 0 {
		a.MaxURLsPerStep = d.MaxURLsPerStep
	}
	if a.MaxQueriesPerStep == 0 {
		a.MaxQueriesPerStep = d.MaxQueriesPerStep
	}
	if a.MaxFailures == 0 {
		a.MaxFailures = d.MaxFailures
	}
	if a.DedupThreshold == 0 {
		a.DedupThreshold = d.DedupThreshold
	}
	if a.BeastModeThreshold == 0 {
		a.BeastModeThreshold = d.BeastModeThreshold
	}
	if a.MaxSteps == 0 {
		a.MaxSteps = d.MaxSteps
	}
}

func applyEnvOverrides(c *Config) {
	if v := os.Getenv("RESEARCH_TOKEN_BUDGET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Agent.TokenBudget = n
		}
	}
	if v := os.Getenv("RESEARCH_SEARXNG_URL"); v != "" {
		c.SearxNG.URL = v
	}
	if v := os.Getenv("RESEARCH_JWT_SECRET"); v != "" {
		c.Server.JWTSecret = v
	}
	if v := os.Getenv("RESEARCH_POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("RESEARCH_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
}
