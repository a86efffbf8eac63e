package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"go-deepresearch/internal/agent"
	"go-deepresearch/internal/config"
	"go-deepresearch/internal/embedcache"
	"go-deepresearch/internal/httpapi"
	"go-deepresearch/internal/llmclient"
	"go-deepresearch/internal/persona"
	"go-deepresearch/internal/runlog"
	"go-deepresearch/internal/sandboxclient"
	"go-deepresearch/internal/searchclient"
	"go-deepresearch/internal/user"
)

func main() {
	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	manager := llmclient.NewManager(llmclient.DefaultManagerConfig())
	defer manager.Close()

	chatEndpoint := findLLM(cfg.LLMs, "chat")
	embedEndpoint := findLLM(cfg.LLMs, "embed")
	if chatEndpoint.URL == "" {
		log.Fatalf("[Main] no \"chat\" entry configured under llms")
	}
	if embedEndpoint.URL == "" {
		log.Fatalf("[Main] no \"embed\" entry configured under llms")
	}

	llm := llmclient.New(manager, chatEndpoint.URL, embedEndpoint.URL, chatEndpoint.Name, embedEndpoint.Name, 60)

	var researchLLM agent.LLMClient = llm
	if cfg.Qdrant.URL != "" {
		log.Printf("[Main] caching embeddings through Qdrant at %s", cfg.Qdrant.URL)
		cache, err := embedcache.New(ctx, llm, cfg.Qdrant.URL, 6334, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, false)
		if err != nil {
			log.Fatalf("[Main] embedding cache init error: %v", err)
		}
		researchLLM = cache
	} else {
		log.Printf("[Main] qdrant.url not configured, running without an embedding cache")
	}

	search := searchclient.New(cfg.SearxNG.URL, cfg.SearxNG.MaxResults, 30*time.Second)

	a := &agent.Agent{
		LLM:       researchLLM,
		Search:    search,
		Sandbox:   sandboxclient.Stub{},
		Evaluator: llm,
		Personas:  persona.Default(),
		Config:    cfg.Agent,
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		log.Printf("[Main] session store: redis at %s", cfg.Redis.Addr)
	} else {
		log.Fatalf("[Main] redis.addr must be configured for session storage")
	}

	var repo *runlog.Repository
	var users *user.Repository
	if cfg.Postgres.DSN != "" {
		log.Printf("[Main] run-audit log: postgres")
		repo, err = runlog.OpenPostgres(cfg.Postgres.DSN)
		if err != nil {
			log.Fatalf("[Main] run-audit postgres init error: %v", err)
		}
		users, err = user.OpenPostgres(cfg.Postgres.DSN)
		if err != nil {
			log.Fatalf("[Main] user store postgres init error: %v", err)
		}
	} else {
		log.Printf("[Main] postgres.dsn not set, runs will not be persisted and /auth/login is disabled")
	}

	r := httpapi.NewRouter(a, cfg.Server.JWTSecret, rdb, repo, users)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("[Main] starting server on %s%s", addr, cfg.Server.Subpath)
	if err := r.Run(addr); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}

func findLLM(llms []config.LLMEndpointConfig, name string) config.LLMEndpointConfig {
	for _, l := range llms {
		if l.Name == name {
			return l
		}
	}
	return config.LLMEndpointConfig{}
}
