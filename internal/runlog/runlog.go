// Package runlog persists completed research runs for audit/history using
// gorm, the same ORM the teacher uses for its chat/user models — but as
// an instance-owned repository rather than a package-level *gorm.DB
// singleton, so a process can open more than one audit store (e.g. one
// per test) without global state bleeding between them.
package runlog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"go-deepresearch/internal/agent"
)

// Run is the gorm model for one completed research run.
type Run struct {
	ID               uint           `json:"id" gorm:"primaryKey"`
	Question         string         `json:"question"`
	Answer           string         `json:"answer"`
	References       datatypes.JSON `json:"references" gorm:"type:jsonb"`
	FinalState       string         `json:"final_state"`
	Steps            int            `json:"steps"`
	TokensUsed       int            `json:"tokens_used"`
	DurationMillis   int64          `json:"duration_millis"`
	CreatedAt        time.Time      `json:"created_at"`
	DeletedAt        gorm.DeletedAt `json:"-" gorm:"index"`
}

// Repository persists and retrieves Runs. Construct one with OpenPostgres
// or OpenSQLite; it
// owns its *gorm.DB rather than relying on a package-level global.
type Repository struct {
	db *gorm.DB
}

// OpenPostgres opens a Repository against a Postgres DSN, for production.
func OpenPostgres(dsn string) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("runlog: open postgres: %w", err)
	}
	return open(db)
}

// OpenSQLite opens a Repository against a SQLite file (or ":memory:"),
// for local development and tests.
func OpenSQLite(path string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("runlog: open sqlite: %w", err)
	}
	return open(db)
}

func open(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&Run{}); err != nil {
		return nil, fmt.Errorf("runlog: migrate: %w", err)
	}
	return &Repository{db: db}, nil
}

// Record persists a completed ResearchResult, tagging it with how long the
// run took wall-clock.
func (r *Repository) Record(ctx context.Context, question string, result agent.ResearchResult, duration time.Duration) (*Run, error) {
	refsJSON, err := json.Marshal(result.References)
	if err != nil {
		return nil, fmt.Errorf("runlog: marshal references: %w", err)
	}

	run := &Run{
		Question:       question,
		Answer:         result.Answer,
		References:     datatypes.JSON(refsJSON),
		FinalState:     string(result.Final.Kind()),
		Steps:          result.Steps,
		TokensUsed:     result.TokenUsage.Total,
		DurationMillis: duration.Milliseconds(),
	}
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, fmt.Errorf("runlog: create: %w", err)
	}
	return run, nil
}

// Get retrieves a Run by ID.
func (r *Repository) Get(ctx context.Context, id uint) (*Run, error) {
	var run Run
	if err := r.db.WithContext(ctx).First(&run, id).Error; err != nil {
		return nil, fmt.Errorf("runlog: get %d: %w", id, err)
	}
	return &run, nil
}

// Recent returns the most recent runs, newest first, bounded by limit.
func (r *Repository) Recent(ctx context.Context, limit int) ([]Run, error) {
	var runs []Run
	if err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("runlog: list recent: %w", err)
	}
	return runs, nil
}
