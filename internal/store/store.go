package store

import (
	"context"
	"time"

	"github.com/focalhq/focal/internal/types"
)

// Store defines the interface contract for all persistence operations.
type Store interface {
	// Time entries
	CreateEntry(ctx context.Context, e *types.TimeEntry) error
	GetEntry(ctx context.Context, ownerID, id string) (*types.TimeEntry, error)
	UpdateEntry(ctx context.Context, e *types.TimeEntry) error
	DeleteEntry(ctx context.Context, ownerID, id string) error
	ListEntries(ctx context.Context, ownerID string, q types.EntryQuery) ([]types.TimeEntry, int, error)
	ListEntriesBetween(ctx context.Context, ownerID string, start, end time.Time) ([]types.TimeEntry, error)

	// User tasks
	CreateTask(ctx context.Context, t *types.UserTask) error
	GetTask(ctx context.Context, ownerID, id string) (*types.UserTask, error)
	UpdateTask(ctx context.Context, t *types.UserTask) error
	DeleteTask(ctx context.Context, ownerID, id string) error
	ListTasks(ctx context.Context, ownerID string, q types.TaskQuery) ([]types.UserTask, error)

	// Productivity goals
	CreateGoal(ctx context.Context, g *types.ProductivityGoal) error
	GetGoal(ctx context.Context, ownerID, id string) (*types.ProductivityGoal, error)
	UpdateGoal(ctx context.Context, g *types.ProductivityGoal) error
	ListGoals(ctx context.Context, ownerID string) ([]types.ProductivityGoal, error)

	// API tokens
	CreateToken(ctx context.Context, tokenHash, ownerID, label string) error
	ResolveToken(ctx context.Context, tokenHash string) (string, error)
	ListTokens(ctx context.Context, ownerID string) ([]types.APIToken, error)
	RevokeToken(ctx context.Context, tokenHash string) error

	GetStats(ctx context.Context) (*types.ServiceStats, error)
	Close() error
}
