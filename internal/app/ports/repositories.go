package ports

import (
	"context"
	"slices"
	"time"

	"homestead/internal/domain/economy"
	"homestead/internal/domain/farm"
	"homestead/internal/domain/lifecycle"
)

// ActionResult is the recorded answer to one applied action; replaying an
// idempotency key returns it verbatim.
type ActionResult struct {
	Action      string                `json:"action"`
	Entity      *lifecycle.Entity     `json:"entity,omitempty"`
	Projection  *lifecycle.Projection `json:"projection,omitempty"`
	Delta       economy.Balance       `json:"delta"`
	Drops       []string              `json:"drops,omitempty"`
	LevelBefore int                   `json:"level_before"`
	LevelAfter  int                   `json:"level_after"`
	Resources   economy.Balance       `json:"resources"`
	Events      []farm.DomainEvent    `json:"events"`
}

type ActionExecutionRecord struct {
	PlayerID       string
	IdempotencyKey string
	Action         string
	Target         string
	Result         ActionResult
	AppliedAt      time.Time
}

// FarmStateRepository loads and stores whole Homestead aggregates.
// GetByPlayerID locks the player for the rest of the surrounding transaction
// where the store supports it.
type FarmStateRepository interface {
	GetByPlayerID(ctx context.Context, playerID string) (farm.Homestead, error)
	Create(ctx context.Context, h farm.Homestead) error
	SaveWithVersion(ctx context.Context, h farm.Homestead, expectedVersion int64) error
	ListPlayerIDs(ctx context.Context) ([]string, error)
}

type ActionExecutionRepository interface {
	GetByIdempotencyKey(ctx context.Context, playerID, key string) (*ActionExecutionRecord, error)
	SaveExecution(ctx context.Context, execution ActionExecutionRecord) error
}

// EventQuery narrows an event listing. Filters apply before Limit, so a
// limited listing still holds the newest matching events.
type EventQuery struct {
	Limit int
	Types []string
	// Since is inclusive and Until exclusive; zero means unbounded.
	Since time.Time
	Until time.Time
}

// Matches reports whether evt passes the type and time filters.
func (q EventQuery) Matches(evt farm.DomainEvent) bool {
	if len(q.Types) > 0 && !slices.Contains(q.Types, evt.Type) {
		return false
	}
	if !q.Since.IsZero() && evt.OccurredAt.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && !evt.OccurredAt.Before(q.Until) {
		return false
	}
	return true
}

type EventRepository interface {
	Append(ctx context.Context, playerID string, events []farm.DomainEvent) error
	ListByPlayerID(ctx context.Context, playerID string, q EventQuery) ([]farm.DomainEvent, error)
}

