package playerstate

import (
	"context"
	"errors"
	"strings"
	"time"

	"homestead/internal/app/ports"
	"homestead/internal/domain/economy"
	"homestead/internal/domain/farm"
)

// LoadOrProvision returns the player's homestead, creating it with the
// starter resources on first access. Must run inside a transaction.
func LoadOrProvision(ctx context.Context, repo ports.FarmStateRepository, playerID string, starter economy.Balance, now time.Time) (farm.Homestead, error) {
	h, fresh, err := Load(ctx, repo, playerID, starter, now)
	if err != nil || !fresh {
		return h, err
	}
	if err := repo.Create(ctx, h); err != nil {
		return farm.Homestead{}, err
	}
	return h, nil
}

// Load is LoadOrProvision without the write. A missing player comes back as
// an unsaved starter homestead with fresh set; the caller creates it once
// its action succeeded.
func Load(ctx context.Context, repo ports.FarmStateRepository, playerID string, starter economy.Balance, now time.Time) (h farm.Homestead, fresh bool, err error) {
	h, err = repo.GetByPlayerID(ctx, playerID)
	if err == nil {
		return h, false, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return farm.Homestead{}, false, err
	}
	return farm.NewHomestead(playerID, starter, now), true, nil
}

func NormalizePlayerID(id string) string {
	return strings.TrimSpace(id)
}
