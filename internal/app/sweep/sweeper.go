package sweep

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"homestead/internal/app/ports"
	"homestead/internal/domain/clock"
	"homestead/internal/domain/farm"
)

// Sweeper periodically persists projected statuses so stored rows stay close
// to what reads compute. It is never needed for correctness.
type Sweeper struct {
	TxManager ports.TxManager
	StateRepo ports.FarmStateRepository
	Engine    *farm.Engine
	Clock     clock.Clock
	Logger    *slog.Logger
}

// RunOnce refreshes every player once and returns how many entities changed.
func (s Sweeper) RunOnce(ctx context.Context) (int, error) {
	ids, err := s.StateRepo.ListPlayerIDs(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, id := range ids {
		changed, err := s.refresh(ctx, id)
		if errors.Is(err, ports.ErrConflict) {
			// A player action won the race; the next pass picks it up.
			continue
		}
		if err != nil {
			return total, err
		}
		total += changed
	}
	return total, nil
}

func (s Sweeper) refresh(ctx context.Context, playerID string) (int, error) {
	changed := 0
	err := s.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		h, err := s.StateRepo.GetByPlayerID(txCtx, playerID)
		if err != nil {
			return err
		}
		working := h.Clone()
		changed = s.Engine.Refresh(&working, s.Clock.Now())
		if changed == 0 {
			return nil
		}
		working.Player.Version = h.Player.Version + 1
		return s.StateRepo.SaveWithVersion(txCtx, working, h.Player.Version)
	})
	return changed, err
}

// Run sweeps on every tick until ctx is done.
func (s Sweeper) Run(ctx context.Context, interval time.Duration) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			changed, err := s.RunOnce(ctx)
			if err != nil {
				logger.Error("sweep failed", "err", err)
				continue
			}
			if changed > 0 {
				logger.Info("sweep refreshed statuses", "changed", changed)
			}
		}
	}
}
