package profile

import (
	"context"
	"errors"
	"time"

	"homestead/internal/app/ports"
	"homestead/internal/app/shared/playerstate"
	"homestead/internal/domain/clock"
	"homestead/internal/domain/economy"
	"homestead/internal/domain/farm"
	"homestead/internal/domain/leveling"
)

var ErrInvalidRequest = errors.New("invalid profile request")

type UseCase struct {
	TxManager ports.TxManager
	StateRepo ports.FarmStateRepository
	Engine    *farm.Engine
	Starter   economy.Balance
	Clock     clock.Clock
}

type Request struct {
	PlayerID string
}

type Response struct {
	PlayerID      string            `json:"player_id"`
	Level         int               `json:"level"`
	Experience    int               `json:"experience"`
	Progress      leveling.Progress `json:"progress"`
	Resources     economy.Balance   `json:"resources"`
	EntityCount   int               `json:"entity_count"`
	ClaimedQuests int               `json:"claimed_quests"`
	Version       int64             `json:"version"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	ServerTime    time.Time         `json:"server_time"`
}

// Execute returns the player snapshot, provisioning the player on first use.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.PlayerID = playerstate.NormalizePlayerID(req.PlayerID)
	if req.PlayerID == "" {
		return Response{}, ErrInvalidRequest
	}
	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		now := u.Clock.Now()
		h, err := playerstate.LoadOrProvision(txCtx, u.StateRepo, req.PlayerID, u.Starter, now)
		if err != nil {
			return err
		}
		progress := u.Engine.Levels().ProgressFor(h.Experience())
		progress.Level = h.Player.Level
		out = Response{
			PlayerID:      h.Player.ID,
			Level:         h.Player.Level,
			Experience:    h.Experience(),
			Progress:      progress,
			Resources:     h.Ledger.Balance(),
			EntityCount:   h.Registry.Len(),
			ClaimedQuests: len(h.Claimed),
			Version:       h.Player.Version,
			CreatedAt:     h.Player.CreatedAt,
			UpdatedAt:     h.Player.UpdatedAt,
			ServerTime:    now,
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return out, nil
}
