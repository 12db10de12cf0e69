package quests

import (
	"context"
	"errors"
	"time"

	"homestead/internal/app/ports"
	"homestead/internal/app/shared/playerstate"
	"homestead/internal/domain/clock"
	"homestead/internal/domain/economy"
	"homestead/internal/domain/farm"
	"homestead/internal/domain/quest"
)

var ErrInvalidRequest = errors.New("invalid quests request")

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
	ServerTime time.Time      `json:"server_time"`
	Level      int            `json:"level"`
	Quests     []quest.Status `json:"quests"`
}

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
		out = Response{ServerTime: now, Level: h.Player.Level, Quests: u.Engine.QuestBoard(h, now)}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return out, nil
}
