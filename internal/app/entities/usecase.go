package entities

import (
	"context"
	"errors"
	"time"

	"homestead/internal/app/ports"
	"homestead/internal/app/shared/playerstate"
	"homestead/internal/domain/clock"
	"homestead/internal/domain/economy"
	"homestead/internal/domain/farm"
	"homestead/internal/domain/lifecycle"
)

var ErrInvalidRequest = errors.New("invalid entities request")

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

type View struct {
	lifecycle.Entity
	Name       string               `json:"name"`
	Projection lifecycle.Projection `json:"projection"`
}

type Response struct {
	ServerTime time.Time `json:"server_time"`
	Entities   []View    `json:"entities"`
}

// Execute lists every entity with its status projected at the current
// server time.
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
		projected := u.Engine.Project(h, now)
		out = Response{ServerTime: now, Entities: make([]View, 0, len(projected))}
		for _, pe := range projected {
			view := View{Entity: pe.Entity, Projection: pe.Projection}
			if tpl, ok := u.Engine.Catalog().Template(pe.Entity.TemplateID); ok {
				view.Name = tpl.Name
			}
			out.Entities = append(out.Entities, view)
		}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return out, nil
}
