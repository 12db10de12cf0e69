package action

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"homestead/internal/app/ports"
	"homestead/internal/app/shared/playerstate"
	"homestead/internal/domain/clock"
	"homestead/internal/domain/economy"
	"homestead/internal/domain/farm"
)

var (
	ErrInvalidRequest = errors.New("invalid action request")

	// ErrIdempotencyMismatch reports a key reused for a different action.
	ErrIdempotencyMismatch = errors.New("idempotency key reused for a different action")
)

const defaultMaxAttempts = 3

type UseCase struct {
	TxManager  ports.TxManager
	StateRepo  ports.FarmStateRepository
	ActionRepo ports.ActionExecutionRepository
	EventRepo  ports.EventRepository
	Metrics    ports.ActionMetrics
	Engine     *farm.Engine
	Starter    economy.Balance
	Clock      clock.Clock
	// MaxAttempts bounds retries on version conflicts. Zero means 3.
	MaxAttempts int
}

// Execute applies one player action inside a transaction. A version conflict
// reruns the whole transaction so the action is re-judged on fresh state.
func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	req.PlayerID = playerstate.NormalizePlayerID(req.PlayerID)
	req.IdempotencyKey = strings.TrimSpace(req.IdempotencyKey)
	req.TemplateID = strings.TrimSpace(req.TemplateID)
	req.TargetID = strings.TrimSpace(req.TargetID)
	spec, ok := lookupSpec(req.Kind)
	if req.PlayerID == "" || !ok || !spec.Validate(req) {
		return Response{}, ErrInvalidRequest
	}

	attempts := u.MaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}
	var (
		out Response
		err error
	)
	for i := 0; i < attempts; i++ {
		out, err = u.attempt(ctx, spec, req)
		if !errors.Is(err, ports.ErrConflict) {
			break
		}
		if u.Metrics != nil {
			u.Metrics.RecordConflict()
		}
	}
	if err != nil {
		if u.Metrics != nil && !errors.Is(err, ports.ErrConflict) {
			u.Metrics.RecordFailure()
		}
		return Response{}, err
	}
	if u.Metrics != nil {
		u.Metrics.RecordSuccess(string(req.Kind))
	}
	return out, nil
}

func (u UseCase) attempt(ctx context.Context, spec actionSpec, req Request) (Response, error) {
	var out Response
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if replayed, ok, err := u.replayIdempotent(txCtx, req); err != nil || ok {
			out = replayed
			return err
		}

		now := u.now()
		state, fresh, err := playerstate.Load(txCtx, u.StateRepo, req.PlayerID, u.Starter, now)
		if err != nil {
			return err
		}
		working := state.Clone()
		outcome, err := spec.Apply(u.Engine, &working, req, now)
		if err != nil {
			return err
		}
		// A rejected first action leaves no player behind.
		if fresh {
			if err := u.StateRepo.Create(txCtx, state); err != nil {
				return err
			}
		}
		working.Player.Version = state.Player.Version + 1
		if err := u.StateRepo.SaveWithVersion(txCtx, working, state.Player.Version); err != nil {
			return err
		}

		for i := range outcome.Events {
			if outcome.Events[i].Payload == nil {
				outcome.Events[i].Payload = map[string]any{}
			}
			outcome.Events[i].Payload["player_id"] = req.PlayerID
			outcome.Events[i].Payload["action"] = string(req.Kind)
		}
		result := ports.ActionResult{
			Action:      outcome.Action,
			Entity:      outcome.Entity,
			Projection:  outcome.Projection,
			Delta:       outcome.Delta,
			Drops:       outcome.Drops,
			LevelBefore: outcome.LevelBefore,
			LevelAfter:  outcome.LevelAfter,
			Resources:   working.Ledger.Balance(),
			Events:      outcome.Events,
		}

		if req.IdempotencyKey != "" && u.ActionRepo != nil {
			execution := ports.ActionExecutionRecord{
				PlayerID:       req.PlayerID,
				IdempotencyKey: req.IdempotencyKey,
				Action:         string(req.Kind),
				Target:         target(req),
				Result:         result,
				AppliedAt:      now,
			}
			if err := u.ActionRepo.SaveExecution(txCtx, execution); err != nil {
				return err
			}
		}
		if u.EventRepo != nil && len(outcome.Events) > 0 {
			if err := u.EventRepo.Append(txCtx, req.PlayerID, outcome.Events); err != nil {
				return err
			}
		}
		out = Response{ActionResult: result}
		return nil
	})
	if err != nil {
		return Response{}, err
	}
	return out, nil
}

func (u UseCase) replayIdempotent(ctx context.Context, req Request) (Response, bool, error) {
	if req.IdempotencyKey == "" || u.ActionRepo == nil {
		return Response{}, false, nil
	}
	exec, err := u.ActionRepo.GetByIdempotencyKey(ctx, req.PlayerID, req.IdempotencyKey)
	if err == nil && exec != nil {
		if exec.Action != string(req.Kind) || exec.Target != target(req) {
			return Response{}, false, ErrIdempotencyMismatch
		}
		return Response{ActionResult: exec.Result, Replayed: true}, true, nil
	}
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return Response{}, false, err
	}
	return Response{}, false, nil
}

func target(req Request) string {
	switch req.Kind {
	case KindPlace:
		return req.TemplateID + "@" + req.Position.String()
	case KindScatter:
		return strconv.Itoa(req.Count)
	}
	return req.TargetID
}

func (u UseCase) now() time.Time {
	if u.Clock == nil {
		return clock.System().Now()
	}
	return u.Clock.Now()
}
